package nations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mcoot/dombot/internal/model"
)

func nationSet(names ...string) []model.Nation {
	out := make([]model.Nation, len(names))
	for i, name := range names {
		out[i] = model.Nation{ID: model.NationID(i + 1), Name: name, Era: model.EraEarly}
	}
	return out
}

func TestResolveUniquePrefix(t *testing.T) {
	n, err := Resolve(nationSet("Marignon", "Agartha"), "ma")
	require.NoError(t, err)
	assert.Equal(t, "Marignon", n.Name)
}

func TestResolveIsPrefixNotSubstring(t *testing.T) {
	_, err := Resolve(nationSet("Agartha"), "ga")
	assert.ErrorIs(t, err, model.ErrNationNotFound)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	candidates := nationSet("Arcoscephale", "Ermor")

	for _, query := range []string{"arco", "ARCO", "ArCoScEpHaLe"} {
		n, err := Resolve(candidates, query)
		require.NoError(t, err, query)
		assert.Equal(t, model.NationID(1), n.ID)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	_, err := Resolve(nationSet("Ermor", "Early Ermor"), "e")
	assert.ErrorIs(t, err, model.ErrAmbiguousNation)
}

func TestResolveLongerPrefixDisambiguates(t *testing.T) {
	n, err := Resolve(nationSet("Ermor", "Early Ermor"), "er")
	require.NoError(t, err)
	assert.Equal(t, "Ermor", n.Name)
}

func TestResolveExactNameThatPrefixesAnother(t *testing.T) {
	// "man" is a full name but also prefixes "Manticore"; no tie-break is attempted
	_, err := Resolve(nationSet("Man", "Manticore"), "man")
	assert.ErrorIs(t, err, model.ErrAmbiguousNation)
}

func TestResolveEmptyCandidates(t *testing.T) {
	_, err := Resolve(nil, "a")
	assert.ErrorIs(t, err, model.ErrNationNotFound)
}

func TestResolveNoTrimming(t *testing.T) {
	_, err := Resolve(nationSet("Ulm"), " ulm")
	assert.ErrorIs(t, err, model.ErrNationNotFound)
}

func TestResolveNonASCIINames(t *testing.T) {
	n, err := Resolve(nationSet("Midgård", "Utgård"), "MIDGÅ")
	require.NoError(t, err)
	assert.Equal(t, "Midgård", n.Name)
}

// TestResolveMatchesPrefixCount checks the outcome against a direct count of
// prefix matches for arbitrary candidate sets.
func TestResolveMatchesPrefixCount(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		names := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z' ]{1,10}`), 0, 8).Draw(r, "names")
		query := rapid.StringMatching(`[A-Za-z]{0,3}`).Draw(r, "query")

		matches := 0
		for _, name := range names {
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(query)) {
				matches++
			}
		}

		n, err := Resolve(nationSet(names...), query)
		switch {
		case matches == 0:
			if err != model.ErrNationNotFound {
				r.Fatalf("expected not found, got %v", err)
			}
		case matches > 1:
			if err != model.ErrAmbiguousNation {
				r.Fatalf("expected ambiguous, got %v", err)
			}
		default:
			if err != nil {
				r.Fatalf("expected a match, got %v", err)
			}
			if !strings.HasPrefix(strings.ToLower(n.Name), strings.ToLower(query)) {
				r.Fatalf("resolved %q does not start with %q", n.Name, query)
			}
		}
	})
}

func TestResolveIgnoresQueryCase(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		names := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z]{1,10}`), 1, 6).Draw(r, "names")
		query := rapid.StringMatching(`[a-z]{1,3}`).Draw(r, "query")
		candidates := nationSet(names...)

		lowerNation, lowerErr := Resolve(candidates, query)
		upperNation, upperErr := Resolve(candidates, strings.ToUpper(query))
		if lowerErr != upperErr || lowerNation != upperNation {
			r.Fatalf("case changed result: (%v, %v) vs (%v, %v)", lowerNation, lowerErr, upperNation, upperErr)
		}
	})
}
