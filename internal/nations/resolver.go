package nations

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcoot/dombot/internal/model"
)

// Resolve matches query as a case-insensitive prefix of the candidate names.
// It returns the single matching nation, model.ErrAmbiguousNation when more
// than one candidate matches, or model.ErrNationNotFound when none does.
func Resolve(candidates []model.Nation, query string) (model.Nation, error) {
	// Casers carry state and must not be shared between goroutines
	lower := cases.Lower(language.Und)
	prefix := lower.String(query)

	var match model.Nation
	found := 0
	for _, n := range candidates {
		if !strings.HasPrefix(lower.String(n.Name), prefix) {
			continue
		}
		found++
		if found > 1 {
			return model.Nation{}, model.ErrAmbiguousNation
		}
		match = n
	}
	if found == 0 {
		return model.Nation{}, model.ErrNationNotFound
	}
	return match, nil
}
