// Package nations holds the static nation catalog and the prefix resolver
// used to turn a player's partial nation name into a single nation.
package nations

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mcoot/dombot/internal/model"
)

// Catalog is an immutable id -> nation table
type Catalog struct {
	byID    map[model.NationID]model.Nation
	ordered []model.Nation
}

// NewCatalog builds a catalog from the given nations.
// Later duplicates of an id replace earlier ones.
func NewCatalog(nations []model.Nation) *Catalog {
	byID := make(map[model.NationID]model.Nation, len(nations))
	for _, n := range nations {
		byID[n.ID] = n
	}
	ordered := make([]model.Nation, 0, len(byID))
	for _, n := range byID {
		ordered = append(ordered, n)
	}
	slices.SortFunc(ordered, func(a, b model.Nation) int {
		return int(a.ID) - int(b.ID)
	})
	return &Catalog{byID: byID, ordered: ordered}
}

// Default returns the shared Dominions 5 catalog, built on first use
var Default = sync.OnceValue(func() *Catalog {
	return NewCatalog(dominions5Nations)
})

// Lookup returns the nation with the given id
func (c *Catalog) Lookup(id model.NationID) (model.Nation, bool) {
	n, ok := c.byID[id]
	return n, ok
}

// Name returns the nation name for id, or a placeholder for unknown ids
func (c *Catalog) Name(id model.NationID) string {
	if n, ok := c.byID[id]; ok {
		return n.Name
	}
	return fmt.Sprintf("Nation %d", id)
}

// ByEra returns the nations of one era ordered by id
func (c *Catalog) ByEra(era model.Era) []model.Nation {
	var out []model.Nation
	for _, n := range c.ordered {
		if n.Era == era {
			out = append(out, n)
		}
	}
	return out
}

// All returns every nation ordered by id
func (c *Catalog) All() []model.Nation {
	return slices.Clone(c.ordered)
}

// Len returns the number of nations in the catalog
func (c *Catalog) Len() int {
	return len(c.ordered)
}
