package catalog

import (
	"slices"

	"github.com/google/uuid"
)

// Catalog is an immutable snapshot of the data source. Facets and bounds are
// computed once, when the snapshot is built.
type Catalog struct {
	// Version identifies the snapshot. A reload always produces a new one.
	Version string

	entries []Entry
	bounds  Range
	facets  Facets
}

// New builds a snapshot holding a copy of entries.
func New(entries []Entry) *Catalog {
	own := slices.Clone(entries)
	return &Catalog{
		Version: uuid.NewString(),
		entries: own,
		bounds:  Bounds(own),
		facets:  DeriveFacets(own),
	}
}

// Entries returns a copy of the entries in source order.
func (c *Catalog) Entries() []Entry { return slices.Clone(c.entries) }

func (c *Catalog) Len() int { return len(c.entries) }

func (c *Catalog) Bounds() Range { return c.bounds }

// Facets returns the distinct facet values. The slices must not be modified.
func (c *Catalog) Facets() Facets { return c.facets }

// NewState returns the initial selection for this snapshot.
func (c *Catalog) NewState(key SortKey) State {
	return NewState(c.bounds, key)
}
