// Package tally ranks the most frequent facet values of a result set.
package tally

import (
	"sort"

	"github.com/keilerkonzept/topk"
	"github.com/keilerkonzept/topk/heap"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
)

// Item is a facet value and the number of entries carrying it.
type Item struct {
	Value string
	Count uint32
}

// Tally is the ranking of one facet.
type Tally struct {
	Facet catalog.Facet
	Items []Item
}

const (
	minWidth = 256
	depth    = 3
)

// Count returns the k most frequent values of facet among entries, by count
// descending and then by value.
func Count(entries []catalog.Entry, facet catalog.Facet, k int) []Item {
	if k < 1 || len(entries) == 0 {
		return nil
	}
	sketch := topk.New(k,
		topk.WithWidth(max(minWidth, 8*len(entries))),
		topk.WithDepth(depth),
	)
	for _, e := range entries {
		sketch.Incr(facet.Value(e))
	}
	return rank(sketch.SortedSlice(), k)
}

// Tallies counts every facet.
func Tallies(entries []catalog.Entry, k int) []Tally {
	out := make([]Tally, 0, len(catalog.AllFacets))
	for _, f := range catalog.AllFacets {
		out = append(out, Tally{Facet: f, Items: Count(entries, f, k)})
	}
	return out
}

func rank(items []heap.Item, k int) []Item {
	sort.SliceStable(items, func(i, j int) bool {
		li := items[i]
		lj := items[j]
		if li.Count != lj.Count {
			return li.Count > lj.Count
		}
		return li.Item < lj.Item
	})
	if len(items) > k {
		items = items[:k]
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Count == 0 {
			continue
		}
		out = append(out, Item{Value: it.Item, Count: it.Count})
	}
	return out
}
