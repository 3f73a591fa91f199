package catalog

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the comparator of the sort stage.
type SortKey string

const (
	SortName       SortKey = "name"
	SortPeriodAsc  SortKey = "period-a"
	SortPeriodDesc SortKey = "period-d"
)

var sortKeys = []SortKey{SortName, SortPeriodAsc, SortPeriodDesc}

// SortKeys returns the selectable sort keys in display order.
func SortKeys() []SortKey { return slices.Clone(sortKeys) }

// ParseSortKey accepts only the selectable keys.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(s)
	if !slices.Contains(sortKeys, k) {
		return "", fmt.Errorf("unknown sort key %q: must be one of name, period-a, period-d", s)
	}
	return k, nil
}

func (k SortKey) Label() string {
	switch k {
	case SortName:
		return "Name (A–Z)"
	case SortPeriodAsc:
		return "Period (ascending)"
	case SortPeriodDesc:
		return "Period (descending)"
	}
	return string(k)
}

// Next returns the key after k in display order, wrapping around.
func (k SortKey) Next() SortKey {
	i := slices.Index(sortKeys, k)
	return sortKeys[(i+1)%len(sortKeys)]
}

// Sorter orders entries. Names are compared with a collator for the
// configured locale. A Sorter is not safe for concurrent use.
type Sorter struct {
	collator *collate.Collator
}

func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{collator: collate.New(tag)}
}

// Sort returns a new slice ordered by key. The sort is stable, so entries with
// equal keys keep their input order. An unknown key returns the input order.
// The input is never modified.
func (s *Sorter) Sort(entries []Entry, key SortKey) []Entry {
	out := slices.Clone(entries)
	switch key {
	case SortName:
		slices.SortStableFunc(out, func(a, b Entry) int {
			return s.collator.CompareString(a.Name, b.Name)
		})
	case SortPeriodAsc:
		slices.SortStableFunc(out, func(a, b Entry) int {
			return cmp.Compare(a.Period, b.Period)
		})
	case SortPeriodDesc:
		slices.SortStableFunc(out, func(a, b Entry) int {
			return cmp.Compare(b.Period, a.Period)
		})
	}
	return out
}

// Sort orders entries with an English collator.
func Sort(entries []Entry, key SortKey) []Entry {
	return NewSorter(language.English).Sort(entries, key)
}
