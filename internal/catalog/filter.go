package catalog

// All is the facet selection that does not restrict the result. An empty
// selection means the same.
const All = "all"

// Range is an inclusive span of periods.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Bounds returns the smallest range holding every entry's period.
// With no entries the range is [0, 0].
func Bounds(entries []Entry) Range {
	if len(entries) == 0 {
		return Range{}
	}
	r := Range{Min: entries[0].Period, Max: entries[0].Period}
	for _, e := range entries[1:] {
		r.Min = min(r.Min, e.Period)
		r.Max = max(r.Max, e.Period)
	}
	return r
}

// Clamp restricts v to the range.
func (r Range) Clamp(v int) int {
	return max(r.Min, min(v, r.Max))
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Filter is the conjunction of predicates applied after sorting.
type Filter struct {
	Range
	Medium            string
	PeriodName        string
	Category4         string
	LowDifficultyOnly bool
}

// Selected returns the filter's selection for a facet, or All.
func (f Filter) Selected(facet Facet) string {
	var v string
	switch facet {
	case FacetMedium:
		v = f.Medium
	case FacetPeriodName:
		v = f.PeriodName
	case FacetCategory4:
		v = f.Category4
	}
	if v == "" {
		return All
	}
	return v
}

func (f Filter) with(facet Facet, value string) Filter {
	if value == "" {
		value = All
	}
	switch facet {
	case FacetMedium:
		f.Medium = value
	case FacetPeriodName:
		f.PeriodName = value
	case FacetCategory4:
		f.Category4 = value
	}
	return f
}

// Match reports whether e satisfies every active predicate.
func (f Filter) Match(e Entry) bool {
	if !f.Contains(e.Period) {
		return false
	}
	for _, facet := range AllFacets {
		if want := f.Selected(facet); want != All && facet.Value(e) != want {
			return false
		}
	}
	if f.LowDifficultyOnly && e.Difficulty != DifficultyLow {
		return false
	}
	return true
}

// Apply returns the entries matching f, in input order.
func Apply(entries []Entry, f Filter) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
