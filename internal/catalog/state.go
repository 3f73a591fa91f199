package catalog

import "slices"

// State is a snapshot of the user's selections. Every transition returns a new
// State; the receiver is left untouched. State is comparable and is used as
// part of the derivation cache key.
type State struct {
	Sort   SortKey
	Filter Filter
	// Bounds is the data range the period selection is clamped to.
	Bounds Range
}

// NewState selects everything within bounds, sorted by key.
func NewState(bounds Range, key SortKey) State {
	return State{
		Sort: key,
		Filter: Filter{
			Range:      bounds,
			Medium:     All,
			PeriodName: All,
			Category4:  All,
		},
		Bounds: bounds,
	}
}

func (s State) WithSort(key SortKey) State {
	s.Sort = key
	return s
}

// WithFacet selects value for facet. An empty value selects All.
func (s State) WithFacet(facet Facet, value string) State {
	s.Filter = s.Filter.with(facet, value)
	return s
}

// CycleFacet moves the facet selection one step through All followed by the
// values in facets. A selection that is no longer offered restarts at All.
// Values a selection cannot hold are skipped.
func (s State) CycleFacet(facet Facet, facets Facets) State {
	options := []string{All}
	for _, v := range facets.Values(facet) {
		if facetValueError(v) == nil {
			options = append(options, v)
		}
	}
	i := slices.Index(options, s.Filter.Selected(facet))
	return s.WithFacet(facet, options[(i+1)%len(options)])
}

func (s State) WithLowDifficultyOnly(on bool) State {
	s.Filter.LowDifficultyOnly = on
	return s
}

func (s State) ToggleLowDifficultyOnly() State {
	return s.WithLowDifficultyOnly(!s.Filter.LowDifficultyOnly)
}

// WithRangeMin moves the lower endpoint to v, clamped to the data bounds and
// never above the current upper endpoint.
func (s State) WithRangeMin(v int) State {
	s.Filter.Min = min(s.Bounds.Clamp(v), s.Filter.Max)
	return s
}

// WithRangeMax moves the upper endpoint to v, clamped to the data bounds and
// never below the current lower endpoint.
func (s State) WithRangeMax(v int) State {
	s.Filter.Max = max(s.Bounds.Clamp(v), s.Filter.Min)
	return s
}

// Reset clears every filter and keeps the sort key.
func (s State) Reset() State {
	return NewState(s.Bounds, s.Sort)
}

// Rebase moves the state onto new data bounds. An endpoint that sat on the
// old bound follows the new one; the others are clamped.
func (s State) Rebase(bounds Range) State {
	lo, hi := s.Filter.Min, s.Filter.Max
	if lo == s.Bounds.Min {
		lo = bounds.Min
	}
	if hi == s.Bounds.Max {
		hi = bounds.Max
	}
	lo, hi = bounds.Clamp(lo), bounds.Clamp(hi)
	if lo > hi {
		lo, hi = bounds.Min, bounds.Max
	}
	s.Bounds = bounds
	s.Filter.Min, s.Filter.Max = lo, hi
	return s
}
