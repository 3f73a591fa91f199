// Package query converts browse states to and from URL query strings, so a
// selection can be shared or passed on the command line.
package query

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
)

type params struct {
	Sort      string `schema:"sort,omitempty"`
	Medium    string `schema:"medium,omitempty"`
	Era       string `schema:"era,omitempty"`
	Category4 string `schema:"category4,omitempty"`
	Low       bool   `schema:"low,omitempty"`
	Min       int    `schema:"min"`
	Max       int    `schema:"max"`
}

// overrides mirrors params; nil fields were absent from the query.
type overrides struct {
	Sort      *string `schema:"sort"`
	Medium    *string `schema:"medium"`
	Era       *string `schema:"era"`
	Category4 *string `schema:"category4"`
	Low       *bool   `schema:"low"`
	Min       *int    `schema:"min"`
	Max       *int    `schema:"max"`
}

var (
	encoder = schema.NewEncoder()
	decoder = schema.NewDecoder()
)

func facetParam(s catalog.State, f catalog.Facet) string {
	if v := s.Filter.Selected(f); v != catalog.All {
		return v
	}
	return ""
}

// Encode renders s as a query string. Unrestricted facets are omitted.
func Encode(s catalog.State) string {
	p := params{
		Sort:      string(s.Sort),
		Medium:    facetParam(s, catalog.FacetMedium),
		Era:       facetParam(s, catalog.FacetPeriodName),
		Category4: facetParam(s, catalog.FacetCategory4),
		Low:       s.Filter.LowDifficultyOnly,
		Min:       s.Filter.Min,
		Max:       s.Filter.Max,
	}
	values := url.Values{}
	if err := encoder.Encode(p, values); err != nil {
		// params only holds encodable kinds.
		panic(err)
	}
	return values.Encode()
}

// Decode applies the keys present in raw on top of base. When min or max is
// given, the range is first widened to the data bounds and the endpoints are
// then moved through the range transitions, so min <= max still holds.
func Decode(raw string, base catalog.State) (catalog.State, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return base, fmt.Errorf("parsing query: %w", err)
	}
	var o overrides
	if err := decoder.Decode(&o, values); err != nil {
		return base, fmt.Errorf("decoding query: %w", err)
	}

	s := base
	if o.Sort != nil {
		key, err := catalog.ParseSortKey(*o.Sort)
		if err != nil {
			return base, err
		}
		s = s.WithSort(key)
	}
	if o.Medium != nil {
		s = s.WithFacet(catalog.FacetMedium, *o.Medium)
	}
	if o.Era != nil {
		s = s.WithFacet(catalog.FacetPeriodName, *o.Era)
	}
	if o.Category4 != nil {
		s = s.WithFacet(catalog.FacetCategory4, *o.Category4)
	}
	if o.Low != nil {
		s = s.WithLowDifficultyOnly(*o.Low)
	}
	if o.Min != nil || o.Max != nil {
		s = s.WithRangeMin(s.Bounds.Min).WithRangeMax(s.Bounds.Max)
		if o.Min != nil {
			s = s.WithRangeMin(*o.Min)
		}
		if o.Max != nil {
			s = s.WithRangeMax(*o.Max)
		}
	}
	return s, nil
}
