package catalog

import "fmt"

// Facet is a categorical attribute exposed as a filter dimension.
type Facet int

const (
	FacetMedium Facet = iota
	FacetPeriodName
	FacetCategory4
)

// AllFacets lists the facets in display order.
var AllFacets = []Facet{FacetMedium, FacetPeriodName, FacetCategory4}

func (f Facet) String() string {
	switch f {
	case FacetMedium:
		return "medium"
	case FacetPeriodName:
		return "era"
	case FacetCategory4:
		return "category4"
	}
	return fmt.Sprintf("facet(%d)", int(f))
}

// ParseFacet accepts the facet names used on the command line and in query strings.
func ParseFacet(s string) (Facet, error) {
	switch s {
	case "medium":
		return FacetMedium, nil
	case "era", "period-name":
		return FacetPeriodName, nil
	case "category4", "4cht":
		return FacetCategory4, nil
	}
	return 0, fmt.Errorf("unknown facet %q", s)
}

// Field returns the facet's field name in source records.
func (f Facet) Field() string {
	switch f {
	case FacetMedium:
		return "medium"
	case FacetPeriodName:
		return "period-name"
	case FacetCategory4:
		return "4cht"
	}
	return f.String()
}

// Value returns the entry's value for the facet.
func (f Facet) Value(e Entry) string {
	switch f {
	case FacetMedium:
		return e.Medium
	case FacetPeriodName:
		return e.PeriodName
	case FacetCategory4:
		return e.Category4
	}
	return ""
}

// Facets holds the distinct values of every facet, each in first-occurrence order.
// The "all" sentinel is never part of it.
type Facets struct {
	Medium     []string `json:"medium" yaml:"medium"`
	PeriodName []string `json:"era" yaml:"era"`
	Category4  []string `json:"category4" yaml:"category4"`
}

// Values returns the distinct values of one facet.
func (fs Facets) Values(f Facet) []string {
	switch f {
	case FacetMedium:
		return fs.Medium
	case FacetPeriodName:
		return fs.PeriodName
	case FacetCategory4:
		return fs.Category4
	}
	return nil
}

// DeriveFacets computes the distinct values of every facet.
func DeriveFacets(entries []Entry) Facets {
	return Facets{
		Medium:     Distinct(entries, FacetMedium),
		PeriodName: Distinct(entries, FacetPeriodName),
		Category4:  Distinct(entries, FacetCategory4),
	}
}

// Distinct returns each distinct value of f once, in order of first
// occurrence. Equality is exact string match.
func Distinct(entries []Entry, f Facet) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, e := range entries {
		v := f.Value(e)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
