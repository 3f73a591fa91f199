package tally

import (
	"testing"

	"github.com/keilerkonzept/topk/heap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
)

func entries(mediums ...string) []catalog.Entry {
	out := make([]catalog.Entry, len(mediums))
	for i, m := range mediums {
		out[i] = catalog.Entry{ID: i + 1, Medium: m, PeriodName: "Gothic", Category4: "A"}
	}
	return out
}

func TestCount_TopValues(t *testing.T) {
	es := entries("Oil", "Tempera", "Oil", "Marble", "Oil", "Tempera", "Vellum")

	got := Count(es, catalog.FacetMedium, 2)
	assert.Equal(t, []Item{{Value: "Oil", Count: 3}, {Value: "Tempera", Count: 2}}, got)
}

func TestCount_TiesOrderedByValue(t *testing.T) {
	es := entries("Vellum", "Marble", "Oil")

	got := Count(es, catalog.FacetMedium, 3)
	assert.Equal(t, []Item{{"Marble", 1}, {"Oil", 1}, {"Vellum", 1}}, got)
}

func TestCount_Empty(t *testing.T) {
	assert.Nil(t, Count(nil, catalog.FacetMedium, 3))
	assert.Nil(t, Count(entries("Oil"), catalog.FacetMedium, 0))
}

func TestTallies_EveryFacet(t *testing.T) {
	got := Tallies(entries("Oil", "Oil"), 3)
	require.Len(t, got, len(catalog.AllFacets))

	for i, f := range catalog.AllFacets {
		assert.Equal(t, f, got[i].Facet)
	}
	assert.Equal(t, []Item{{"Oil", 2}}, got[0].Items)
	assert.Equal(t, []Item{{"Gothic", 2}}, got[1].Items)
}

func TestRank_DropsZeroCounts(t *testing.T) {
	got := rank([]heap.Item{{Item: "b", Count: 0}, {Item: "a", Count: 4}}, 5)
	assert.Equal(t, []Item{{"a", 4}}, got)
}
