package browser

import (
	"errors"
	"testing"

	tui "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
	"github.com/keilerkonzept/catalog-browser/internal/metrics"
)

var testEntries = []catalog.Entry{
	{ID: 1, Name: "Zeta", Period: 1500, PeriodName: "Renaissance", Medium: "Oil", Category4: "A", Difficulty: "low"},
	{ID: 2, Name: "Alpha", Period: 1400, PeriodName: "Gothic", Medium: "Tempera", Category4: "B", Difficulty: "high"},
	{ID: 3, Name: "Mid", Period: 1300, PeriodName: "Gothic", Medium: "Oil", Category4: "A", Difficulty: "low"},
	{ID: 4, Name: "Beta", Period: 1200, PeriodName: "Romanesque", Medium: "Fresco", Category4: "C", Difficulty: "medium"},
}

func newTestModel(t *testing.T) (*Model, *metrics.Recorder) {
	t.Helper()
	rec := metrics.New(16)
	d, err := catalog.NewDeriver(catalog.New(testEntries), catalog.WithObserver(rec.ObserveDerive))
	require.NoError(t, err)
	m := New(d, rec, Options{Sort: catalog.SortName, RangeStep: 100, TopK: 2, ViewSplit: 60})
	m.Update(tui.WindowSizeMsg{Width: 120, Height: 40})
	return m, rec
}

func press(m *Model, presses ...string) {
	for _, k := range presses {
		switch k {
		case "up":
			m.Update(tui.KeyMsg{Type: tui.KeyUp})
		case "down":
			m.Update(tui.KeyMsg{Type: tui.KeyDown})
		default:
			m.Update(tui.KeyMsg{Type: tui.KeyRunes, Runes: []rune(k)})
		}
	}
}

func names(entries []catalog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

// ---------------------------------------------------------------------------
// Key handling
// ---------------------------------------------------------------------------

func TestModel_InitialView(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, []string{"Alpha", "Beta", "Mid", "Zeta"}, names(m.Visible()))
	assert.Equal(t, catalog.Range{Min: 1200, Max: 1500}, m.State().Filter.Range)
}

func TestModel_SortCycles(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "o")
	assert.Equal(t, catalog.SortPeriodAsc, m.State().Sort)
	assert.Equal(t, []string{"Beta", "Mid", "Alpha", "Zeta"}, names(m.Visible()))

	press(m, "o")
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid", "Beta"}, names(m.Visible()))

	press(m, "o")
	assert.Equal(t, catalog.SortName, m.State().Sort)
}

func TestModel_FacetKeys(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "m")
	assert.Equal(t, "Oil", m.State().Filter.Medium)
	assert.Equal(t, []string{"Mid", "Zeta"}, names(m.Visible()))

	press(m, "e")
	assert.Equal(t, "Renaissance", m.State().Filter.PeriodName)
	assert.Equal(t, []string{"Zeta"}, names(m.Visible()))

	press(m, "c", "c")
	assert.Equal(t, "B", m.State().Filter.Category4)
	assert.Empty(t, m.Visible())
}

func TestModel_LowDifficulty(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "l")
	assert.Equal(t, []string{"Mid", "Zeta"}, names(m.Visible()))
	press(m, "l")
	assert.Len(t, m.Visible(), len(testEntries))
}

func TestModel_RangeKeysKeepOrder(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "]")
	assert.Equal(t, catalog.Range{Min: 1300, Max: 1500}, m.State().Filter.Range)
	press(m, "{", "{", "{", "{")
	assert.Equal(t, catalog.Range{Min: 1300, Max: 1300}, m.State().Filter.Range)
	assert.Equal(t, []string{"Mid"}, names(m.Visible()))

	press(m, "]", "]", "]")
	assert.Equal(t, catalog.Range{Min: 1300, Max: 1300}, m.State().Filter.Range)

	press(m, "[", "[", "[")
	assert.Equal(t, catalog.Range{Min: 1200, Max: 1300}, m.State().Filter.Range)

	press(m, "}", "}", "}", "}")
	assert.Equal(t, catalog.Range{Min: 1200, Max: 1500}, m.State().Filter.Range)
}

func TestModel_Reset(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "o", "m", "l", "]")
	press(m, "r")

	want := catalog.NewState(catalog.Range{Min: 1200, Max: 1500}, catalog.SortPeriodAsc)
	assert.Equal(t, want, m.State())
}

func TestModel_SelectionFollowsEntry(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "down", "down")
	require.Equal(t, "Mid", m.list.SelectedItem().(card).Name)

	press(m, "o")
	assert.Equal(t, "Mid", m.list.SelectedItem().(card).Name)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tui.KeyMsg{Type: tui.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tui.QuitMsg{}, cmd())
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

func TestModel_Reload(t *testing.T) {
	m, rec := newTestModel(t)
	press(m, "[")

	next := append([]catalog.Entry{}, testEntries...)
	next = append(next, catalog.Entry{ID: 5, Name: "Late", Period: 1700, PeriodName: "Baroque", Medium: "Oil", Category4: "D", Difficulty: "low"})
	m.Update(ReloadMsg{Catalog: catalog.New(next)})

	assert.Equal(t, catalog.Range{Min: 1200, Max: 1700}, m.State().Bounds)
	assert.Equal(t, catalog.Range{Min: 1200, Max: 1700}, m.State().Filter.Range)
	assert.Len(t, m.Visible(), 5)
	assert.Equal(t, uint64(1), rec.Snapshot().Reloads)
}

func TestModel_ErrorShownAndClearedByReload(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(Error(errors.New("reading catalog.json: boom")))
	assert.Contains(t, m.View(), "ERROR: reading catalog.json: boom")

	m.Update(ReloadMsg{Catalog: catalog.New(testEntries)})
	assert.NotContains(t, m.View(), "ERROR:")
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)

	v := m.View()
	assert.Contains(t, v, "Catalog")
	assert.Contains(t, v, "Name (A–Z)")
	assert.Contains(t, v, "Period: 1400")
	assert.Contains(t, v, "medium: ")
	assert.Contains(t, v, "Oil (2)")
}

func TestModel_ShareAndStats(t *testing.T) {
	m, _ := newTestModel(t)
	assert.NotContains(t, m.View(), "share:")

	press(m, "y", "s")
	v := m.View()
	assert.Contains(t, v, "?max=1500&min=1200&sort=name")
	assert.Contains(t, v, "DERIVE STATS")
}

func TestModel_SearchCapturesKeys(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "/", "m")
	assert.Equal(t, catalog.All, m.State().Filter.Medium)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestHistogram(t *testing.T) {
	bounds := catalog.Range{Min: 1200, Max: 1500}

	assert.Equal(t, []float64{1, 1, 1, 1}, histogram(testEntries, bounds, 4))
	assert.Equal(t, []float64{2, 2}, histogram(testEntries, bounds, 2))
	assert.Equal(t, []float64{0}, histogram(nil, catalog.Range{}, 0))
}

func TestComputePaneWidths(t *testing.T) {
	tests := []struct {
		total, split int
		left, right  int
	}{
		{100, 60, 60, 40},
		{100, 10, 18, 82},
		{100, 95, 82, 18},
		{1, 50, 1, 1},
		{20, 50, 10, 10},
	}
	for _, tt := range tests {
		left, right := computePaneWidths(tt.total, tt.split)
		assert.Equal(t, tt.left, left, "total=%d split=%d", tt.total, tt.split)
		assert.Equal(t, tt.right, right, "total=%d split=%d", tt.total, tt.split)
	}
}
