package browser

import (
	"fmt"
	"strings"

	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
)

// histogram counts entries per period bucket. The n buckets split bounds
// evenly; entries outside bounds are ignored.
func histogram(entries []catalog.Entry, bounds catalog.Range, n int) []float64 {
	n = max(1, n)
	out := make([]float64, n)
	span := bounds.Max - bounds.Min + 1
	for _, e := range entries {
		if !bounds.Contains(e.Period) {
			continue
		}
		out[(e.Period-bounds.Min)*n/span]++
	}
	return out
}

func newPlot(w, h int) *plot.Canvas {
	p := plot.NewCanvas(w, h)
	p.NumDataPoints = max(2, w)
	p.ShowAxis = false
	p.LineColors = make([]plot.Color, 2)
	return &p
}

func (m *Model) updatePlot() {
	var highlight, dim plot.Color
	if styles.DefaultRenderer().HasDarkBackground() {
		highlight, dim = plot.Red, plot.DimGray
	} else {
		highlight, dim = plot.Black, plot.LightGray
	}

	c := m.deriver.Catalog()
	n := m.plot.NumDataPoints
	m.plot.LineColors[0], m.plot.LineColors[1] = dim, highlight
	m.plot.Fill([][]float64{
		histogram(c.Entries(), c.Bounds(), n),
		histogram(m.result.Entries, c.Bounds(), n),
	})
}

// plotLabels lays out the data bounds left and right of the selected range.
func (m *Model) plotLabels() string {
	w := max(0, m.rightWidth()-2)
	bounds := m.state.Bounds
	leftLabel := fmt.Sprint(bounds.Min)
	rightLabel := fmt.Sprint(bounds.Max)
	selection := fmt.Sprintf("%d–%d", m.state.Filter.Min, m.state.Filter.Max)

	used := len(leftLabel) + len(rightLabel) + styles.Width(selection)
	if w < used+4 {
		return " " + selectedFg.Render(selection)
	}
	spaceTotal := w - used
	leftGap := spaceTotal / 2
	rightGap := spaceTotal - leftGap
	return borderFg.Render(leftLabel) +
		strings.Repeat(" ", leftGap) +
		selectedFg.Render(selection) +
		strings.Repeat(" ", rightGap) +
		borderFg.Render(rightLabel)
}

func (m *Model) emptyPlot() string {
	if m.width < 2 || m.height < 4 {
		return ""
	}
	spaces := strings.Repeat(" ", max(0, m.rightWidth()-2))
	var sb strings.Builder
	for range max(0, m.plotHeight) {
		sb.WriteString(spaces)
		sb.WriteRune('\n')
	}
	return sb.String()
}
