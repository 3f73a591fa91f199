// Package browser is the interactive catalog browser. Every key press builds
// a new catalog.State and re-derives the visible cards synchronously.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
	"github.com/keilerkonzept/catalog-browser/internal/metrics"
	"github.com/keilerkonzept/catalog-browser/internal/query"
	"github.com/keilerkonzept/catalog-browser/internal/tally"
)

// Options configure a Model.
type Options struct {
	Sort catalog.SortKey
	// RangeStep is how many years one range key press moves an endpoint.
	RangeStep int
	// TopK is the number of values listed per facet in the tally pane.
	TopK      int
	ViewSplit int
	Stats     bool
	AltScreen bool
}

// ReloadMsg replaces the catalog being browsed.
type ReloadMsg struct {
	Catalog *catalog.Catalog
}

type errMsg struct{ err error }

// Error wraps err as a message that is shown below the panes.
func Error(err error) tui.Msg { return errMsg{err} }

// Model is the bubbletea model of the browser.
type Model struct {
	opts     Options
	deriver  *catalog.Deriver
	recorder *metrics.Recorder

	state   catalog.State
	result  catalog.Result
	tallies []tally.Tally

	showShare bool
	showStats bool
	err       error

	width, height  int
	leftPaneWidth  int
	rightPaneWidth int
	plotHeight     int

	list      list.Model
	listStyle styles.Style
	help      help.Model
	plot      *plot.Canvas
}

// New returns a Model browsing the deriver's catalog. recorder may be nil.
func New(d *catalog.Deriver, recorder *metrics.Recorder, opts Options) *Model {
	const (
		defaultWidth  = 80
		defaultHeight = 20
	)

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = styles.NewStyle().
		Border(styles.NormalBorder(), false, false, false, true).
		BorderForeground(borderColor).
		Foreground(selectedColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle.
		Foreground(selectedColor)
	delegate.ShowDescription = true

	l := list.New(make([]list.Item, 0), delegate, defaultWidth/2-2, defaultHeight)
	l.Styles.NoItems = l.Styles.NoItems.
		Padding(0, 2)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)

	m := &Model{
		opts:      opts,
		deriver:   d,
		recorder:  recorder,
		state:     d.Catalog().NewState(opts.Sort),
		showStats: opts.Stats,
		list:      l,
		help:      help.New(),
		plot:      newPlot(defaultWidth/2, defaultHeight),
	}
	m.leftPaneWidth, m.rightPaneWidth = computePaneWidths(defaultWidth, opts.ViewSplit)
	if recorder != nil {
		recorder.SetEntries(d.Catalog().Len())
	}
	m.derive()
	return m
}

// Program wraps m in a bubbletea program that stops when ctx is done.
func Program(ctx context.Context, m *Model) *tui.Program {
	opts := []tui.ProgramOption{tui.WithContext(ctx)}
	if m.opts.AltScreen {
		opts = append(opts, tui.WithAltScreen())
	}
	return tui.NewProgram(m, opts...)
}

// State is the current selection.
func (m *Model) State() catalog.State { return m.state }

// Visible returns the entries currently shown as cards.
func (m *Model) Visible() []catalog.Entry { return m.result.Entries }

func (m *Model) Init() tui.Cmd { return nil }

func (m *Model) Update(msg tui.Msg) (tui.Model, tui.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.layout()
		return m, nil
	case ReloadMsg:
		m.deriver.Swap(msg.Catalog)
		if m.recorder != nil {
			m.recorder.ObserveReload(msg.Catalog.Len())
		}
		m.err = nil
		m.layout()
		return m, m.apply(m.state.Rebase(msg.Catalog.Bounds()))
	case tui.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.leftPaneWidth, m.rightPaneWidth = computePaneWidths(m.width, m.opts.ViewSplit)
		m.help.Width = m.width
		m.layout()
		return m, nil
	case tui.KeyMsg:
		if m.list.SettingFilter() {
			break
		}
		if cmd, ok := m.handleKey(msg); ok {
			return m, cmd
		}
	}
	var cmd tui.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tui.KeyMsg) (tui.Cmd, bool) {
	s := m.state
	step := m.opts.RangeStep
	switch {
	case key.Matches(msg, keys.Quit):
		return tui.Quit, true
	case key.Matches(msg, keys.Up):
		m.list.CursorUp()
		return nil, true
	case key.Matches(msg, keys.Down):
		m.list.CursorDown()
		return nil, true
	case key.Matches(msg, keys.Sort):
		return m.apply(s.WithSort(s.Sort.Next())), true
	case key.Matches(msg, keys.Medium):
		return m.apply(s.CycleFacet(catalog.FacetMedium, m.deriver.Catalog().Facets())), true
	case key.Matches(msg, keys.Era):
		return m.apply(s.CycleFacet(catalog.FacetPeriodName, m.deriver.Catalog().Facets())), true
	case key.Matches(msg, keys.Category):
		return m.apply(s.CycleFacet(catalog.FacetCategory4, m.deriver.Catalog().Facets())), true
	case key.Matches(msg, keys.Low):
		return m.apply(s.ToggleLowDifficultyOnly()), true
	case key.Matches(msg, keys.MinDown):
		return m.apply(s.WithRangeMin(s.Filter.Min - step)), true
	case key.Matches(msg, keys.MinUp):
		return m.apply(s.WithRangeMin(s.Filter.Min + step)), true
	case key.Matches(msg, keys.MaxDown):
		return m.apply(s.WithRangeMax(s.Filter.Max - step)), true
	case key.Matches(msg, keys.MaxUp):
		return m.apply(s.WithRangeMax(s.Filter.Max + step)), true
	case key.Matches(msg, keys.Reset):
		return m.apply(s.Reset()), true
	case key.Matches(msg, keys.Share):
		m.showShare = !m.showShare
		m.layout()
		return nil, true
	case key.Matches(msg, keys.Stats):
		m.showStats = !m.showStats
		m.layout()
		return nil, true
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return nil, true
	}
	return nil, false
}

func (m *Model) apply(s catalog.State) tui.Cmd {
	m.state = s
	return m.derive()
}

// derive recomputes the visible entries and everything rendered from them.
// The selected card is kept when it is still visible.
func (m *Model) derive() tui.Cmd {
	m.result = m.deriver.Derive(m.state)
	m.tallies = tally.Tallies(m.result.Entries, m.opts.TopK)

	selectedID := -1
	if c, ok := m.list.SelectedItem().(card); ok {
		selectedID = c.ID
	}
	cmd := m.list.SetItems(cards(m.result.Entries))
	if m.list.FilterState() == list.Unfiltered {
		selected := 0
		for i, e := range m.result.Entries {
			if e.ID == selectedID {
				selected = i
				break
			}
		}
		m.list.Select(selected)
	}
	m.updatePlot()
	return cmd
}

func (m *Model) leftWidth() int {
	if m.leftPaneWidth > 0 {
		return m.leftPaneWidth
	}
	left, _ := computePaneWidths(m.width, m.opts.ViewSplit)
	return left
}

func (m *Model) rightWidth() int {
	if m.rightPaneWidth > 0 {
		return m.rightPaneWidth
	}
	_, right := computePaneWidths(m.width, m.opts.ViewSplit)
	return right
}

func (m *Model) headerLines() int {
	n := 2
	if m.showShare {
		n++
	}
	return n
}

func (m *Model) bottomLines() int {
	n := styles.Height(m.help.View(keys))
	if m.showStats {
		// title + 5 metric lines
		n += 6
	}
	if m.err != nil {
		n++
	}
	return n
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	available := max(1, m.height-m.headerLines()-m.bottomLines())
	leftW := max(1, m.leftWidth())
	rightW := max(1, m.rightWidth())

	m.list.SetSize(leftW, available)
	m.listStyle = styles.NewStyle().Width(leftW).Height(available)

	// Right side is: plot canvas + label line + one line per facet tally,
	// wrapped in a border (adds 2 lines).
	m.plotHeight = max(1, available-3-len(catalog.AllFacets))
	m.plot = newPlot(max(1, rightW-2), m.plotHeight)
	m.updatePlot()
}

func (m *Model) controlsView() string {
	s := m.state
	low := "off"
	if s.Filter.LowDifficultyOnly {
		low = "on"
	}
	parts := []string{
		"sort: " + selectedFg.Render(s.Sort.Label()),
		"medium: " + selectedFg.Render(s.Filter.Selected(catalog.FacetMedium)),
		"era: " + selectedFg.Render(s.Filter.Selected(catalog.FacetPeriodName)),
		"category: " + selectedFg.Render(s.Filter.Selected(catalog.FacetCategory4)),
		"low: " + selectedFg.Render(low),
		fmt.Sprintf("period: %s", selectedFg.Render(fmt.Sprintf("%d–%d", s.Filter.Min, s.Filter.Max))),
	}
	return " " + strings.Join(parts, borderFg.Render(" · "))
}

func (m *Model) tallyView() string {
	lines := make([]string, 0, len(m.tallies))
	for _, t := range m.tallies {
		values := make([]string, 0, len(t.Items))
		for _, it := range t.Items {
			values = append(values, fmt.Sprintf("%s (%d)", it.Value, it.Count))
		}
		if len(values) == 0 {
			values = append(values, "-")
		}
		lines = append(lines, borderFg.Render(t.Facet.String()+": ")+strings.Join(values, borderFg.Render(" · ")))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) statsView() string {
	if m.recorder == nil {
		return ""
	}
	snap := m.recorder.Snapshot()
	lines := []string{
		"DERIVE STATS",
		fmt.Sprintf("derivations: %d", snap.Derivations),
		fmt.Sprintf("cache hit rate: %.0f%%", 100*snap.HitRate()),
		fmt.Sprintf("latency last/avg/max: %s / %s / %s",
			formatMetricDuration(snap.Latency.Last),
			formatMetricDuration(snap.Latency.Avg),
			formatMetricDuration(snap.Latency.Max)),
		fmt.Sprintf("reloads: %d", snap.Reloads),
		fmt.Sprintf("visible: %d of %d", len(m.result.Entries), m.result.Total),
	}
	return errorFg.Render(strings.Join(lines, "\n"))
}

func (m *Model) View() string {
	title := titleStyle.Render("Catalog") +
		borderFg.Render(fmt.Sprintf("%d of %d", len(m.result.Entries), m.result.Total))
	header := []string{title, m.controlsView()}
	if m.showShare {
		header = append(header, " share: "+selectedFg.Render("?"+query.Encode(m.state)))
	}

	left := m.listStyle.Render(m.list.View())
	canvas := m.plot.String()
	if canvas == "" {
		canvas = m.emptyPlot()
	}
	right := plotStyle.Render(styles.JoinVertical(styles.Left, canvas, m.plotLabels(), m.tallyView()))
	view := styles.JoinHorizontal(styles.Top, left, right)

	blocks := append(header, view)
	if m.err != nil {
		blocks = append(blocks, errorFg.Render("ERROR: "+m.err.Error()))
	}
	if m.showStats {
		if stats := m.statsView(); stats != "" {
			blocks = append(blocks, stats)
		}
	}
	blocks = append(blocks, m.help.View(keys))
	return styles.JoinVertical(styles.Left, blocks...)
}

func formatMetricDuration(d time.Duration) string {
	if d <= 0 {
		return "0.000ms"
	}
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}

func computePaneWidths(totalWidth int, splitPercent int) (left, right int) {
	if totalWidth <= 1 {
		return 1, 1
	}
	left = totalWidth * splitPercent / 100
	left = max(1, min(left, totalWidth-1))
	right = totalWidth - left

	// Keep panes readable when the terminal is wide enough.
	const minPane = 18
	if totalWidth >= minPane*2 {
		if left < minPane {
			left = minPane
			right = totalWidth - left
		}
		if right < minPane {
			right = minPane
			left = totalWidth - right
		}
	}
	return max(1, left), max(1, right)
}
