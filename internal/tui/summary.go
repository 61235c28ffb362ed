package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timetable"
)

const (
	historyLimit  = 8
	upcomingLimit = 5
)

// subjectHours is the scheduled time of one subject on one day.
type subjectHours struct {
	key     string
	title   string
	color   timetable.ColorToken
	minutes int
}

type summaryModel struct {
	store  *store.Store
	width  int
	height int

	built     bool
	version   uint64
	grid      *timetable.Grid
	lastWidth int

	byDay    [][]subjectHours
	total    int
	upcoming []timetable.CalendarEvent
	history  []store.ExportRecord
	counts   map[string]int

	chart barchart.Model
	now   func() time.Time
}

func newSummaryModel(s *store.Store) summaryModel {
	return summaryModel{
		store: s,
		chart: barchart.New(60, 12),
		now:   time.Now,
	}
}

func (m *summaryModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type exportHistoryMsg struct {
	records []store.ExportRecord
	counts  map[string]int
}

func (m summaryModel) refresh() tea.Cmd {
	return func() tea.Msg {
		records, err := m.store.ListExports(historyLimit)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export history: %v", err), isError: true}
		}
		counts, err := m.store.ExportCounts()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export history: %v", err), isError: true}
		}
		return exportHistoryMsg{records: records, counts: counts}
	}
}

func (m summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case exportHistoryMsg:
		m.history = msg.records
		m.counts = msg.counts
	}
	return m, nil
}

// sync recomputes hours per day and the upcoming occurrences when the entries,
// the laid-out grid or the width changed.
func (m *summaryModel) sync(es *timetable.EntryStore, grid *timetable.Grid) {
	if m.built && m.version == es.Version() && m.grid == grid && m.lastWidth == m.width {
		return
	}
	m.built = true
	m.version = es.Version()
	m.grid = grid
	m.lastWidth = m.width

	m.byDay, m.total = hoursByDay(es)
	m.upcoming = upcoming(grid, m.now())
	m.buildChart()
}

// hoursByDay groups scheduled minutes per weekday and subject, subjects in
// first-seen order.
func hoursByDay(es *timetable.EntryStore) ([][]subjectHours, int) {
	out := make([][]subjectHours, len(timetable.Days))
	total := 0
	for _, e := range es.Entries() {
		mins := e.EndMinutes - e.StartMinutes
		total += mins
		day := out[e.Day]
		found := false
		for i := range day {
			if day[i].key == e.SubjectKey() {
				day[i].minutes += mins
				found = true
				break
			}
		}
		if !found {
			day = append(day, subjectHours{
				key:     e.SubjectKey(),
				title:   e.Title(),
				color:   es.Color(e.SubjectKey()),
				minutes: mins,
			})
		}
		out[e.Day] = day
	}
	return out, total
}

// upcoming lists the next occurrences of what the grid actually shows,
// soonest first.
func upcoming(grid *timetable.Grid, now time.Time) []timetable.CalendarEvent {
	events := timetable.ProjectGrid(grid, now)
	if len(events) == 0 {
		return nil
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	if len(events) > upcomingLimit {
		events = events[:upcomingLimit]
	}
	return events
}

func (m *summaryModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 34 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, d := range timetable.Days {
		var values []barchart.BarValue
		for _, s := range m.byDay[d] {
			values = append(values, barchart.BarValue{
				Name:  s.title,
				Value: float64(s.minutes) / 60,
				Style: lipgloss.NewStyle().Foreground(subjectColor(s.color)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Abbr(),
			Values: values,
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m summaryModel) view() string {
	w := m.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Summary"), "  ",
		mutedStyle.Render(fmt.Sprintf("%s scheduled per week", formatHours(m.total))),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			m.chart.View(), "",
			m.renderLegend(), "",
			m.renderUpcoming(), "",
			m.renderHistory(w),
		),
	)
}

func (m summaryModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, day := range m.byDay {
		for _, s := range day {
			if seen[s.key] {
				continue
			}
			seen[s.key] = true
			dot := lipgloss.NewStyle().Foreground(subjectColor(s.color)).Render("●")
			items = append(items, fmt.Sprintf("%s %s", dot, s.title))
		}
	}
	if len(items) == 0 {
		return mutedStyle.Render("  No entries yet")
	}
	return "  " + strings.Join(items, "  ")
}

func (m summaryModel) renderUpcoming() string {
	rows := []string{highlightStyle.Render("Upcoming")}
	if len(m.upcoming) == 0 {
		rows = append(rows, mutedStyle.Render("  Nothing on the timetable"))
		return strings.Join(rows, "\n")
	}
	layout := "Mon Jan 02 15:04"
	if m.grid != nil && m.grid.Axis.Use12Hour {
		layout = "Mon Jan 02 3:04 PM"
	}
	for _, ev := range m.upcoming {
		rows = append(rows, fmt.Sprintf("  %-20s %s", ev.Start.Format(layout), ev.Title))
	}
	return strings.Join(rows, "\n")
}

func (m summaryModel) renderHistory(w int) string {
	rows := []string{highlightStyle.Render("Exports")}
	if len(m.history) == 0 {
		rows = append(rows, mutedStyle.Render("  No exports yet. Press e to export."))
		return strings.Join(rows, "\n")
	}

	var counts []string
	for _, f := range sortedKeys(m.counts) {
		counts = append(counts, fmt.Sprintf("%s %d", f, m.counts[f]))
	}
	rows = append(rows, mutedStyle.Render("  "+strings.Join(counts, "  ")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 60))))

	for _, r := range m.history {
		rows = append(rows, fmt.Sprintf("  %-17s %-5s %s",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Format, truncate(r.Path, max(10, w-32))))
	}
	return strings.Join(rows, "\n")
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
