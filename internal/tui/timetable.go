package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetable/internal/timetable"
)

const (
	dayColumnWidth = 4
	minSlotWidth   = 8
	cellHeight     = 3
)

// timetableModel renders the laid-out week. The grid is cached and rebuilt
// only when the entry store version or the settings change.
type timetableModel struct {
	width  int
	height int

	built    bool
	version  uint64
	settings timetable.Settings
	grid     *timetable.Grid
	err      error
}

func newTimetableModel() timetableModel {
	return timetableModel{}
}

func (t *timetableModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

// sync rebuilds the grid if the store or the settings moved on since the
// last build. It reports whether a rebuild happened.
func (t *timetableModel) sync(es *timetable.EntryStore, s timetable.Settings) bool {
	if t.built && t.version == es.Version() && t.settings == s {
		return false
	}
	t.built = true
	t.version = es.Version()
	t.settings = s

	axis, err := s.Axis()
	if err != nil {
		t.grid = nil
		t.err = err
		return true
	}
	g := es.Layout(axis)
	t.grid = &g
	t.err = nil
	return true
}

func (t timetableModel) slotWidth(n int) int {
	if n == 0 {
		return minSlotWidth
	}
	avail := t.width - 8 - dayColumnWidth
	return max(minSlotWidth, avail/n)
}

func (t timetableModel) view() string {
	w := t.width - 4

	var rows []string
	rows = append(rows, titleStyle.Render(t.settings.Title))
	if t.settings.Subtitle != "" {
		rows = append(rows, subtitleStyle.Render(t.settings.Subtitle))
	}
	rows = append(rows, "")

	switch {
	case t.err != nil:
		rows = append(rows, errorStyle.Render("Cannot lay out timetable: "+t.err.Error()))
	case t.grid == nil:
		rows = append(rows, mutedStyle.Render(timetable.ErrMissingTimetable.Error()))
	default:
		rows = append(rows, t.renderGrid(*t.grid))
		if len(t.grid.Heads()) == 0 {
			rows = append(rows, "", mutedStyle.Render("Nothing scheduled. Add entries in the Entries view."))
		}
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t timetableModel) renderGrid(g timetable.Grid) string {
	n := g.SlotCount()
	colW := t.slotWidth(n)

	header := []string{lipgloss.NewStyle().Width(dayColumnWidth).Render("")}
	for _, label := range g.Axis.Labels() {
		header = append(header, slotHeaderStyle.Width(colW).Render(truncate(label, colW-1)))
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for r, day := range g.Days {
		cells := []string{dayColumnStyle.Width(dayColumnWidth).Height(cellHeight).Render(day.Abbr())}
		for _, c := range g.Rows[r] {
			switch c.Kind {
			case timetable.CellHead:
				cells = append(cells, renderHead(c, c.Span*colW))
			case timetable.CellContinuation:
				// covered by the preceding head
			default:
				cells = append(cells, emptyCellStyle.Width(colW).Height(cellHeight).Render("·"))
			}
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func renderHead(c timetable.Cell, width int) string {
	e := c.Entry
	inner := max(1, width-2)
	var text []string
	if e.SubjectCode != "" {
		text = append(text, lipgloss.NewStyle().Bold(true).Render(truncate(e.SubjectCode, inner)))
	}
	text = append(text, truncate(e.SubjectName, inner))
	if e.Location != "" {
		text = append(text, truncate(e.Location, inner))
	} else if e.Lecturer != "" {
		text = append(text, truncate(e.Lecturer, inner))
	}
	return subjectCellStyle.
		Background(subjectColor(c.Color)).
		Width(width).
		Height(cellHeight).
		MaxHeight(cellHeight).
		Render(strings.Join(text, "\n"))
}
