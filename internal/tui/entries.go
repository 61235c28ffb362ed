package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetable/internal/timetable"
	"go.uber.org/zap"
)

type entryFormKind int

const (
	entryFormAdd entryFormKind = iota
	entryFormClear
)

type entriesModel struct {
	entries  *timetable.EntryStore
	logger   *zap.Logger
	settings timetable.Settings
	width    int
	height   int

	pager  paginator.Model
	cursor int // index within the current page

	formActive bool
	form       *huh.Form
	formKind   entryFormKind

	// Form field pointers (survive value copies)
	formDay      *string
	formStart    *string
	formEnd      *string
	formCode     *string
	formName     *string
	formLecturer *string
	formLocation *string
	formConfirm  *bool
}

func newEntriesModel(es *timetable.EntryStore, logger *zap.Logger, settings timetable.Settings, pageSize int) entriesModel {
	if pageSize <= 0 {
		pageSize = 5
	}
	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.PerPage = pageSize
	pager.SetTotalPages(es.Len())

	day, start, end, code, name, lecturer, location := "", "", "", "", "", "", ""
	confirm := false
	return entriesModel{
		entries:      es,
		logger:       logger,
		settings:     settings,
		pager:        pager,
		formDay:      &day,
		formStart:    &start,
		formEnd:      &end,
		formCode:     &code,
		formName:     &name,
		formLecturer: &lecturer,
		formLocation: &location,
		formConfirm:  &confirm,
	}
}

func (m *entriesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *entriesModel) setSettings(s timetable.Settings) {
	m.settings = s
}

// sync realigns the pager and cursor with the store after a mutation.
func (m *entriesModel) sync() {
	total := m.entries.Len()
	if total == 0 {
		m.pager.TotalPages = 1
	} else {
		m.pager.SetTotalPages(total)
	}
	if m.pager.Page >= m.pager.TotalPages {
		m.pager.Page = max(0, m.pager.TotalPages-1)
	}
	onPage := m.pager.ItemsOnPage(total)
	if m.cursor >= onPage {
		m.cursor = max(0, onPage-1)
	}
}

// selected returns the entry under the cursor.
func (m entriesModel) selected() (timetable.Entry, bool) {
	list := m.entries.Entries()
	start, end := m.pager.GetSliceBounds(len(list))
	i := start + m.cursor
	if i >= end || i >= len(list) {
		return timetable.Entry{}, false
	}
	return list[i], true
}

func (m entriesModel) update(msg tea.Msg) (entriesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case entriesChangedMsg:
		m.sync()
		return m, nil

	case tea.KeyMsg:
		return m.updateList(msg)
	}
	return m, nil
}

func (m entriesModel) updateList(msg tea.KeyMsg) (entriesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < m.pager.ItemsOnPage(m.entries.Len())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Left):
		m.pager.PrevPage()
		m.cursor = 0
	case key.Matches(msg, keys.Right):
		m.pager.NextPage()
		m.cursor = 0
	case key.Matches(msg, keys.New):
		return m.showAddForm()
	case key.Matches(msg, keys.Delete):
		return m.deleteSelected()
	case key.Matches(msg, keys.Clear):
		if m.entries.Len() > 0 {
			return m.showClearForm()
		}
	}
	return m, nil
}

func (m entriesModel) deleteSelected() (entriesModel, tea.Cmd) {
	e, ok := m.selected()
	if !ok {
		return m, nil
	}
	if _, err := m.entries.RemoveByID(e.ID); err != nil {
		return m, statusCmd(err.Error(), true)
	}
	m.logger.Info("entry removed", zap.String("id", e.ID), zap.String("subject", e.Title()))
	m.sync()
	return m, statusCmd("Removed "+e.Title(), false)
}

func (m entriesModel) showAddForm() (entriesModel, tea.Cmd) {
	*m.formDay = ""
	*m.formStart = ""
	*m.formEnd = ""
	*m.formCode = ""
	*m.formName = ""
	*m.formLecturer = ""
	*m.formLocation = ""
	m.formKind = entryFormAdd

	dayOptions := []huh.Option[string]{huh.NewOption("Select day", "")}
	for _, d := range timetable.Days {
		dayOptions = append(dayOptions, huh.NewOption(d.Name(), d.Abbr()))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Day").Options(dayOptions...).Value(m.formDay),
			huh.NewSelect[string]().Title("Start time").Options(m.timeOptions("Select start")...).Value(m.formStart),
			huh.NewSelect[string]().Title("End time").Options(m.timeOptions("Select end")...).Value(m.formEnd),
		).Title("When"),
		huh.NewGroup(
			huh.NewInput().Title("Subject code").Placeholder("CS101").Value(m.formCode),
			huh.NewInput().Title("Subject name").Value(m.formName),
			huh.NewInput().Title("Lecturer").Value(m.formLecturer),
			huh.NewInput().Title("Location").Value(m.formLocation),
		).Title("Subject"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

// timeOptions offers every interval step from day start to one interval past
// day end, labelled in the display format and valued in clock form.
func (m entriesModel) timeOptions(placeholder string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption(placeholder, "")}
	for _, t := range m.settings.EntryTimes() {
		opts = append(opts, huh.NewOption(
			timetable.FormatForDisplay(t, m.settings.Use12Hour),
			timetable.FormatClock(t),
		))
	}
	return opts
}

func (m entriesModel) showClearForm() (entriesModel, tea.Cmd) {
	*m.formConfirm = false
	m.formKind = entryFormClear

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove all %d entries?", m.entries.Len())).
				Affirmative("Remove").
				Negative("Keep").
				Value(m.formConfirm),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m entriesModel) updateForm(msg tea.Msg) (entriesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		switch m.formKind {
		case entryFormAdd:
			return m.submit(m.candidate())
		case entryFormClear:
			if *m.formConfirm {
				return m.clear()
			}
			return m, nil
		}
	}

	return m, cmd
}

func (m entriesModel) candidate() timetable.Candidate {
	return timetable.Candidate{
		Day:         *m.formDay,
		Start:       *m.formStart,
		End:         *m.formEnd,
		SubjectCode: strings.TrimSpace(*m.formCode),
		SubjectName: strings.TrimSpace(*m.formName),
		Lecturer:    strings.TrimSpace(*m.formLecturer),
		Location:    strings.TrimSpace(*m.formLocation),
	}
}

// submit adds c to the store. A rejected candidate leaves the store untouched
// and the validation error goes to the status bar.
func (m entriesModel) submit(c timetable.Candidate) (entriesModel, tea.Cmd) {
	e, err := m.entries.TryAdd(c)
	if err != nil {
		m.logger.Info("entry rejected", zap.Error(err))
		return m, statusCmd(err.Error(), true)
	}
	m.logger.Info("entry added",
		zap.String("id", e.ID),
		zap.String("day", e.Day.Abbr()),
		zap.String("start", timetable.FormatClock(e.StartMinutes)),
		zap.String("end", timetable.FormatClock(e.EndMinutes)),
	)
	m.sync()
	return m, statusCmd("Added "+e.Title(), false)
}

func (m entriesModel) clear() (entriesModel, tea.Cmd) {
	n := m.entries.Len()
	m.entries.Clear()
	m.logger.Info("entries cleared", zap.Int("count", n))
	m.sync()
	return m, statusCmd(fmt.Sprintf("Removed %d entries", n), false)
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func (m entriesModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Entry")
		if m.formKind == entryFormClear {
			title = titleStyle.Render("Clear Entries")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Entries")
	list := m.entries.Entries()

	if len(list) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No entries yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("    %-4s %-22s %-30s %s", "Day", "Time", "Subject", "Where"))
	rows = append(rows, header)

	start, end := m.pager.GetSliceBounds(len(list))
	for i, e := range list[start:end] {
		dot := lipgloss.NewStyle().Foreground(subjectColor(m.entries.Color(e.SubjectKey()))).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		when := timetable.FormatForDisplay(e.StartMinutes, m.settings.Use12Hour) + " - " +
			timetable.FormatForDisplay(e.EndMinutes, m.settings.Use12Hour)
		row := style.Render(fmt.Sprintf("%s%s %-4s %-22s %-30s %s",
			cursor, dot, e.Day.Abbr(), when, truncate(e.Title(), 30), entryWhere(e)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  page %s  (%d entries)", m.pager.View(), len(list))))
	rows = append(rows, mutedStyle.Render("  n: new  d: delete  c: clear all  ←/→: page"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func entryWhere(e timetable.Entry) string {
	var parts []string
	if e.Lecturer != "" {
		parts = append(parts, e.Lecturer)
	}
	if e.Location != "" {
		parts = append(parts, e.Location)
	}
	return strings.Join(parts, ", ")
}
