package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timetable"
	"go.uber.org/zap"
)

// Hours offered for the start and end of the day.
var (
	dayStartHours = []int{7, 8, 9, 10, 11, 12}
	dayEndHours   = []int{15, 16, 17, 18, 19, 20, 21, 22, 23, 24}
)

type settingsModel struct {
	store  *store.Store
	logger *zap.Logger
	width  int
	height int

	current    timetable.Settings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	interval  *int
	dayStart  *int
	dayEnd    *int
	use12Hour *bool
	title     *string
	subtitle  *string
}

func newSettingsModel(s *store.Store, logger *zap.Logger, current timetable.Settings) settingsModel {
	iv, ds, de := 0, 0, 0
	h12 := false
	title, subtitle := "", ""
	return settingsModel{
		store:     s,
		logger:    logger,
		current:   current,
		interval:  &iv,
		dayStart:  &ds,
		dayEnd:    &de,
		use12Hour: &h12,
		title:     &title,
		subtitle:  &subtitle,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *settingsModel) setSettings(ts timetable.Settings) {
	s.current = ts
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.interval = s.current.Interval
	*s.dayStart = s.current.DayStart
	*s.dayEnd = s.current.DayEnd
	*s.use12Hour = s.current.Use12Hour
	*s.title = s.current.Title
	*s.subtitle = s.current.Subtitle

	intervalOptions := make([]huh.Option[int], len(timetable.Intervals))
	for i, iv := range timetable.Intervals {
		intervalOptions[i] = huh.NewOption(fmt.Sprintf("%d minutes", iv), iv)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("Slot interval").Options(intervalOptions...).Value(s.interval),
			huh.NewSelect[int]().Title("Day starts at").
				Options(hourOptions(dayStartHours, s.current.DayStart, s.current.Use12Hour)...).
				Value(s.dayStart),
			huh.NewSelect[int]().Title("Day ends at").
				Options(hourOptions(dayEndHours, s.current.DayEnd, s.current.Use12Hour)...).
				Value(s.dayEnd),
			huh.NewConfirm().Title("12-hour clock").Affirmative("12h").Negative("24h").Value(s.use12Hour),
		).Title("Time axis"),
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(s.title),
			huh.NewInput().Title("Subtitle").Placeholder("Semester, class, ...").Value(s.subtitle),
		).Title("Heading"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

// hourOptions lists whole hours as minute values. The current value is kept
// selectable even when it is not on the hour.
func hourOptions(hours []int, current int, use12Hour bool) []huh.Option[int] {
	values := make([]int, 0, len(hours)+1)
	seen := false
	for _, h := range hours {
		values = append(values, h*60)
		if h*60 == current {
			seen = true
		}
	}
	if !seen {
		values = append(values, current)
		sort.Ints(values)
	}
	opts := make([]huh.Option[int], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(timetable.FormatForDisplay(v, use12Hour), v)
	}
	return opts
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.save(s.formSettings())
	}

	return s, cmd
}

func (s settingsModel) formSettings() timetable.Settings {
	return timetable.Settings{
		Interval:  *s.interval,
		DayStart:  *s.dayStart,
		DayEnd:    *s.dayEnd,
		Use12Hour: *s.use12Hour,
		Title:     strings.TrimSpace(*s.title),
		Subtitle:  strings.TrimSpace(*s.subtitle),
	}
}

// save persists ts off the update loop. Subscribers, including the running
// program, learn about the change from the store.
func (s settingsModel) save(ts timetable.Settings) tea.Cmd {
	st, logger := s.store, s.logger
	return func() tea.Msg {
		if err := st.SaveTimeSettings(ts); err != nil {
			logger.Warn("settings rejected", zap.Error(err))
			return statusMsg{text: fmt.Sprintf("Settings not saved: %v", err), isError: true}
		}
		return statusMsg{text: "Settings saved"}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	clock := "24-hour"
	if s.current.Use12Hour {
		clock = "12-hour"
	}
	items := []struct{ label, value string }{
		{"Slot interval", fmt.Sprintf("%d min", s.current.Interval)},
		{"Day start", timetable.FormatForDisplay(s.current.DayStart, s.current.Use12Hour)},
		{"Day end", timetable.FormatForDisplay(s.current.DayEnd, s.current.Use12Hour)},
		{"Clock", clock},
		{"Title", s.current.Title},
		{"Subtitle", s.current.Subtitle},
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for _, it := range items {
		label := lipgloss.NewStyle().Width(24).Render(it.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(it.value)))
	}
	if axis, err := s.current.Axis(); err == nil {
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d columns per day", axis.SlotCount())))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
