package tui

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/timetable/internal/config"
	"github.com/sadopc/timetable/internal/export"
	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timetable"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T) (App, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	cfg := config.DefaultConfig()
	cfg.ExportDir = t.TempDir()
	return NewApp(s, timetable.NewEntryStore(), cfg, zap.NewNop()), s
}

func newTestEntries(pageSize int) entriesModel {
	return newEntriesModel(timetable.NewEntryStore(), zap.NewNop(), timetable.DefaultSettings(), pageSize)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func candidate(day, start, end, code, name string) timetable.Candidate {
	return timetable.Candidate{Day: day, Start: start, End: end, SubjectCode: code, SubjectName: name}
}

func mustStatus(t *testing.T, cmd tea.Cmd) statusMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	raw := cmd()
	msg, ok := raw.(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg, got %T", raw)
	}
	return msg
}

func updateApp(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	app, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return app, cmd
}

// ============================================================
// Helpers
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 views, got %d", len(viewNames))
	}
	if viewNames[viewEntries] != "Entries" || viewNames[viewSettings] != "Settings" {
		t.Fatalf("unexpected view names %v", viewNames)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0.0h"},
		{90, "1.5h"},
		{600, "10.0h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.minutes); got != tt.want {
			t.Fatalf("formatHours(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"Algorithms", 20, "Algorithms"},
		{"Algorithms", 5, "Algo…"},
		{"Algorithms", 1, "A"},
		{"Algorithms", 0, ""},
		{"Ökonomie", 3, "Ök…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.w); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	if min(2, 3) != 2 || min(3, 2) != 2 {
		t.Fatal("min")
	}
	if max(2, 3) != 3 || max(3, 2) != 3 {
		t.Fatal("max")
	}
}

// ============================================================
// Entries model
// ============================================================

func TestEntriesSubmitAdds(t *testing.T) {
	m := newTestEntries(5)

	m, cmd := m.submit(candidate("Mo", "08:00", "10:00", "CS101", "Algorithms"))
	if m.entries.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.entries.Len())
	}
	msg := mustStatus(t, cmd)
	if msg.isError || !strings.Contains(msg.text, "CS101 - Algorithms") {
		t.Fatalf("unexpected status %+v", msg)
	}
}

func TestEntriesSubmitRejected(t *testing.T) {
	tests := []struct {
		name string
		c    timetable.Candidate
		want string
	}{
		{"missing name", candidate("Mo", "08:00", "10:00", "CS101", ""), "subject name"},
		{"missing day", candidate("", "08:00", "10:00", "", "Ethics"), "day"},
		{"end before start", candidate("Mo", "10:00", "08:00", "", "Ethics"), "end time must be after start time"},
	}
	for _, tt := range tests {
		m := newTestEntries(5)
		m, cmd := m.submit(tt.c)
		if m.entries.Len() != 0 {
			t.Fatalf("%s: rejected candidate was stored", tt.name)
		}
		msg := mustStatus(t, cmd)
		if !msg.isError || !strings.Contains(msg.text, tt.want) {
			t.Fatalf("%s: unexpected status %+v", tt.name, msg)
		}
	}
}

func TestEntriesPagination(t *testing.T) {
	m := newTestEntries(5)
	for i := 0; i < 7; i++ {
		m, _ = m.submit(candidate("Tu", "09:00", "10:00", "", string(rune('A'+i))))
	}
	if m.pager.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", m.pager.TotalPages)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	if m.pager.Page != 1 {
		t.Fatalf("expected page 1, got %d", m.pager.Page)
	}
	if n := m.pager.ItemsOnPage(m.entries.Len()); n != 2 {
		t.Fatalf("expected 2 items on last page, got %d", n)
	}
	e, ok := m.selected()
	if !ok || e.SubjectName != "F" {
		t.Fatalf("expected F selected, got %+v", e)
	}

	// Cursor stops at the last item on the page.
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.pager.Page != 0 || m.cursor != 0 {
		t.Fatalf("expected first page with cursor reset, got page %d cursor %d", m.pager.Page, m.cursor)
	}
}

func TestEntriesDeleteSelected(t *testing.T) {
	m := newTestEntries(5)
	for _, name := range []string{"A", "B", "C"} {
		m, _ = m.submit(candidate("We", "09:00", "10:00", "", name))
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.update(runeKey('d'))
	if msg := mustStatus(t, cmd); msg.isError {
		t.Fatalf("delete failed: %s", msg.text)
	}

	list := m.entries.Entries()
	if len(list) != 2 || list[0].SubjectName != "A" || list[1].SubjectName != "C" {
		t.Fatalf("unexpected entries after delete: %+v", list)
	}
}

func TestEntriesDeleteLastOnPage(t *testing.T) {
	m := newTestEntries(5)
	for i := 0; i < 6; i++ {
		m, _ = m.submit(candidate("Fr", "09:00", "10:00", "", string(rune('A'+i))))
	}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.update(runeKey('d'))

	if m.entries.Len() != 5 {
		t.Fatalf("expected 5 entries, got %d", m.entries.Len())
	}
	if m.pager.Page != 0 || m.pager.TotalPages != 1 {
		t.Fatalf("pager should fall back to the first page, got %d/%d", m.pager.Page, m.pager.TotalPages)
	}
}

func TestEntriesDeleteEmptyIsNoop(t *testing.T) {
	m := newTestEntries(5)
	m, cmd := m.update(runeKey('d'))
	if cmd != nil {
		t.Fatal("deleting from an empty list should do nothing")
	}
}

func TestEntriesClear(t *testing.T) {
	m := newTestEntries(5)
	m, _ = m.submit(candidate("Mo", "08:00", "09:00", "CS101", "Algorithms"))
	m, _ = m.submit(candidate("Tu", "08:00", "09:00", "", "Ethics"))

	m, cmd := m.clear()
	if m.entries.Len() != 0 {
		t.Fatal("entries should be empty")
	}
	if msg := mustStatus(t, cmd); !strings.Contains(msg.text, "2") {
		t.Fatalf("unexpected status %q", msg.text)
	}
	if m.entries.Color("CS101") != 0 {
		t.Fatal("clear should reset colors")
	}
}

func TestEntriesTimeOptions(t *testing.T) {
	m := newTestEntries(5)
	opts := m.timeOptions("Select start")

	// Placeholder plus 08:00 through 19:00.
	if len(opts) != 13 {
		t.Fatalf("expected 13 options, got %d", len(opts))
	}
	if opts[0].Value != "" {
		t.Fatal("first option should be the placeholder")
	}
	if opts[1].Key != "8:00 AM" || opts[1].Value != "08:00" {
		t.Fatalf("unexpected first time option %+v", opts[1])
	}
	if last := opts[len(opts)-1]; last.Value != "19:00" {
		t.Fatalf("last option = %q, want 19:00", last.Value)
	}

	m.setSettings(timetable.Settings{Interval: 30, DayStart: 540, DayEnd: 600, Use12Hour: false})
	opts = m.timeOptions("x")
	if len(opts) != 5 || opts[1].Key != "9:00" {
		t.Fatalf("unexpected 24h options %+v", opts)
	}
}

func TestEntriesNewOpensForm(t *testing.T) {
	m := newTestEntries(5)
	m, _ = m.update(runeKey('n'))
	if !m.formActive || m.form == nil {
		t.Fatal("n should open the entry form")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.formActive {
		t.Fatal("esc should cancel the form")
	}
}

func TestEntriesCandidateTrimsFields(t *testing.T) {
	m := newTestEntries(5)
	*m.formDay = "Th"
	*m.formStart = "10:00"
	*m.formEnd = "11:00"
	*m.formName = "  Ethics "
	*m.formLocation = " Room 2 "

	c := m.candidate()
	if c.SubjectName != "Ethics" || c.Location != "Room 2" || c.Day != "Th" {
		t.Fatalf("unexpected candidate %+v", c)
	}
}

func TestEntriesView(t *testing.T) {
	m := newTestEntries(5)
	m.setSize(140, 30)

	if !strings.Contains(m.view(), "No entries yet") {
		t.Fatal("empty list should show a hint")
	}

	m, _ = m.submit(timetable.Candidate{
		Day: "Mo", Start: "08:00", End: "10:00",
		SubjectCode: "CS101", SubjectName: "Algorithms", Lecturer: "Dr. Smith", Location: "Room 1",
	})
	out := m.view()
	for _, want := range []string{"CS101 - Algorithms", "8:00 AM - 10:00 AM", "Dr. Smith, Room 1", "1/1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

// ============================================================
// Timetable model
// ============================================================

func TestTimetableSyncCaches(t *testing.T) {
	es := timetable.NewEntryStore()
	tm := newTimetableModel()
	settings := timetable.DefaultSettings()

	if !tm.sync(es, settings) {
		t.Fatal("first sync should build")
	}
	first := tm.grid
	if tm.sync(es, settings) {
		t.Fatal("unchanged inputs should not rebuild")
	}
	if tm.grid != first {
		t.Fatal("cached grid should be reused")
	}

	es.TryAdd(candidate("Mo", "08:00", "10:00", "CS101", "Algorithms"))
	if !tm.sync(es, settings) {
		t.Fatal("store change should rebuild")
	}
	if len(tm.grid.Heads()) != 1 {
		t.Fatalf("expected 1 head, got %d", len(tm.grid.Heads()))
	}

	settings.Interval = 120
	if !tm.sync(es, settings) {
		t.Fatal("settings change should rebuild")
	}
	if tm.grid.Axis.Interval != 120 {
		t.Fatalf("axis interval = %d", tm.grid.Axis.Interval)
	}
}

func TestTimetableInvalidSettings(t *testing.T) {
	tm := newTimetableModel()
	tm.setSize(120, 30)
	tm.sync(timetable.NewEntryStore(), timetable.Settings{Interval: 60, DayStart: 600, DayEnd: 480, Title: "Broken"})

	if tm.grid != nil || tm.err == nil {
		t.Fatal("invalid settings should leave no grid")
	}
	if !strings.Contains(tm.view(), "Cannot lay out timetable") {
		t.Fatal("view should explain the error")
	}
}

func TestTimetableViewRendersGrid(t *testing.T) {
	es := timetable.NewEntryStore()
	es.TryAdd(candidate("Mo", "08:00", "10:00", "CS101", "Algorithms"))

	settings := timetable.DefaultSettings()
	settings.Subtitle = "Fall term"
	tm := newTimetableModel()
	tm.setSize(140, 40)
	tm.sync(es, settings)

	out := tm.view()
	for _, want := range []string{"Timetable", "Fall term", "CS101", "Su", "Mo", "Sa"} {
		if !strings.Contains(out, want) {
			t.Fatalf("grid view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Nothing scheduled") {
		t.Fatal("hint should not show when entries exist")
	}
}

func TestTimetableSlotWidth(t *testing.T) {
	tm := newTimetableModel()
	tm.setSize(40, 20)
	if w := tm.slotWidth(11); w != minSlotWidth {
		t.Fatalf("narrow terminal should clamp to %d, got %d", minSlotWidth, w)
	}
	tm.setSize(200, 20)
	if w := tm.slotWidth(11); w != (200-8-dayColumnWidth)/11 {
		t.Fatalf("unexpected width %d", w)
	}
}

// ============================================================
// Summary model
// ============================================================

func TestHoursByDay(t *testing.T) {
	es := timetable.NewEntryStore()
	es.TryAdd(candidate("Mo", "08:00", "10:00", "CS101", "Algorithms"))
	es.TryAdd(candidate("Mo", "13:00", "14:00", "CS101", "Algorithms"))
	es.TryAdd(candidate("We", "09:00", "10:30", "", "Ethics"))

	byDay, total := hoursByDay(es)
	if total != 270 {
		t.Fatalf("total = %d, want 270", total)
	}
	mon := byDay[timetable.Monday]
	if len(mon) != 1 || mon[0].minutes != 180 || mon[0].color != 1 {
		t.Fatalf("unexpected Monday %+v", mon)
	}
	wed := byDay[timetable.Wednesday]
	if len(wed) != 1 || wed[0].minutes != 90 || wed[0].title != "Ethics" {
		t.Fatalf("unexpected Wednesday %+v", wed)
	}
	if len(byDay[timetable.Sunday]) != 0 {
		t.Fatal("Sunday should be empty")
	}
}

func TestUpcomingSorted(t *testing.T) {
	es := timetable.NewEntryStore()
	es.TryAdd(candidate("Mo", "08:00", "10:00", "", "Monday class"))
	es.TryAdd(candidate("Th", "09:00", "10:00", "", "Thursday class"))
	es.TryAdd(candidate("We", "16:00", "17:00", "", "Wednesday class"))

	axis, err := timetable.DefaultSettings().Axis()
	if err != nil {
		t.Fatal(err)
	}
	g := es.Layout(axis)
	wednesday := time.Date(2026, 10, 21, 15, 4, 0, 0, time.UTC)

	events := upcoming(&g, wednesday)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	want := []string{"Wednesday class", "Thursday class", "Monday class"}
	for i, w := range want {
		if events[i].Title != w {
			t.Fatalf("event %d = %q, want %q", i, events[i].Title, w)
		}
	}
	if events[0].Start.Day() != 21 || events[2].Start.Day() != 26 {
		t.Fatalf("unexpected dates %v, %v", events[0].Start, events[2].Start)
	}
}

func TestUpcomingNilGrid(t *testing.T) {
	if events := upcoming(nil, time.Now()); len(events) != 0 {
		t.Fatal("no grid means nothing upcoming")
	}
}

func TestSummaryRefreshLoadsHistory(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.RecordExport("pdf", "/tmp/timetable-2026-10-19.pdf"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordExport("ics", "/tmp/timetable-2026-10-19.ics"); err != nil {
		t.Fatal(err)
	}

	m := newSummaryModel(s)
	m.setSize(120, 40)
	msg, ok := m.refresh()().(exportHistoryMsg)
	if !ok {
		t.Fatal("refresh should return export history")
	}
	m, _ = m.update(msg)
	if len(m.history) != 2 || m.counts["pdf"] != 1 || m.counts["ics"] != 1 {
		t.Fatalf("unexpected history %+v counts %v", m.history, m.counts)
	}
	if !strings.Contains(m.view(), "ics 1  pdf 1") {
		t.Fatal("view should show counts per format")
	}
}

func TestSummarySyncRendersLegend(t *testing.T) {
	es := timetable.NewEntryStore()
	es.TryAdd(candidate("Mo", "08:00", "10:00", "CS101", "Algorithms"))

	m := newSummaryModel(newTestStore(t))
	m.setSize(120, 40)
	m.now = func() time.Time { return time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC) }

	axis, _ := timetable.DefaultSettings().Axis()
	g := es.Layout(axis)
	m.sync(es, &g)

	out := m.view()
	for _, want := range []string{"2.0h scheduled per week", "CS101 - Algorithms", "Mon Oct 19 8:00 AM"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsSaveNotifiesSubscribers(t *testing.T) {
	s := newTestStore(t)
	var got []timetable.Settings
	s.Subscribe(timetable.SettingsObserverFunc(func(ts timetable.Settings) {
		got = append(got, ts)
	}))

	m := newSettingsModel(s, zap.NewNop(), timetable.DefaultSettings())
	want := timetable.Settings{Interval: 30, DayStart: 540, DayEnd: 1020, Use12Hour: false, Title: "Week A"}
	msg, ok := m.save(want)().(statusMsg)
	if !ok || msg.isError {
		t.Fatalf("unexpected result %+v", msg)
	}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("subscriber got %+v", got)
	}

	loaded, err := s.LoadTimeSettings()
	if err != nil {
		t.Fatal(err)
	}
	if loaded != want {
		t.Fatalf("loaded %+v, want %+v", loaded, want)
	}
}

func TestSettingsSaveRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	notified := false
	s.Subscribe(timetable.SettingsObserverFunc(func(timetable.Settings) { notified = true }))

	m := newSettingsModel(s, zap.NewNop(), timetable.DefaultSettings())
	bad := timetable.Settings{Interval: 60, DayStart: 720, DayEnd: 600, Title: "x"}
	msg := m.save(bad)().(statusMsg)
	if !msg.isError {
		t.Fatal("invalid settings should report an error")
	}
	if notified {
		t.Fatal("rejected settings must not notify")
	}
}

func TestSettingsFormValues(t *testing.T) {
	m := newSettingsModel(newTestStore(t), zap.NewNop(), timetable.DefaultSettings())
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.formActive {
		t.Fatal("enter should open the form")
	}
	if *m.interval != 60 || *m.dayStart != 480 || *m.dayEnd != 1080 || !*m.use12Hour {
		t.Fatal("form should start from the current settings")
	}

	*m.title = "  Spring  "
	if got := m.formSettings(); got.Title != "Spring" || got.Interval != 60 {
		t.Fatalf("unexpected form settings %+v", got)
	}
}

func TestHourOptions(t *testing.T) {
	opts := hourOptions([]int{7, 8}, 480, false)
	if len(opts) != 2 || opts[0].Key != "7:00" || opts[1].Value != 480 {
		t.Fatalf("unexpected options %+v", opts)
	}

	opts = hourOptions([]int{7, 8}, 450, true)
	if len(opts) != 3 || opts[1].Value != 450 || opts[1].Key != "7:30 AM" {
		t.Fatalf("off-hour value should be kept, got %+v", opts)
	}
}

func TestSettingsView(t *testing.T) {
	m := newSettingsModel(newTestStore(t), zap.NewNop(), timetable.DefaultSettings())
	m.setSize(120, 30)
	out := m.view()
	for _, want := range []string{"60 min", "8:00 AM", "6:00 PM", "12-hour", "11 columns per day"} {
		if !strings.Contains(out, want) {
			t.Fatalf("settings view missing %q:\n%s", want, out)
		}
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)

	if app.activeView != viewEntries {
		t.Fatal("default view should be entries")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("help and export picker should be hidden by default")
	}
	if app.settings != timetable.DefaultSettings() {
		t.Fatalf("unexpected settings %+v", app.settings)
	}
	if app.timetable.grid == nil {
		t.Fatal("grid should be laid out on start")
	}
}

func TestNewAppLoadsStoredSettings(t *testing.T) {
	s := newTestStore(t)
	stored := timetable.Settings{Interval: 30, DayStart: 420, DayEnd: 900, Use12Hour: false, Title: "Stored"}
	if err := s.SaveTimeSettings(stored); err != nil {
		t.Fatal(err)
	}

	app := NewApp(s, timetable.NewEntryStore(), nil, nil)
	if app.settings != stored {
		t.Fatalf("settings = %+v, want %+v", app.settings, stored)
	}
	axis, _ := stored.Axis()
	if app.timetable.grid.SlotCount() != axis.SlotCount() {
		t.Fatalf("grid has %d slots, want %d", app.timetable.grid.SlotCount(), axis.SlotCount())
	}
}

func TestAppSettingsChangedRebuildsGrid(t *testing.T) {
	app, _ := newTestApp(t)
	app.entries.TryAdd(candidate("Mo", "08:00", "12:00", "", "Lab"))

	next := timetable.DefaultSettings()
	next.Interval = 120
	app, _ = updateApp(t, app, SettingsChangedMsg{Settings: next})

	if app.settings.Interval != 120 || app.entryList.settings.Interval != 120 || app.prefs.current.Interval != 120 {
		t.Fatal("settings should reach every view")
	}
	if app.timetable.grid.Axis.Interval != 120 {
		t.Fatal("grid should be rebuilt on the new axis")
	}
	heads := app.timetable.grid.Heads()
	if len(heads) != 1 || heads[0].Cell.Span != 2 {
		t.Fatalf("expected one head spanning 2 slots, got %+v", heads)
	}
}

func TestAppEntriesChangeUpdatesGrid(t *testing.T) {
	app, _ := newTestApp(t)
	if len(app.timetable.grid.Heads()) != 0 {
		t.Fatal("grid should start empty")
	}

	app.entries.TryAdd(candidate("Tu", "09:00", "10:00", "CS101", "Algorithms"))
	app, _ = updateApp(t, app, entriesChangedMsg{})

	if len(app.timetable.grid.Heads()) != 1 {
		t.Fatal("grid should follow the store")
	}
	if app.summary.total != 60 {
		t.Fatalf("summary total = %d, want 60", app.summary.total)
	}
}

func TestAppIsFormActive(t *testing.T) {
	app, _ := newTestApp(t)
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}

	app, _ = updateApp(t, app, runeKey('n'))
	if !app.isFormActive() {
		t.Fatal("n should open the entry form")
	}
}

func TestAppViewStates(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	views := []viewState{viewEntries, viewTimetable, viewSummary, viewSettings}
	for _, v := range views {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabCycles(t *testing.T) {
	app, _ := newTestApp(t)
	for i := 1; i <= len(viewNames); i++ {
		app, _ = updateApp(t, app, tea.KeyMsg{Type: tea.KeyTab})
		if want := viewState(i % len(viewNames)); app.activeView != want {
			t.Fatalf("after %d tabs view = %d, want %d", i, app.activeView, want)
		}
	}

	app, _ = updateApp(t, app, runeKey('3'))
	if app.activeView != viewSummary {
		t.Fatal("3 should switch to summary")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app, _ := newTestApp(t)
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	app, _ = updateApp(t, app, statusMsg{text: "missing required field: day", isError: true})
	if !app.statusErr {
		t.Fatal("error flag should be kept")
	}
	if !strings.Contains(app.renderFooter(), "missing required field: day") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppExportPickerEsc(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40

	app, _ = updateApp(t, app, runeKey('e'))
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	out := app.View()
	for _, f := range export.Formats {
		if !strings.Contains(out, f.Label()) {
			t.Fatalf("picker missing %q", f.Label())
		}
	}

	app, _ = updateApp(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppExportJSONRecordsHistory(t *testing.T) {
	app, s := newTestApp(t)
	app.entries.TryAdd(candidate("Mo", "08:00", "10:00", "CS101", "Algorithms"))

	app, _ = updateApp(t, app, runeKey('e'))
	for i := 0; i < len(export.Formats); i++ {
		app, _ = updateApp(t, app, tea.KeyMsg{Type: tea.KeyDown})
	}
	if export.Formats[app.exportCursor] != export.FormatJSON {
		t.Fatal("cursor should stop on the last format")
	}

	app, cmd := updateApp(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.exportPicking || cmd == nil {
		t.Fatal("enter should close the picker and start the export")
	}
	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("expected exportDoneMsg")
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	restored, err := export.FromJSON(done.path)
	if err != nil {
		t.Fatal(err)
	}
	if len(restored) != 1 || restored[0].SubjectCode != "CS101" {
		t.Fatalf("unexpected backup %+v", restored)
	}

	records, err := s.ListExports(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Format != "json" || records[0].Path != done.path {
		t.Fatalf("unexpected history %+v", records)
	}

	app, cmd = updateApp(t, app, done)
	if !strings.Contains(app.status, "Exported to") || cmd == nil {
		t.Fatal("done message should update status and refresh history")
	}
}

func TestAppExportHTML(t *testing.T) {
	app, _ := newTestApp(t)
	app.entries.TryAdd(candidate("We", "10:00", "12:00", "", "Ethics"))
	app, _ = updateApp(t, app, entriesChangedMsg{})

	done, ok := app.doExport(export.FormatHTML)().(exportDoneMsg)
	if !ok {
		t.Fatal("expected exportDoneMsg")
	}
	data, err := os.ReadFile(done.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Ethics") {
		t.Fatal("html export should contain the entry")
	}
}

func TestAppExportWithoutGrid(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = updateApp(t, app, SettingsChangedMsg{Settings: timetable.Settings{Interval: 60, DayStart: 600, DayEnd: 480}})
	if app.timetable.grid != nil {
		t.Fatal("invalid settings should drop the grid")
	}

	msg := mustStatus(t, app.doExport(export.FormatPNG))
	if !msg.isError {
		t.Fatal("export without a grid should fail")
	}

	// The JSON backup only needs entries.
	if _, ok := app.doExport(export.FormatJSON)().(exportDoneMsg); !ok {
		t.Fatal("json export should work without a grid")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
		{"dayColumn", func() string { return dayColumnStyle.Render("test") }},
		{"slotHeader", func() string { return slotHeaderStyle.Render("test") }},
		{"emptyCell", func() string { return emptyCellStyle.Render("test") }},
		{"subjectCell", func() string { return subjectCellStyle.Background(subjectColor(3)).Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}

func TestSubjectColor(t *testing.T) {
	if subjectColor(1) != "#FFD6D6" {
		t.Fatalf("token 1 = %v", subjectColor(1))
	}
	if subjectColor(0) != colorSubtle || subjectColor(timetable.PaletteSize+1) != colorSubtle {
		t.Fatal("out of range tokens should fall back")
	}
}
