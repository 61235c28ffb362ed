package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timetable/internal/config"
	"github.com/sadopc/timetable/internal/export"
	"github.com/sadopc/timetable/internal/store"
	"github.com/sadopc/timetable/internal/timetable"
	"go.uber.org/zap"
)

// App is the root Bubble Tea model. All entry mutations happen on the update
// loop; commands only see snapshots.
type App struct {
	store    *store.Store
	entries  *timetable.EntryStore
	cfg      *config.Config
	logger   *zap.Logger
	settings timetable.Settings

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	entryList entriesModel
	timetable timetableModel
	summary   summaryModel
	prefs     settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(s *store.Store, es *timetable.EntryStore, cfg *config.Config, logger *zap.Logger) App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	settings, err := s.LoadTimeSettings()
	if err != nil {
		logger.Warn("load settings", zap.Error(err))
		settings = timetable.DefaultSettings()
	}

	h := help.New()
	h.ShowAll = false

	a := App{
		store:      s,
		entries:    es,
		cfg:        cfg,
		logger:     logger,
		settings:   settings,
		activeView: viewEntries,
		entryList:  newEntriesModel(es, logger, settings, cfg.PageSize),
		timetable:  newTimetableModel(),
		summary:    newSummaryModel(s),
		prefs:      newSettingsModel(s, logger, settings),
		help:       h,
	}
	a.syncLayout()
	return a
}

func (a App) Init() tea.Cmd {
	return a.summary.refresh()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a, cmd := a.update(msg)
	a.syncLayout()
	return a, cmd
}

// syncLayout keeps the cached grid and the summary in step with the store.
func (a *App) syncLayout() {
	a.timetable.sync(a.entries, a.settings)
	a.summary.sync(a.entries, a.timetable.grid)
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.entryList.setSize(a.width, contentHeight)
		a.timetable.setSize(a.width, contentHeight)
		a.summary.setSize(a.width, contentHeight)
		a.prefs.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewEntries
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTimetable
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSummary
			return a, a.summary.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case SettingsChangedMsg:
		a.applySettings(msg.Settings)
		a.logger.Info("settings changed",
			zap.Int("interval", msg.Settings.Interval),
			zap.String("day_start", timetable.FormatClock(msg.Settings.DayStart)),
			zap.String("day_end", timetable.FormatClock(msg.Settings.DayEnd)),
			zap.Bool("use_12h", msg.Settings.Use12Hour),
		)
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, a.summary.refresh()

	case exportHistoryMsg:
		a.summary, _ = a.summary.update(msg)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) applySettings(s timetable.Settings) {
	a.settings = s
	a.entryList.setSettings(s)
	a.prefs.setSettings(s)
}

func (a App) updateActiveView(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewEntries:
		a.entryList, cmd = a.entryList.update(msg)
	case viewSummary:
		a.summary, cmd = a.summary.update(msg)
	case viewSettings:
		a.prefs, cmd = a.prefs.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewEntries:
		return a.entryList.formActive
	case viewSettings:
		return a.prefs.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	if a.activeView == viewSummary {
		return a.summary.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewEntries:
		content = a.entryList.view()
	case viewTimetable:
		content = a.timetable.view()
	case viewSummary:
		content = a.summary.view()
	case viewSettings:
		content = a.prefs.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("timetable")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	count := successStyle.Render(fmt.Sprintf(" ● %d entries", a.entries.Len()))

	left := footerStyle.Render(helpView)
	right := count + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export Format"))
	rows = append(rows, mutedStyle.Render("Writing to "+a.cfg.ExportDir))
	rows = append(rows, "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-14s .%s", cursor, f.Label(), f)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		a.status = "Exporting " + export.Formats[a.exportCursor].Label() + "..."
		a.statusErr = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport snapshots the current grid and entries and writes them in the
// background. The written file is recorded in the export history.
func (a App) doExport(f export.Format) tea.Cmd {
	if a.timetable.grid == nil && f != export.FormatJSON {
		err := timetable.ErrMissingTimetable
		if a.timetable.err != nil {
			err = a.timetable.err
		}
		return statusCmd(fmt.Sprintf("Export error: %v", err), true)
	}

	job := export.Job{
		Entries: a.entries.Entries(),
		Dir:     a.cfg.ExportDir,
		Now:     time.Now(),
		PDF: export.PDFOptions{
			ChromePath: a.cfg.ChromePath,
			Timeout:    a.cfg.PDFTimeoutDuration(),
		},
	}
	if a.timetable.grid != nil {
		job.Doc = export.Document{
			Title:    a.settings.Title,
			Subtitle: a.settings.Subtitle,
			Grid:     *a.timetable.grid,
		}
	}
	st, logger := a.store, a.logger

	return func() tea.Msg {
		path, err := export.Run(context.Background(), f, job)
		if err != nil {
			logger.Error("export failed", zap.String("format", string(f)), zap.Error(err))
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		if _, err := st.RecordExport(string(f), path); err != nil {
			logger.Warn("record export", zap.String("path", path), zap.Error(err))
		}
		logger.Info("export written",
			zap.String("format", string(f)),
			zap.String("path", path),
			zap.Int("entries", len(job.Entries)),
		)
		return exportDoneMsg{format: f, path: path}
	}
}
