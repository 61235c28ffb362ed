package tui

import (
	"fmt"

	"github.com/sadopc/timetable/internal/export"
	"github.com/sadopc/timetable/internal/timetable"
)

// viewState represents the currently active view.
type viewState int

const (
	viewEntries viewState = iota
	viewTimetable
	viewSummary
	viewSettings
)

var viewNames = []string{"Entries", "Timetable", "Summary", "Settings"}

// --- Messages ---

// SettingsChangedMsg carries settings that were just persisted. It is sent
// into the program from the store subscription.
type SettingsChangedMsg struct {
	Settings timetable.Settings
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	format export.Format
	path   string
}

type entriesChangedMsg struct{}

// --- Helpers ---

func formatHours(minutes int) string {
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w == 1 {
		return string(r[:1])
	}
	return string(r[:w-1]) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
