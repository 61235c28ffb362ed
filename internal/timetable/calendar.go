package timetable

import (
	"errors"
	"strings"
	"time"
)

// ErrMissingTimetable reports that no grid could be built to export from.
var ErrMissingTimetable = errors.New("no timetable has been generated")

// CalendarEvent is the first real occurrence of an entry. It recurs weekly
// without end; exporters express that as a rule, not as more events.
type CalendarEvent struct {
	EntryID     string
	Day         Day
	Start       time.Time
	End         time.Time
	Title       string
	Location    string
	Description string
}

// DaysUntil is the number of days from now's weekday to day, 0 if today.
func DaysUntil(day Day, now time.Time) int {
	return (int(day) - int(now.Weekday()) + 7) % 7
}

// Project anchors every entry at its next occurrence on or after now's date.
func Project(entries []Entry, now time.Time) []CalendarEvent {
	out := make([]CalendarEvent, 0, len(entries))
	for _, e := range entries {
		out = append(out, newEvent(e, e.StartMinutes, e.EndMinutes, now))
	}
	return out
}

// ProjectGrid reads events back from a laid-out grid: one event per head,
// timed by the axis boundaries it spans, so clipped entries stay clipped.
// A nil grid projects to nothing.
func ProjectGrid(g *Grid, now time.Time) []CalendarEvent {
	if g == nil {
		return []CalendarEvent{}
	}
	heads := g.Heads()
	out := make([]CalendarEvent, 0, len(heads))
	for _, h := range heads {
		start := g.Axis.Boundaries[h.Slot]
		end := g.Axis.Boundaries[h.Slot+h.Cell.Span]
		out = append(out, newEvent(h.Cell.Entry, start, end, now))
	}
	return out
}

func newEvent(e Entry, start, end int, now time.Time) CalendarEvent {
	y, m, d := now.Date()
	d += DaysUntil(e.Day, now)
	loc := now.Location()
	return CalendarEvent{
		EntryID:     e.ID,
		Day:         e.Day,
		Start:       time.Date(y, m, d, 0, start, 0, 0, loc),
		End:         time.Date(y, m, d, 0, end, 0, 0, loc),
		Title:       e.Title(),
		Location:    e.Location,
		Description: describe(e),
	}
}

func describe(e Entry) string {
	var lines []string
	if e.SubjectCode != "" {
		lines = append(lines, "Code: "+e.SubjectCode)
	}
	if e.SubjectName != "" {
		lines = append(lines, "Subject: "+e.SubjectName)
	}
	if e.Lecturer != "" {
		lines = append(lines, "Lecturer: "+e.Lecturer)
	}
	return strings.Join(lines, "\n")
}
