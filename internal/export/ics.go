package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/sadopc/timetable/internal/timetable"
)

const icsProductID = "-//Timetable//Calendar Export//EN"

// CalendarMeta names the exported calendar.
type CalendarMeta struct {
	Name        string
	Description string
}

var rruleDays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// weeklyRule is the unbounded weekly recurrence on the weekday of start as
// written in DTSTART, i.e. in UTC.
func weeklyRule(start time.Time) string {
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rruleDays[start.UTC().Weekday()]},
	}
	return opt.RRuleString()
}

// RenderICS writes one weekly recurring VEVENT per event.
func RenderICS(w io.Writer, events []timetable.CalendarEvent, meta CalendarMeta, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.SetProductId(icsProductID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(meta.Name)
	cal.SetXWRCalDesc(meta.Description)

	for i, ev := range events {
		uid := ev.EntryID
		if uid == "" {
			uid = fmt.Sprintf("%d-%d", stamp.Unix(), i)
		}
		e := cal.AddEvent(uid + "@timetable")
		e.SetDtStampTime(stamp)
		e.SetStartAt(ev.Start)
		e.SetEndAt(ev.End)
		e.SetSummary(ev.Title)
		if ev.Location != "" {
			e.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			e.SetDescription(ev.Description)
		}
		e.AddRrule(weeklyRule(ev.Start))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write ics: %w", err)
	}
	return nil
}

func ToICS(events []timetable.CalendarEvent, meta CalendarMeta, path string) error {
	var buf bytes.Buffer
	if err := RenderICS(&buf, events, meta, time.Now()); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write ics file: %w", err)
	}
	return nil
}
