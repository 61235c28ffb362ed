package timetable

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Day is a day of the week, Sunday = 0.
type Day int

const (
	Sunday Day = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Days is the fixed row ordering of a timetable.
var Days = []Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var dayAbbrs = [...]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

func (d Day) Valid() bool { return d >= Sunday && d <= Saturday }

func (d Day) Abbr() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayAbbrs[d]
}

func (d Day) Name() string {
	if !d.Valid() {
		return d.Abbr()
	}
	return time.Weekday(d).String()
}

func (d Day) Weekday() time.Weekday { return time.Weekday(d) }

func (d Day) String() string { return d.Abbr() }

// ParseDay accepts "Mo", "Mon" or "Monday", case-insensitive.
func ParseDay(s string) (Day, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 2 {
		for _, d := range Days {
			name := strings.ToLower(d.Name())
			if strings.HasPrefix(name, s) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// Entry is one weekly recurring timetable item. Entries are immutable once stored.
type Entry struct {
	ID           string `json:"id"`
	Day          Day    `json:"day"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
	SubjectCode  string `json:"subject_code,omitempty"`
	SubjectName  string `json:"subject_name"`
	Lecturer     string `json:"lecturer,omitempty"`
	Location     string `json:"location,omitempty"`
}

// SubjectKey identifies the subject for color assignment: code if present, else name.
func (e Entry) SubjectKey() string {
	if e.SubjectCode != "" {
		return e.SubjectCode
	}
	return e.SubjectName
}

// Title is "CODE - Name", or just the name when there is no code.
func (e Entry) Title() string {
	if e.SubjectCode != "" {
		return e.SubjectCode + " - " + e.SubjectName
	}
	return e.SubjectName
}

// Covers reports whether the slot [start, end) lies entirely within the entry.
func (e Entry) Covers(start, end int) bool {
	return e.StartMinutes <= start && e.EndMinutes >= end
}

func (e Entry) Validate() error {
	if !e.Day.Valid() {
		return &ValidationError{Kind: ErrInvalidField, Field: "day"}
	}
	if strings.TrimSpace(e.SubjectName) == "" {
		return &ValidationError{Kind: ErrMissingField, Field: "subject name"}
	}
	if e.StartMinutes >= e.EndMinutes {
		return &ValidationError{Kind: ErrInvalidTimeOrder, Field: "end time"}
	}
	return nil
}

var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidTimeOrder = errors.New("end time must be after start time")
	ErrInvalidField     = errors.New("invalid field value")
)

// ValidationError reports why a candidate entry was rejected.
// Kind is one of ErrMissingField, ErrInvalidTimeOrder or ErrInvalidField.
type ValidationError struct {
	Kind  error
	Field string
}

func (e *ValidationError) Error() string {
	if e.Kind == ErrInvalidTimeOrder {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Field)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// Candidate holds the raw form fields of an entry before validation.
type Candidate struct {
	Day         string
	Start       string
	End         string
	SubjectCode string
	SubjectName string
	Lecturer    string
	Location    string
}

// Validate checks required fields and time order and returns the parsed entry.
// The returned entry has no ID; the store assigns one.
func (c Candidate) Validate() (Entry, error) {
	required := []struct {
		field string
		value string
	}{
		{"day", c.Day},
		{"start time", c.Start},
		{"end time", c.End},
		{"subject name", c.SubjectName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return Entry{}, &ValidationError{Kind: ErrMissingField, Field: r.field}
		}
	}

	day, err := ParseDay(c.Day)
	if err != nil {
		return Entry{}, &ValidationError{Kind: ErrInvalidField, Field: "day"}
	}
	start, err := ParseClock(c.Start)
	if err != nil {
		return Entry{}, &ValidationError{Kind: ErrInvalidField, Field: "start time"}
	}
	end, err := ParseClock(c.End)
	if err != nil {
		return Entry{}, &ValidationError{Kind: ErrInvalidField, Field: "end time"}
	}

	e := Entry{
		Day:          day,
		StartMinutes: start,
		EndMinutes:   end,
		SubjectCode:  strings.TrimSpace(c.SubjectCode),
		SubjectName:  strings.TrimSpace(c.SubjectName),
		Lecturer:     strings.TrimSpace(c.Lecturer),
		Location:     strings.TrimSpace(c.Location),
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}
