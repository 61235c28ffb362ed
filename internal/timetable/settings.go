package timetable

import "fmt"

// Intervals are the slot widths offered to the user, in minutes.
var Intervals = []int{30, 60, 90, 120}

// Settings is the user's time-axis configuration plus the timetable heading.
type Settings struct {
	Interval  int
	DayStart  int
	DayEnd    int
	Use12Hour bool
	Title     string
	Subtitle  string
}

func DefaultSettings() Settings {
	return Settings{
		Interval:  60,
		DayStart:  8 * 60,
		DayEnd:    18 * 60,
		Use12Hour: true,
		Title:     "Timetable",
	}
}

func (s Settings) Validate() error {
	if s.Interval <= 0 {
		return fmt.Errorf("%w: interval %d must be positive", ErrInvalidRange, s.Interval)
	}
	if s.DayStart < 0 || s.DayEnd > 24*60 {
		return fmt.Errorf("%w: day bounds %s-%s outside a day", ErrInvalidRange, FormatClock(s.DayStart), FormatClock(s.DayEnd))
	}
	if s.DayEnd <= s.DayStart {
		return fmt.Errorf("%w: day end %s is not after start %s", ErrInvalidRange, FormatClock(s.DayEnd), FormatClock(s.DayStart))
	}
	return nil
}

// Axis derives the time axis. It must be called again whenever settings change.
func (s Settings) Axis() (Axis, error) {
	if err := s.Validate(); err != nil {
		return Axis{}, err
	}
	return NewAxis(s.DayStart, s.DayEnd, s.Interval, s.Use12Hour)
}

// EntryTimes lists the selectable entry times: every interval step from day
// start to one interval past day end.
func (s Settings) EntryTimes() []int {
	if s.Interval <= 0 {
		return nil
	}
	var out []int
	for m := s.DayStart; m <= s.DayEnd+s.Interval; m += s.Interval {
		out = append(out, m)
	}
	return out
}

// SettingsObserver is notified after settings were changed and persisted.
type SettingsObserver interface {
	SettingsChanged(Settings)
}

// SettingsObserverFunc adapts a function to SettingsObserver.
type SettingsObserverFunc func(Settings)

func (f SettingsObserverFunc) SettingsChanged(s Settings) { f(s) }
