package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned when a time axis cannot be derived from its bounds.
var ErrInvalidRange = errors.New("invalid time range")

// Axis is the time dimension of a timetable: an ordered list of slot
// boundaries in minutes since midnight.
type Axis struct {
	Boundaries []int
	Interval   int
	Use12Hour  bool
}

// BuildSlots returns the boundaries start, start+interval, ... up to and
// including the first boundary >= end, followed by one trailing boundary.
func BuildSlots(start, end, interval int) ([]int, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: interval %d must be positive", ErrInvalidRange, interval)
	}
	if end <= start {
		return nil, fmt.Errorf("%w: end %s is not after start %s", ErrInvalidRange, FormatClock(end), FormatClock(start))
	}

	var slots []int
	m := start
	for {
		slots = append(slots, m)
		if m >= end {
			break
		}
		m += interval
	}
	slots = append(slots, m+interval)
	return slots, nil
}

// NewAxis derives an axis from day bounds and an interval.
func NewAxis(start, end, interval int, use12Hour bool) (Axis, error) {
	b, err := BuildSlots(start, end, interval)
	if err != nil {
		return Axis{}, err
	}
	return Axis{Boundaries: b, Interval: interval, Use12Hour: use12Hour}, nil
}

// SlotCount is the number of renderable columns.
func (a Axis) SlotCount() int {
	if len(a.Boundaries) < 2 {
		return 0
	}
	return len(a.Boundaries) - 1
}

// Slot returns the [start, end) bounds of slot i.
func (a Axis) Slot(i int) (start, end int) {
	return a.Boundaries[i], a.Boundaries[i+1]
}

// Label renders slot i as "8:00 - 9:00" in the axis display format.
func (a Axis) Label(i int) string {
	s, e := a.Slot(i)
	return FormatForDisplay(s, a.Use12Hour) + " - " + FormatForDisplay(e, a.Use12Hour)
}

func (a Axis) Labels() []string {
	labels := make([]string, a.SlotCount())
	for i := range labels {
		labels[i] = a.Label(i)
	}
	return labels
}

// FormatForDisplay renders minutes since midnight as "H:MM" or "h:MM AM".
func FormatForDisplay(minutes int, use12Hour bool) string {
	h := minutes / 60
	m := minutes % 60
	if !use12Hour {
		return fmt.Sprintf("%d:%02d", h, m)
	}

	h %= 24
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, period)
}

// FormatClock renders minutes as zero-padded 24h "HH:MM", the storage form.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// maxClockHour bounds 24h-form hours. Entry times run one interval past day
// end, so a day ending at 24:00 offers times such as "25:00".
const maxClockHour = 48

// ParseClock parses "8:00", "08:00", "25:00" or "9:30 PM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, errors.New("empty time")
	}

	period := ""
	if strings.HasSuffix(s, "AM") || strings.HasSuffix(s, "PM") {
		period = s[len(s)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}

	hs, ms, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("time %q: want H:MM", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, fmt.Errorf("time %q: bad hour: %w", s, err)
	}
	m, err := strconv.Atoi(ms)
	if err != nil || len(ms) != 2 {
		return 0, fmt.Errorf("time %q: bad minutes", s)
	}
	if m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q: minutes out of range", s)
	}

	switch period {
	case "":
		if h < 0 || h >= maxClockHour {
			return 0, fmt.Errorf("time %q: hour out of range", s)
		}
	default:
		if h < 1 || h > 12 {
			return 0, fmt.Errorf("time %q: hour out of range for 12h clock", s)
		}
		if h == 12 {
			h = 0
		}
		if period == "PM" {
			h += 12
		}
	}
	return h*60 + m, nil
}
