package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// ExportRecord is one file written by an exporter.
type ExportRecord struct {
	ID        int64
	Format    string
	Path      string
	CreatedAt time.Time
}

// Setting keys backing timetable.Settings.
const (
	KeySlotInterval = "slot_interval"
	KeyDayStart     = "day_start"
	KeyDayEnd       = "day_end"
	KeyUse12Hour    = "use_12h"
	KeyTitle        = "title"
	KeySubtitle     = "subtitle"
)
