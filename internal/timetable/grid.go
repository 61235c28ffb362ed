package timetable

// CellKind classifies a grid cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	// CellHead carries an entry and spans Span slots.
	CellHead
	// CellContinuation is absorbed by the preceding head and is never rendered.
	CellContinuation
)

func (k CellKind) String() string {
	switch k {
	case CellHead:
		return "head"
	case CellContinuation:
		return "continuation"
	default:
		return "empty"
	}
}

type Cell struct {
	Kind  CellKind
	Entry Entry
	Span  int
	Color ColorToken
}

// Grid is the laid-out week: one row per day, one cell per axis slot.
type Grid struct {
	Axis Axis
	Days []Day
	Rows [][]Cell
}

// Placement locates a head cell in the grid.
type Placement struct {
	Day  Day
	Slot int
	Cell Cell
}

func (g Grid) SlotCount() int { return g.Axis.SlotCount() }

// Row returns the cells of day, or nil if the day is not part of the grid.
func (g Grid) Row(day Day) []Cell {
	for i, d := range g.Days {
		if d == day {
			return g.Rows[i]
		}
	}
	return nil
}

// Heads lists every head cell in row-major order.
func (g Grid) Heads() []Placement {
	var out []Placement
	for r, row := range g.Rows {
		for i, c := range row {
			if c.Kind == CellHead {
				out = append(out, Placement{Day: g.Days[r], Slot: i, Cell: c})
			}
		}
	}
	return out
}

// Build lays entries out over the axis for each day.
//
// An entry occupies a slot only if the slot lies entirely within the entry.
// When several entries occupy a slot, the first in entries wins and the
// others are not rendered there. A head is emitted only on the slot that
// starts exactly at the entry's start; its span walks forward over fully
// covered slots and is clipped at the end of the axis. Build never fails.
func Build(entries []Entry, axis Axis, days []Day) Grid {
	n := axis.SlotCount()
	g := Grid{
		Axis: axis,
		Days: append([]Day(nil), days...),
		Rows: make([][]Cell, len(days)),
	}

	for r, day := range days {
		row := make([]Cell, n)
		var onDay []Entry
		for _, e := range entries {
			if e.Day == day {
				onDay = append(onDay, e)
			}
		}

		for i := 0; i < n; {
			slotStart, slotEnd := axis.Slot(i)
			e, ok := firstCovering(onDay, slotStart, slotEnd)
			if !ok || e.StartMinutes != slotStart {
				i++
				continue
			}

			span := 1
			for i+span < n {
				s, end := axis.Slot(i + span)
				if !e.Covers(s, end) {
					break
				}
				span++
			}

			row[i] = Cell{Kind: CellHead, Entry: e, Span: span}
			for j := i + 1; j < i+span; j++ {
				row[j] = Cell{Kind: CellContinuation}
			}
			i += span
		}
		g.Rows[r] = row
	}
	return g
}

func firstCovering(entries []Entry, start, end int) (Entry, bool) {
	for _, e := range entries {
		if e.Covers(start, end) {
			return e, true
		}
	}
	return Entry{}, false
}
