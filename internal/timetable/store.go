package timetable

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PaletteSize is the number of subject color tokens.
const PaletteSize = 8

// ColorToken is a subject color category, 1..PaletteSize. Zero means none.
type ColorToken int

// Class is the CSS class name of the token, e.g. "color-3".
func (c ColorToken) Class() string {
	if c <= 0 {
		return ""
	}
	return fmt.Sprintf("color-%d", int(c))
}

var (
	ErrIndexOutOfRange = errors.New("entry index out of range")
	ErrEntryNotFound   = errors.New("entry not found")
)

// EntryStore owns the entries of one session in insertion order and the
// subject color assignments. It is not safe for concurrent use; the caller
// serializes mutations.
type EntryStore struct {
	entries []Entry
	colors  map[string]ColorToken
	next    ColorToken
	version uint64
	newID   func() string
}

func NewEntryStore() *EntryStore {
	return &EntryStore{
		colors: make(map[string]ColorToken),
		next:   1,
		newID:  uuid.NewString,
	}
}

// TryAdd validates a raw candidate and appends it. A rejected candidate is not
// stored and the returned error wraps ErrMissingField, ErrInvalidTimeOrder or
// ErrInvalidField.
func (s *EntryStore) TryAdd(c Candidate) (Entry, error) {
	e, err := c.Validate()
	if err != nil {
		return Entry{}, err
	}
	return s.insert(e), nil
}

// Add stores an already-parsed entry, e.g. one restored from a backup.
// A missing ID is assigned; an existing one is kept unless it collides.
func (s *EntryStore) Add(e Entry) (Entry, error) {
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	if e.ID != "" && s.indexOf(e.ID) >= 0 {
		e.ID = ""
	}
	return s.insert(e), nil
}

func (s *EntryStore) insert(e Entry) Entry {
	if e.ID == "" {
		e.ID = s.newID()
	}
	key := e.SubjectKey()
	if _, ok := s.colors[key]; !ok {
		s.colors[key] = s.next
		s.next = s.next%PaletteSize + 1
	}
	s.entries = append(s.entries, e)
	s.version++
	return e
}

// Remove deletes the entry at index; later entries shift down by one.
func (s *EntryStore) Remove(index int) (Entry, error) {
	if index < 0 || index >= len(s.entries) {
		return Entry{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.entries))
	}
	e := s.entries[index]
	s.entries = append(s.entries[:index:index], s.entries[index+1:]...)
	s.version++
	return e, nil
}

// RemoveByID deletes the entry with the given id. Prefer it over Remove when
// the caller holds a reference obtained before other mutations.
func (s *EntryStore) RemoveByID(id string) (Entry, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return s.Remove(i)
}

func (s *EntryStore) indexOf(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *EntryStore) Get(id string) (Entry, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.entries[i], true
	}
	return Entry{}, false
}

// Entries returns a copy of the entries in insertion order.
func (s *EntryStore) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *EntryStore) Len() int { return len(s.entries) }

// Version changes on every mutation and can key cached grids.
func (s *EntryStore) Version() uint64 { return s.version }

// Color returns the token assigned to the subject key, or 0 if unseen.
// Assignments survive removal of all entries of that subject.
func (s *EntryStore) Color(subjectKey string) ColorToken {
	return s.colors[subjectKey]
}

// Clear drops all entries and color assignments.
func (s *EntryStore) Clear() {
	s.entries = nil
	s.colors = make(map[string]ColorToken)
	s.next = 1
	s.version++
}

// Layout builds the grid for the stored entries over the fixed week and
// annotates head cells with their subject color.
func (s *EntryStore) Layout(axis Axis) Grid {
	g := Build(s.entries, axis, Days)
	for _, row := range g.Rows {
		for i := range row {
			if row[i].Kind == CellHead {
				row[i].Color = s.colors[row[i].Entry.SubjectKey()]
			}
		}
	}
	return g
}
