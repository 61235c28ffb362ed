package store

import (
	"fmt"
	"strconv"

	"github.com/sadopc/timetable/internal/timetable"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadTimeSettings reads the time-axis settings. Keys that are missing or
// unparseable fall back to timetable.DefaultSettings.
func (s *Store) LoadTimeSettings() (timetable.Settings, error) {
	all, err := s.GetAllSettings()
	if err != nil {
		return timetable.Settings{}, err
	}
	out := timetable.DefaultSettings()
	for _, kv := range all {
		switch kv.Key {
		case KeySlotInterval:
			if v, err := strconv.Atoi(kv.Value); err == nil {
				out.Interval = v
			}
		case KeyDayStart:
			if v, err := timetable.ParseClock(kv.Value); err == nil {
				out.DayStart = v
			}
		case KeyDayEnd:
			if v, err := timetable.ParseClock(kv.Value); err == nil {
				out.DayEnd = v
			}
		case KeyUse12Hour:
			if v, err := strconv.ParseBool(kv.Value); err == nil {
				out.Use12Hour = v
			}
		case KeyTitle:
			out.Title = kv.Value
		case KeySubtitle:
			out.Subtitle = kv.Value
		}
	}
	if err := out.Validate(); err != nil {
		return timetable.DefaultSettings(), nil
	}
	return out, nil
}

// SaveTimeSettings validates and persists ts in one transaction, then
// notifies subscribers. Invalid settings are rejected and nothing is written.
func (s *Store) SaveTimeSettings(ts timetable.Settings) error {
	if err := ts.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	values := []Setting{
		{KeySlotInterval, strconv.Itoa(ts.Interval)},
		{KeyDayStart, timetable.FormatClock(ts.DayStart)},
		{KeyDayEnd, timetable.FormatClock(ts.DayEnd)},
		{KeyUse12Hour, strconv.FormatBool(ts.Use12Hour)},
		{KeyTitle, ts.Title},
		{KeySubtitle, ts.Subtitle},
	}
	for _, kv := range values {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			kv.Key, kv.Value,
		); err != nil {
			return fmt.Errorf("save setting %q: %w", kv.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}

	s.mu.Lock()
	observers := append([]timetable.SettingsObserver(nil), s.observers...)
	s.mu.Unlock()
	for _, o := range observers {
		o.SettingsChanged(ts)
	}
	return nil
}

// Subscribe registers o to be called after every successful SaveTimeSettings.
func (s *Store) Subscribe(o timetable.SettingsObserver) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}
