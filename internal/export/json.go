package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timetable/internal/timetable"
)

const backupVersion = 1

type jsonExport struct {
	Version    int               `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Count      int               `json:"count"`
	Entries    []timetable.Entry `json:"entries"`
}

// ToJSON writes an entry backup that FromJSON can restore.
func ToJSON(entries []timetable.Entry, path string) error {
	export := jsonExport{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
		Entries:    entries,
	}
	if export.Entries == nil {
		export.Entries = []timetable.Entry{}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FromJSON reads a backup written by ToJSON. Entries are returned as stored;
// validation happens when they are added to a store.
func FromJSON(path string) ([]timetable.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}
	var backup jsonExport
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("parse json backup: %w", err)
	}
	if backup.Version > backupVersion {
		return nil, fmt.Errorf("json backup version %d is newer than supported %d", backup.Version, backupVersion)
	}
	return backup.Entries, nil
}
