package store

import (
	"fmt"
	"time"
)

func (s *Store) RecordExport(format, path string) (*ExportRecord, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO exports (format, path, created_at) VALUES (?, ?, ?)`,
		format, path, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert export: %w", err)
	}
	id, _ := res.LastInsertId()
	createdAt, _ := time.Parse(time.RFC3339, now)
	return &ExportRecord{ID: id, Format: format, Path: path, CreatedAt: createdAt}, nil
}

// ListExports returns the most recent exports first. A limit <= 0 returns all.
func (s *Store) ListExports(limit int) ([]ExportRecord, error) {
	query := `SELECT id, format, path, created_at FROM exports ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var records []ExportRecord
	for rows.Next() {
		var r ExportRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Format, &r.Path, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// ExportCounts returns how many files were written per format.
func (s *Store) ExportCounts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT format, COUNT(*) FROM exports GROUP BY format`)
	if err != nil {
		return nil, fmt.Errorf("count exports: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var format string
		var n int
		if err := rows.Scan(&format, &n); err != nil {
			return nil, err
		}
		counts[format] = n
	}
	return counts, rows.Err()
}
