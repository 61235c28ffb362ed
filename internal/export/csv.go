package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/timetable/internal/timetable"
)

// ToCSV writes the grid with a "Day" column followed by one column per slot.
// A head's text sits in its first slot; the slots it spans stay blank.
func ToCSV(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	g := doc.Grid
	header := append([]string{"Day"}, g.Axis.Labels()...)
	if err := w.Write(header); err != nil {
		return err
	}

	for r, day := range g.Days {
		row := make([]string, 1+g.SlotCount())
		row[0] = day.Name()
		for i, c := range g.Rows[r] {
			if c.Kind == timetable.CellHead {
				row[i+1] = strings.Join(cellLines(c.Entry), " / ")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
