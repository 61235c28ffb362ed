package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sadopc/timetable/internal/timetable"
)

const (
	xlsxSheet     = "Timetable"
	xlsxHeaderRow = 4
)

func xlsxCell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

var xlsxBorder = []excelize.Border{
	{Type: "left", Color: "444444", Style: 1},
	{Type: "top", Color: "444444", Style: 1},
	{Type: "right", Color: "444444", Style: 1},
	{Type: "bottom", Color: "444444", Style: 1},
}

var xlsxCenter = &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

type xlsxStyles struct {
	title, subtitle, header, day, empty int
	subject                             map[timetable.ColorToken]int
}

func newXLSXStyles(f *excelize.File) (*xlsxStyles, error) {
	s := &xlsxStyles{subject: make(map[timetable.ColorToken]int)}
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}, Alignment: xlsxCenter}},
		{&s.subtitle, &excelize.Style{Font: &excelize.Font{Size: 12}, Alignment: xlsxCenter}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#EEEEEE"}},
			Alignment: xlsxCenter,
			Border:    xlsxBorder,
		}},
		{&s.day, &excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: xlsxCenter, Border: xlsxBorder}},
		{&s.empty, &excelize.Style{Border: xlsxBorder}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("xlsx style: %w", err)
		}
		*d.dst = id
	}
	for c := 1; c <= timetable.PaletteSize; c++ {
		tok := timetable.ColorToken(c)
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{Hex(tok)}},
			Alignment: xlsxCenter,
			Border:    xlsxBorder,
		})
		if err != nil {
			return nil, fmt.Errorf("xlsx style: %w", err)
		}
		s.subject[tok] = id
	}
	return s, nil
}

// ToXLSX writes doc as a single-sheet workbook: title and subtitle rows merged
// across the table, a blank row, the slot header and one row per day. Head
// cells are merged across their span and filled with the subject color.
func ToXLSX(doc Document, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	styles, err := newXLSXStyles(f)
	if err != nil {
		return err
	}

	g := doc.Grid
	lastCol := g.SlotCount() + 1

	heading := []struct {
		row   int
		text  string
		style int
	}{
		{1, doc.Title, styles.title},
		{2, doc.Subtitle, styles.subtitle},
	}
	for _, h := range heading {
		if err := f.SetCellValue(xlsxSheet, xlsxCell(1, h.row), h.text); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if lastCol > 1 {
			if err := f.MergeCell(xlsxSheet, xlsxCell(1, h.row), xlsxCell(lastCol, h.row)); err != nil {
				return fmt.Errorf("xlsx: %w", err)
			}
		}
		if err := f.SetCellStyle(xlsxSheet, xlsxCell(1, h.row), xlsxCell(lastCol, h.row), h.style); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	if err := f.SetCellStyle(xlsxSheet, xlsxCell(1, xlsxHeaderRow), xlsxCell(lastCol, xlsxHeaderRow), styles.header); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	for i, label := range g.Axis.Labels() {
		if err := f.SetCellValue(xlsxSheet, xlsxCell(i+2, xlsxHeaderRow), label); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	for r, day := range g.Days {
		row := xlsxHeaderRow + 1 + r
		if err := f.SetCellValue(xlsxSheet, xlsxCell(1, row), day.Abbr()); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetCellStyle(xlsxSheet, xlsxCell(1, row), xlsxCell(1, row), styles.day); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetRowHeight(xlsxSheet, row, 60); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}

		for i, c := range g.Rows[r] {
			col := i + 2
			switch c.Kind {
			case timetable.CellEmpty:
				if err := f.SetCellStyle(xlsxSheet, xlsxCell(col, row), xlsxCell(col, row), styles.empty); err != nil {
					return fmt.Errorf("xlsx: %w", err)
				}
			case timetable.CellHead:
				start, end := xlsxCell(col, row), xlsxCell(col+c.Span-1, row)
				if err := f.SetCellValue(xlsxSheet, start, cellText(c.Entry)); err != nil {
					return fmt.Errorf("xlsx: %w", err)
				}
				if c.Span > 1 {
					if err := f.MergeCell(xlsxSheet, start, end); err != nil {
						return fmt.Errorf("xlsx: %w", err)
					}
				}
				style, ok := styles.subject[c.Color]
				if !ok {
					style = styles.empty
				}
				if err := f.SetCellStyle(xlsxSheet, start, end, style); err != nil {
					return fmt.Errorf("xlsx: %w", err)
				}
			}
		}
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 8); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if lastCol > 1 {
		first, _ := excelize.ColumnNumberToName(2)
		last, _ := excelize.ColumnNumberToName(lastCol)
		if err := f.SetColWidth(xlsxSheet, first, last, 18); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save: %w", err)
	}
	return nil
}
