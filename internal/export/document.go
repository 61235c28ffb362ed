package export

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/timetable/internal/timetable"
)

// Document is a laid-out timetable ready to be written by an exporter.
type Document struct {
	Title    string
	Subtitle string
	Grid     timetable.Grid
}

// Format names an export backend.
type Format string

const (
	FormatHTML Format = "html"
	FormatWord Format = "doc"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatICS  Format = "ics"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Formats lists every backend in menu order.
var Formats = []Format{FormatHTML, FormatWord, FormatPNG, FormatPDF, FormatXLSX, FormatICS, FormatCSV, FormatJSON}

func (f Format) Label() string {
	switch f {
	case FormatHTML:
		return "HTML page"
	case FormatWord:
		return "Word document"
	case FormatPNG:
		return "PNG image"
	case FormatPDF:
		return "PDF (landscape)"
	case FormatXLSX:
		return "Excel workbook"
	case FormatICS:
		return "Calendar (.ics)"
	case FormatCSV:
		return "CSV grid"
	case FormatJSON:
		return "JSON backup"
	}
	return string(f)
}

// FileName is the default output name for f, e.g. timetable-2026-10-19.pdf.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("timetable-%s.%s", now.Format("2006-01-02"), f)
}

// PathFor joins dir and the default file name for f.
func PathFor(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, FileName(f, now))
}

// cellLines is the text of a head cell, one line per present field.
func cellLines(e timetable.Entry) []string {
	var lines []string
	for _, s := range []string{e.SubjectCode, e.SubjectName, e.Lecturer, e.Location} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func cellText(e timetable.Entry) string {
	return strings.Join(cellLines(e), "\n")
}

// palette holds the fill color of each subject color token, index 0 unused.
var palette = [timetable.PaletteSize + 1]string{
	"#FFFFFF",
	"#FFD6D6", // 1 rose
	"#D6E9FF", // 2 sky
	"#D9F5D6", // 3 mint
	"#FFF3C4", // 4 butter
	"#EAD9FF", // 5 lavender
	"#FFE2C7", // 6 peach
	"#CFF4F0", // 7 aqua
	"#F2D9EC", // 8 orchid
}

// Hex returns the fill color of token c in #RRGGBB form.
func Hex(c timetable.ColorToken) string {
	if c < 1 || int(c) > timetable.PaletteSize {
		return palette[0]
	}
	return palette[c]
}

// paletteRGBA mirrors palette for raster output.
var paletteRGBA = [timetable.PaletteSize + 1]color.RGBA{
	{0xFF, 0xFF, 0xFF, 0xFF},
	{0xFF, 0xD6, 0xD6, 0xFF},
	{0xD6, 0xE9, 0xFF, 0xFF},
	{0xD9, 0xF5, 0xD6, 0xFF},
	{0xFF, 0xF3, 0xC4, 0xFF},
	{0xEA, 0xD9, 0xFF, 0xFF},
	{0xFF, 0xE2, 0xC7, 0xFF},
	{0xCF, 0xF4, 0xF0, 0xFF},
	{0xF2, 0xD9, 0xEC, 0xFF},
}

func rgba(c timetable.ColorToken) color.RGBA {
	if c < 1 || int(c) > timetable.PaletteSize {
		return paletteRGBA[0]
	}
	return paletteRGBA[c]
}
