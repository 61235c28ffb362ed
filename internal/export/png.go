package export

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/sadopc/timetable/internal/timetable"
)

// Layout of the rendered image in logical pixels; the canvas is drawn at pngScale.
const (
	pngScale      = 2.0
	pngMargin     = 16.0
	pngTitleH     = 28.0
	pngSubtitleH  = 20.0
	pngHeaderH    = 26.0
	pngDayColW    = 44.0
	pngSlotW      = 104.0
	pngRowH       = 72.0
	pngCellPad    = 4.0
	pngLineHeight = 13.0
)

var (
	pngBgColor     = color.White
	pngTextColor   = color.RGBA{30, 30, 30, 255}
	pngMutedColor  = color.RGBA{90, 90, 90, 255}
	pngGridColor   = color.RGBA{68, 68, 68, 255}
	pngHeaderColor = color.RGBA{238, 238, 238, 255}
)

// pngSize returns the canvas size in device pixels for a grid with n slots.
func pngSize(n, rows int) (int, int) {
	w := pngMargin*2 + pngDayColW + float64(n)*pngSlotW
	h := pngMargin*2 + pngTitleH + pngSubtitleH + pngHeaderH + float64(rows)*pngRowH
	return int(w * pngScale), int(h * pngScale)
}

// RenderPNG draws doc onto a white canvas at twice the logical size.
func RenderPNG(w io.Writer, doc Document) error {
	g := doc.Grid
	n := g.SlotCount()
	width, height := pngSize(n, len(g.Days))

	dc := gg.NewContext(width, height)
	dc.SetColor(pngBgColor)
	dc.Clear()
	dc.Scale(pngScale, pngScale)
	dc.SetFontFace(basicfont.Face7x13)

	logicalW := float64(width) / pngScale
	y := pngMargin

	dc.SetColor(pngTextColor)
	dc.DrawStringAnchored(doc.Title, logicalW/2, y+pngTitleH/2, 0.5, 0.5)
	y += pngTitleH
	dc.SetColor(pngMutedColor)
	dc.DrawStringAnchored(doc.Subtitle, logicalW/2, y+pngSubtitleH/2, 0.5, 0.5)
	y += pngSubtitleH

	x0 := pngMargin
	tableW := pngDayColW + float64(n)*pngSlotW

	dc.SetColor(pngHeaderColor)
	dc.DrawRectangle(x0, y, tableW, pngHeaderH)
	dc.Fill()
	dc.SetColor(pngTextColor)
	for i, label := range g.Axis.Labels() {
		cx := x0 + pngDayColW + float64(i)*pngSlotW + pngSlotW/2
		dc.DrawStringAnchored(label, cx, y+pngHeaderH/2, 0.5, 0.5)
	}
	strokeRect(dc, x0, y, pngDayColW, pngHeaderH)
	for i := 0; i < n; i++ {
		strokeRect(dc, x0+pngDayColW+float64(i)*pngSlotW, y, pngSlotW, pngHeaderH)
	}
	y += pngHeaderH

	for r, day := range g.Days {
		dc.SetColor(pngTextColor)
		dc.DrawStringAnchored(day.Abbr(), x0+pngDayColW/2, y+pngRowH/2, 0.5, 0.5)
		strokeRect(dc, x0, y, pngDayColW, pngRowH)

		for i, c := range g.Rows[r] {
			cx := x0 + pngDayColW + float64(i)*pngSlotW
			switch c.Kind {
			case timetable.CellEmpty:
				strokeRect(dc, cx, y, pngSlotW, pngRowH)
			case timetable.CellHead:
				cw := float64(c.Span) * pngSlotW
				dc.SetColor(rgba(c.Color))
				dc.DrawRectangle(cx, y, cw, pngRowH)
				dc.Fill()
				drawCellText(dc, c.Entry, cx, y, cw)
				strokeRect(dc, cx, y, cw, pngRowH)
			}
		}
		y += pngRowH
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func strokeRect(dc *gg.Context, x, y, w, h float64) {
	dc.SetColor(pngGridColor)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()
}

func drawCellText(dc *gg.Context, e timetable.Entry, x, y, w float64) {
	var lines []string
	for _, l := range cellLines(e) {
		lines = append(lines, dc.WordWrap(l, w-2*pngCellPad)...)
	}
	maxLines := int((pngRowH - 2*pngCellPad) / pngLineHeight)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	top := y + pngRowH/2 - float64(len(lines))*pngLineHeight/2
	dc.SetColor(pngTextColor)
	for i, l := range lines {
		dc.DrawStringAnchored(l, x+w/2, top+float64(i)*pngLineHeight+pngLineHeight/2, 0.5, 0.5)
	}
}

func encodePNG(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderPNG(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ToPNG(doc Document, path string) error {
	data, err := encodePNG(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write png file: %w", err)
	}
	return nil
}
