package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/sadopc/timetable/internal/timetable"
)

type htmlCell struct {
	Empty bool
	Class string
	Span  int
	Entry timetable.Entry
}

type htmlRow struct {
	Day   string
	Cells []htmlCell
}

type htmlPage struct {
	Title    string
	Subtitle string
	Labels   []string
	Rows     []htmlRow
	Colors   []htmlColor
}

type htmlColor struct {
	Class template.CSS
	Hex   template.CSS
}

const tableTemplate = `{{define "table"}}<div class="timetable-header">{{.Title}}</div>
<div class="timetable-subheader">{{.Subtitle}}</div>
<table class="timetable">
<tr><th></th>{{range .Labels}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr><td class="day-column">{{.Day}}</td>
{{- range .Cells}}
{{- if .Empty}}<td></td>
{{- else}}<td class="subject-cell {{.Class}}" colspan="{{.Span}}">
{{- with .Entry.SubjectCode}}<div class="subject-code">{{.}}</div>{{end -}}
<div class="subject-name">{{.Entry.SubjectName}}</div>
{{- with .Entry.Lecturer}}<div class="lecturer">{{.}}</div>{{end}}
{{- with .Entry.Location}}<div class="location">{{.}}</div>{{end -}}
</td>
{{- end}}
{{- end}}</tr>
{{- end}}
</table>{{end}}

{{define "style"}}<style>
body { font-family: Arial, sans-serif; margin: 24px; background: #ffffff; }
.timetable-header { text-align: center; font-size: 20pt; font-weight: bold; }
.timetable-subheader { text-align: center; font-size: 13pt; margin-bottom: 12px; }
table.timetable { border-collapse: collapse; width: 100%; table-layout: fixed; }
.timetable th, .timetable td { border: 1px solid #444; padding: 4px; text-align: center; font-size: 9pt; vertical-align: middle; }
.timetable th { background: #eeeeee; }
.day-column { font-weight: bold; width: 48px; }
.subject-code { font-weight: bold; }
.lecturer, .location { font-size: 8pt; color: #333; }
{{range .Colors}}.{{.Class}} { background: {{.Hex}}; }
{{end}}</style>{{end}}

{{define "page"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{template "style" .}}
</head>
<body>
{{template "table" .}}
</body>
</html>
{{end}}`

var pageTmpl = template.Must(template.New("export").Parse(tableTemplate))

func newHTMLPage(doc Document) htmlPage {
	g := doc.Grid
	p := htmlPage{
		Title:    doc.Title,
		Subtitle: doc.Subtitle,
		Labels:   g.Axis.Labels(),
	}
	for c := 1; c <= timetable.PaletteSize; c++ {
		tok := timetable.ColorToken(c)
		p.Colors = append(p.Colors, htmlColor{Class: template.CSS(tok.Class()), Hex: template.CSS(Hex(tok))})
	}
	for r, day := range g.Days {
		row := htmlRow{Day: day.Abbr()}
		for _, c := range g.Rows[r] {
			switch c.Kind {
			case timetable.CellHead:
				row.Cells = append(row.Cells, htmlCell{Class: c.Color.Class(), Span: c.Span, Entry: c.Entry})
			case timetable.CellEmpty:
				row.Cells = append(row.Cells, htmlCell{Empty: true})
			}
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// RenderHTML writes doc as a standalone HTML page.
func RenderHTML(w io.Writer, doc Document) error {
	if err := pageTmpl.ExecuteTemplate(w, "page", newHTMLPage(doc)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func ToHTML(doc Document, path string) error {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write html file: %w", err)
	}
	return nil
}
