package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
)

// Word opens HTML saved with a .doc extension; the mso blocks switch it to
// print view with a portrait page.
const wordTemplate = `<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:w="urn:schemas-microsoft-com:office:word" xmlns="http://www.w3.org/TR/REC-html40">
<head>
<meta http-equiv="Content-Type" content="application/msword; charset=utf-8">
<title>{{.Title}}</title>
<style>
@page Section1 { size: 8.5in 11.0in; margin: 0.75in; mso-page-orientation: portrait; }
div.Section1 { page: Section1; }
body { font-family: Arial, sans-serif; margin: 0; padding: 0; }
h1, h2 { text-align: center; margin: 12pt 0; }
h1 { font-size: 18pt; }
h2 { font-size: 14pt; font-weight: normal; }
.container { width: 100%; text-align: center; }
.timetable-image { max-width: 100%; height: auto; margin: 15pt auto; display: block; page-break-inside: avoid; }
.footer { text-align: center; margin-top: 15pt; color: #666; font-size: 9pt; }
</style>
{{.PrintView}}
</head>
<body>
<div class="Section1">
<h1>{{.Title}}</h1>
<h2>{{.Subtitle}}</h2>
<div class="container">
<img src="{{.Image}}" class="timetable-image" alt="Timetable">
</div>
<div class="footer">Generated with Timetable</div>
</div>
</body>
</html>
`

// html/template drops comments from template text, so the conditional
// block is passed in as data.
const wordPrintView = template.HTML(`<!--[if gte mso 9]>
<xml>
<w:WordDocument>
<w:View>Print</w:View>
<w:Zoom>100</w:Zoom>
<w:DoNotOptimizeForBrowser/>
</w:WordDocument>
</xml>
<![endif]-->`)

var wordTmpl = template.Must(template.New("word").Parse(wordTemplate))

// RenderWord writes doc as a Word-compatible HTML document with the
// timetable embedded as a PNG image.
func RenderWord(w io.Writer, doc Document) error {
	img, err := encodePNG(doc)
	if err != nil {
		return err
	}
	data := struct {
		Title     string
		Subtitle  string
		Image     template.URL
		PrintView template.HTML
	}{
		Title:     doc.Title,
		Subtitle:  doc.Subtitle,
		Image:     template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(img)),
		PrintView: wordPrintView,
	}
	if err := wordTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render word: %w", err)
	}
	return nil
}

func ToWord(doc Document, path string) error {
	var buf bytes.Buffer
	if err := RenderWord(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write word file: %w", err)
	}
	return nil
}
