package export

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timetable/internal/timetable"
)

// Job carries everything any backend may need for one export.
type Job struct {
	Doc     Document
	Entries []timetable.Entry
	Dir     string
	Now     time.Time
	PDF     PDFOptions
}

// Run writes the job in format f to the export directory and returns the path.
func Run(ctx context.Context, f Format, job Job) (string, error) {
	if job.Now.IsZero() {
		job.Now = time.Now()
	}
	if err := os.MkdirAll(job.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := PathFor(job.Dir, f, job.Now)

	var err error
	switch f {
	case FormatHTML:
		err = ToHTML(job.Doc, path)
	case FormatWord:
		err = ToWord(job.Doc, path)
	case FormatPNG:
		err = ToPNG(job.Doc, path)
	case FormatPDF:
		err = ToPDF(ctx, job.Doc, path, job.PDF)
	case FormatXLSX:
		err = ToXLSX(job.Doc, path)
	case FormatICS:
		meta := CalendarMeta{Name: job.Doc.Title, Description: job.Doc.Subtitle}
		err = ToICS(timetable.Project(job.Entries, job.Now), meta, path)
	case FormatCSV:
		err = ToCSV(job.Doc, path)
	case FormatJSON:
		err = ToJSON(job.Entries, path)
	default:
		return "", fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
