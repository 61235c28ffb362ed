package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const DefaultPDFTimeout = 30 * time.Second

// PDFOptions configures the headless browser used for printing.
type PDFOptions struct {
	// ChromePath overrides browser discovery. Empty uses chromedp's lookup.
	ChromePath string
	Timeout    time.Duration
}

var errEmptyPDF = errors.New("pdf: browser returned no data")

// ToPDF renders doc to HTML, loads it in headless Chromium and prints it
// landscape with backgrounds so subject colors survive.
func ToPDF(ctx context.Context, doc Document, path string, opts PDFOptions) error {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPDFTimeout
	}

	dir, err := os.MkdirTemp("", "timetable-pdf-")
	if err != nil {
		return fmt.Errorf("pdf: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "timetable.html")
	if err := ToHTML(doc, src); err != nil {
		return err
	}

	allocOpts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	bctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	bctx, timeoutCancel := context.WithTimeout(bctx, opts.Timeout)
	defer timeoutCancel()

	var pdf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate("file://" + filepath.ToSlash(src)),
		chromedp.WaitVisible(`table.timetable`, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithLandscape(true).
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	}
	if err := chromedp.Run(bctx, tasks); err != nil {
		return fmt.Errorf("pdf: chromedp run failed: %w", err)
	}
	if len(pdf) == 0 {
		return errEmptyPDF
	}

	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("pdf: write file: %w", err)
	}
	return nil
}
