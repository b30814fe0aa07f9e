package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/config"
)

// A4 in inches, as expected by Page.printToPDF
const (
	a4WidthIn  = 8.27
	a4HeightIn = 11.69
	marginIn   = 1.0
)

// ChromeRenderer prints the HTML rendition of a Document to PDF with
// headless Chrome. It needs a Chrome or Chromium binary on the host.
type ChromeRenderer struct {
	Timeout time.Duration
	// ExecPath overrides chromedp's browser lookup when set
	ExecPath string
	logger   *slog.Logger
}

// NewChromeRenderer creates a ChromeRenderer; a zero timeout means no limit
func NewChromeRenderer(timeout time.Duration, logger *slog.Logger) *ChromeRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromeRenderer{Timeout: timeout, logger: logger}
}

// Render implements Renderer
func (r *ChromeRenderer) Render(ctx context.Context, doc *Document, path string) error {
	html, err := RenderHTML(doc)
	if err != nil {
		return err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", true))
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if r.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, r.Timeout)
		defer cancelTimeout()
	}

	start := time.Now()
	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthIn).
				WithPaperHeight(a4HeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("print to pdf: %w", err)
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("chrome report rendering failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}

	r.logger.Info("report_rendered",
		slog.String("engine", config.EngineChrome),
		slog.String("path", path),
		slog.Int("bytes", len(pdf)),
		slog.Duration("duration", time.Since(start)))
	return nil
}
