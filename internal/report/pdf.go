package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/config"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts"
)

const (
	pageMargin   = 72.0
	fontFamily   = "Helvetica"
	bodyFontSize = 10.0
	bodyLineH    = 14.0
	spacer       = 12.0
	headerCellH  = 24.0
	bodyCellH    = 18.0
	gridWidth    = 0.5
)

type rgb struct{ r, g, b int }

var (
	headerFill = rgb{128, 128, 128}
	headerText = rgb{245, 245, 245}
	bodyFill   = rgb{245, 245, 220}
	gridColor  = rgb{0, 0, 0}
	bodyText   = rgb{0, 0, 0}
)

// FPDFRenderer draws the report with github.com/go-pdf/fpdf on A4
// pages with one-inch margins.
type FPDFRenderer struct {
	logger *slog.Logger
	// uncompressed keeps page streams readable, used by tests
	uncompressed bool
}

// NewFPDFRenderer creates the default renderer
func NewFPDFRenderer(logger *slog.Logger) *FPDFRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FPDFRenderer{logger: logger}
}

// Render implements Renderer
func (r *FPDFRenderer) Render(ctx context.Context, doc *Document, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCompression(!r.uncompressed)
	pdf.SetTitle(Title, true)
	pdf.SetCreator(fmt.Sprintf("censo-report %s", contracts.Version), true)
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	w.title(Title)
	w.paragraph(Intro)

	w.heading(LocaleHeading)
	w.paragraph(LocaleCaption)
	if doc.BarChartPath != "" {
		w.image(doc.BarChartPath, BarImageWidth, BarImageHeight)
	}

	w.heading(ClusterHeading)
	if doc.ShowsPieChart() {
		w.paragraph(ClusterCaption)
		w.image(doc.PieChartPath, PieImageWidth, PieImageHeight)
	} else {
		w.paragraph(doc.ClusterNotice())
	}

	w.heading(MetricsHeading)
	w.table(doc.Metrics())

	if pdf.Err() {
		return fmt.Errorf("failed to build pdf: %w", pdf.Error())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}

	r.logger.Info("report_rendered",
		slog.String("engine", config.EngineFPDF),
		slog.String("path", path),
		slog.Int("pages", pdf.PageCount()))
	return nil
}

// pdfWriter lays out report blocks top to bottom
type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *pdfWriter) title(text string) {
	w.pdf.SetFont(fontFamily, "B", 18)
	w.pdf.MultiCell(0, 24, w.tr(text), "", "C", false)
	w.pdf.Ln(spacer)
}

func (w *pdfWriter) heading(text string) {
	w.pdf.SetFont(fontFamily, "B", 14)
	w.pdf.MultiCell(0, 20, w.tr(text), "", "L", false)
	w.pdf.Ln(4)
}

func (w *pdfWriter) paragraph(text string) {
	w.pdf.SetFont(fontFamily, "", bodyFontSize)
	w.pdf.SetTextColor(bodyText.r, bodyText.g, bodyText.b)
	w.pdf.MultiCell(0, bodyLineH, w.tr(text), "", "L", false)
	w.pdf.Ln(spacer)
}

// image places a PNG centered at the current position and advances below it
func (w *pdfWriter) image(path string, width, height float64) {
	pageW, _ := w.pdf.GetPageSize()
	x := (pageW - width) / 2
	w.pdf.ImageOptions(path, x, 0, width, height, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	w.pdf.Ln(spacer)
}

func (w *pdfWriter) table(t MetricsTable) {
	pageW, _ := w.pdf.GetPageSize()
	colW := (pageW - 2*pageMargin) / float64(len(t.Header))

	w.pdf.SetDrawColor(gridColor.r, gridColor.g, gridColor.b)
	w.pdf.SetLineWidth(gridWidth)

	w.pdf.SetFont(fontFamily, "B", bodyFontSize)
	w.pdf.SetFillColor(headerFill.r, headerFill.g, headerFill.b)
	w.pdf.SetTextColor(headerText.r, headerText.g, headerText.b)
	for _, cell := range t.Header {
		w.pdf.CellFormat(colW, headerCellH, w.tr(cell), "1", 0, "C", true, 0, "")
	}
	w.pdf.Ln(-1)

	w.pdf.SetFont(fontFamily, "", bodyFontSize)
	w.pdf.SetFillColor(bodyFill.r, bodyFill.g, bodyFill.b)
	w.pdf.SetTextColor(bodyText.r, bodyText.g, bodyText.b)
	for _, row := range t.Rows {
		for _, cell := range row {
			w.pdf.CellFormat(colW, bodyCellH, w.tr(cell), "1", 0, "C", true, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.Ln(spacer)
}
