// Package report assembles the census analysis into an A4 PDF.
//
// A Document holds everything the report shows. Renderers turn it into a
// file: FPDFRenderer draws the pages directly, ChromeRenderer prints the
// HTML rendition through headless Chrome.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/config"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

// Fixed report text
const (
	Title = "Relatório de Análise do Censo Escolar"
	Intro = "Este relatório foi gerado automaticamente a partir dos dados do Censo Escolar. " +
		"Ele apresenta uma análise das matrículas por nível de ensino e localização (Urbana/Rural), " +
		"além de agrupar regiões com perfis de matrícula semelhantes usando Machine Learning (K-Means)."

	LocaleHeading = "1. Média de Matrículas por Localização"
	LocaleCaption = "Este gráfico compara a média de matrículas em diferentes níveis de ensino nas áreas urbanas e rurais."

	ClusterHeading = "2. Agrupamento de Regiões por Perfil de Matrícula"
	ClusterCaption = "A análise de clustering (K-Means) agrupa as regiões em perfis distintos. " +
		"O gráfico de pizza abaixo mostra a porcentagem de regiões em cada um dos três clusters identificados."

	MetricsHeading = "3. Principais Métricas"
)

// Image sizes in points
const (
	BarImageWidth  = 450
	BarImageHeight = 300
	PieImageWidth  = 400
	PieImageHeight = 400
)

// Document is the content of one report
type Document struct {
	Summaries    []domain.LocaleSummary
	Cluster      domain.ClusterOutcome
	BarChartPath string
	// PieChartPath is empty when no pie chart was rendered
	PieChartPath string
}

// NewDocument builds a Document from the finished analysis
func NewDocument(summaries []domain.LocaleSummary, outcome domain.ClusterOutcome, barChart, pieChart string) *Document {
	return &Document{
		Summaries:    summaries,
		Cluster:      outcome,
		BarChartPath: barChart,
		PieChartPath: pieChart,
	}
}

// ShowsPieChart reports whether section 2 shows the pie chart or the notice
func (d *Document) ShowsPieChart() bool {
	return d.Cluster.Succeeded() && d.PieChartPath != ""
}

// ClusterNotice is the paragraph shown instead of the pie chart
func (d *Document) ClusterNotice() string {
	reason := d.Cluster.Reason
	if reason == "" {
		reason = "gráfico de distribuição indisponível"
	}
	return fmt.Sprintf("Não foi possível agrupar as regiões por perfil de matrícula: %s.", reason)
}

// Metrics returns the transposed summary table
func (d *Document) Metrics() MetricsTable {
	return BuildMetricsTable(d.Summaries)
}

// Renderer writes a Document to path
type Renderer interface {
	Render(ctx context.Context, doc *Document, path string) error
}

// NewRenderer returns the renderer selected by cfg.Engine
func NewRenderer(cfg config.ReportConfig, logger *slog.Logger) (Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Engine {
	case "", config.EngineFPDF:
		return NewFPDFRenderer(logger), nil
	case config.EngineChrome:
		return NewChromeRenderer(cfg.ChromeTimeout.Std(), logger), nil
	default:
		return nil, fmt.Errorf("unknown report engine %q", cfg.Engine)
	}
}
