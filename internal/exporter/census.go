package exporter

import (
	"fmt"
	"log/slog"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/config"
)

// CensusExporter writes the summary and cluster tables as CSV files
type CensusExporter struct {
	writer *CSVWriter
	paths  *config.Paths
	logger *slog.Logger
}

// NewCensusExporter creates a CSV exporter rooted at paths.OutputDir
func NewCensusExporter(paths *config.Paths, logger *slog.Logger) *CensusExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CensusExporter{
		writer: NewCSVWriter(paths, logger),
		paths:  paths,
		logger: logger,
	}
}

// Export writes resumo_por_localizacao.csv and clusters.csv and returns their paths
func (e *CensusExporter) Export(tables Tables) ([]string, error) {
	files := []struct {
		name  string
		path  string
		table Table
	}{
		{config.SummaryCSVFileName, e.paths.SummaryCSV, tables.Summary},
		{config.ClusterCSVFileName, e.paths.ClusterCSV, tables.Clusters},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := e.writer.WriteSimpleCSV(f.name, f.table.Headers, f.table.StringRecords()); err != nil {
			return written, fmt.Errorf("failed to export %s: %w", f.name, err)
		}
		written = append(written, f.path)
	}

	e.logger.Info("csv_export_completed", slog.Int("files", len(written)))
	return written, nil
}
