package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file the report run writes.
// This is the single source of truth for output locations.
type Paths struct {
	OutputDir   string
	BarChart    string
	PieChart    string
	Report      string
	SummaryCSV  string
	ClusterCSV  string
	Workbook    string
	TraceFile   string
	MetricsFile string
}

// NewPaths resolves the output files under outputDir. Relative telemetry
// files are placed under outputDir as well.
func NewPaths(outputDir string, telemetry TelemetryConfig) *Paths {
	return &Paths{
		OutputDir:   outputDir,
		BarChart:    filepath.Join(outputDir, BarChartFileName),
		PieChart:    filepath.Join(outputDir, PieChartFileName),
		Report:      filepath.Join(outputDir, ReportFileName),
		SummaryCSV:  filepath.Join(outputDir, SummaryCSVFileName),
		ClusterCSV:  filepath.Join(outputDir, ClusterCSVFileName),
		Workbook:    filepath.Join(outputDir, WorkbookFileName),
		TraceFile:   resolveUnder(outputDir, telemetry.TraceFile),
		MetricsFile: resolveUnder(outputDir, telemetry.MetricsFile),
	}
}

// EnsureDirectories creates the output directory if it does not exist
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", p.OutputDir, err)
	}
	return nil
}

// LogPathResolution logs the resolved output paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("output_paths_resolved",
		slog.String("output_dir", p.OutputDir),
		slog.String("bar_chart", p.BarChart),
		slog.String("pie_chart", p.PieChart),
		slog.String("report", p.Report))
}

func resolveUnder(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
