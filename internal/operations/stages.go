package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/charts"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/clustering"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/dataprocessing"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/exporter"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/infrastructure"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/report"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/validation"
)

// Artifact kinds recorded by the artifacts metric
const (
	artifactBarChart = "bar_chart"
	artifactPieChart = "pie_chart"
	artifactReport   = "report"
	artifactCSV      = "csv"
	artifactWorkbook = "xlsx"
)

// stageLogger scopes logger to a step
func stageLogger(logger *slog.Logger, stageID string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("step", stageID))
}

// LoadStage reads and cleans the census CSV
type LoadStage struct {
	BaseStage
	validator *validation.FileValidator
	logger    *slog.Logger
	metrics   *infrastructure.BusinessMetrics
}

// NewLoadStage creates the load step
func NewLoadStage(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *LoadStage {
	logger = stageLogger(logger, StageIDLoad)
	return &LoadStage{
		BaseStage: NewBaseStage(StageIDLoad, StageNameLoad, nil),
		validator: validation.NewFileValidator(logger),
		logger:    logger,
		metrics:   metrics,
	}
}

// Validate requires a readable, non-empty input file
func (s *LoadStage) Validate(state *OperationState) error {
	if state.Config == nil || state.Config.Input.Path == "" {
		return NewValidationError(s.ID(), "input path is required")
	}
	if err := s.validator.ValidateCensusInput(state.Config.Input.Path); err != nil {
		return &OperationError{Type: ErrorTypeValidation, Step: s.ID(), Message: "invalid input", Cause: err}
	}
	return nil
}

// Execute loads the table named by the input configuration and prepares
// the output directory
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	stepState := state.GetStage(s.ID())
	in := state.Config.Input

	if err := state.Paths.EnsureDirectories(); err != nil {
		return err
	}
	if err := s.validator.ValidateOutputDirectory(state.Paths.OutputDir); err != nil {
		return err
	}
	state.Paths.LogPathResolution(s.logger)

	result, err := dataprocessing.LoadFile(in.Path, dataprocessing.LoadOptionsFromConfig(in), s.logger)
	if err != nil {
		return err
	}

	stats := result.Stats
	stepState.SetMetadata(MetadataRowsRead, stats.RowsRead)
	stepState.SetMetadata(MetadataRowsKept, stats.RowsKept)
	stepState.SetMetadata(MetadataAggregateDropped, stats.AggregateDropped)
	stepState.SetMetadata(MetadataBlankDropped, stats.BlankDropped)
	stepState.SetMetadata(MetadataInvalidDropped, stats.InvalidDropped)

	s.metrics.RecordRows(ctx, "kept", stats.RowsKept)
	s.metrics.RecordRows(ctx, "aggregate", stats.AggregateDropped)
	s.metrics.RecordRows(ctx, "blank_locale", stats.BlankDropped)
	s.metrics.RecordRows(ctx, "unparseable", stats.InvalidDropped)

	state.UpdateArtifacts(func(a *Artifacts) { a.Load = result })
	return nil
}

// AggregateStage computes level totals and proportions
type AggregateStage struct {
	BaseStage
	logger *slog.Logger
}

// NewAggregateStage creates the aggregate step
func NewAggregateStage(logger *slog.Logger) *AggregateStage {
	return &AggregateStage{
		BaseStage: NewBaseStage(StageIDAggregate, StageNameAggregate, []string{StageIDLoad}),
		logger:    stageLogger(logger, StageIDAggregate),
	}
}

// Validate requires a loaded table
func (s *AggregateStage) Validate(state *OperationState) error {
	if state.Artifacts().Load == nil {
		return NewValidationError(s.ID(), "no census table loaded")
	}
	return nil
}

// Execute aggregates every loaded record
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	analyzed := dataprocessing.Aggregate(state.Artifacts().Load.Records)

	undefined := 0
	for _, rec := range analyzed {
		if !rec.ProportionsDefined {
			undefined++
		}
	}
	if undefined > 0 {
		s.logger.WarnContext(ctx, "zero_total_rows",
			slog.Int("rows", undefined))
	}
	state.GetStage(s.ID()).SetMetadata(MetadataUndefinedRows, undefined)

	state.UpdateArtifacts(func(a *Artifacts) { a.Analyzed = analyzed })
	return nil
}

// ClusterStage clusters locales by enrollment profile. A clustering
// failure is recorded in the outcome and does not fail the step.
type ClusterStage struct {
	BaseStage
	clusterer clustering.Clusterer
	logger    *slog.Logger
	metrics   *infrastructure.BusinessMetrics
}

// NewClusterStage creates the cluster step; a nil clusterer uses k-means
func NewClusterStage(clusterer clustering.Clusterer, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *ClusterStage {
	if clusterer == nil {
		clusterer = clustering.NewKMeans()
	}
	return &ClusterStage{
		BaseStage: NewBaseStage(StageIDCluster, StageNameCluster, []string{StageIDAggregate}),
		clusterer: clusterer,
		logger:    stageLogger(logger, StageIDCluster),
		metrics:   metrics,
	}
}

// Execute runs the clusterer over the analyzed records
func (s *ClusterStage) Execute(ctx context.Context, state *OperationState) error {
	stepState := state.GetStage(s.ID())

	outcome := clustering.ClusterByProfile(state.Artifacts().Analyzed, s.clusterer, s.logger)

	stepState.SetMetadata(MetadataClusterStatus, string(outcome.Status))
	stepState.SetMetadata(MetadataCandidates, len(outcome.Candidates))
	if !outcome.Succeeded() {
		stepState.SetMetadata(MetadataClusterReason, outcome.Reason)
		infrastructure.AddSpanEvent(ctx, "clustering.failed")
	}
	s.metrics.RecordClustering(ctx, string(outcome.Status))

	state.UpdateArtifacts(func(a *Artifacts) { a.Cluster = &outcome })
	return nil
}

// GroupStage computes the Urbana and Rural means
type GroupStage struct {
	BaseStage
	logger *slog.Logger
}

// NewGroupStage creates the group step
func NewGroupStage(logger *slog.Logger) *GroupStage {
	return &GroupStage{
		BaseStage: NewBaseStage(StageIDGroup, StageNameGroup, []string{StageIDAggregate}),
		logger:    stageLogger(logger, StageIDGroup),
	}
}

// Execute groups the analyzed records by locale type
func (s *GroupStage) Execute(ctx context.Context, state *OperationState) error {
	summaries := dataprocessing.GroupByLocale(state.Artifacts().Analyzed)

	groups := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		groups = append(groups, summary.Locale.String())
	}
	state.GetStage(s.ID()).SetMetadata(MetadataGroups, groups)
	s.logger.InfoContext(ctx, "locale_groups_computed", slog.Any("groups", groups))

	state.UpdateArtifacts(func(a *Artifacts) { a.Summaries = summaries })
	return nil
}

// ChartsStage renders the locale bar chart and, when clustering
// succeeded, the cluster pie chart
type ChartsStage struct {
	BaseStage
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// NewChartsStage creates the charts step
func NewChartsStage(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *ChartsStage {
	return &ChartsStage{
		BaseStage: NewBaseStage(StageIDCharts, StageNameCharts, []string{StageIDGroup, StageIDCluster}),
		logger:    stageLogger(logger, StageIDCharts),
		metrics:   metrics,
	}
}

// Validate requires a clustering outcome
func (s *ChartsStage) Validate(state *OperationState) error {
	if state.Artifacts().Cluster == nil {
		return NewValidationError(s.ID(), "no clustering outcome")
	}
	return nil
}

// Execute writes the chart images under the output directory
func (s *ChartsStage) Execute(ctx context.Context, state *OperationState) error {
	stepState := state.GetStage(s.ID())
	artifacts := state.Artifacts()
	paths := state.Paths

	barPath := paths.BarChart
	err := charts.RenderLocaleBarChart(artifacts.Summaries, barPath)
	switch {
	case errors.Is(err, charts.ErrNoData):
		// nothing classified as Urbana or Rural
		s.logger.WarnContext(ctx, "bar_chart_skipped", slog.String("reason", err.Error()))
		removeStale(barPath)
		barPath = ""
	case err != nil:
		return err
	default:
		stepState.SetMetadata(MetadataBarChart, barPath)
		s.metrics.RecordArtifact(ctx, artifactBarChart)
	}

	piePath, reason := "", ""
	outcome := *artifacts.Cluster
	if outcome.Succeeded() {
		shares, err := outcome.Distribution()
		if err != nil {
			return err
		}
		err = charts.RenderClusterPieChart(shares, paths.PieChart)
		switch {
		case errors.Is(err, charts.ErrNoData):
			reason = err.Error()
		case err != nil:
			return err
		default:
			piePath = paths.PieChart
			stepState.SetMetadata(MetadataPieChart, piePath)
			s.metrics.RecordArtifact(ctx, artifactPieChart)
		}
	} else {
		reason = outcome.Reason
	}
	if piePath == "" {
		stepState.SetMetadata(MetadataPieSkipped, reason)
		s.logger.InfoContext(ctx, "pie_chart_skipped", slog.String("reason", reason))
		removeStale(paths.PieChart)
	}

	state.UpdateArtifacts(func(a *Artifacts) {
		a.BarChartPath = barPath
		a.PieChartPath = piePath
	})
	return nil
}

// removeStale deletes a chart left by an earlier run
func removeStale(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Debug("stale_chart_not_removed", slog.String("path", path), slog.String("error", err.Error()))
	}
}

// ReportStage renders the PDF report
type ReportStage struct {
	BaseStage
	renderer report.Renderer
	logger   *slog.Logger
	metrics  *infrastructure.BusinessMetrics
}

// NewReportStage creates the report step
func NewReportStage(renderer report.Renderer, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *ReportStage {
	return &ReportStage{
		BaseStage: NewBaseStage(StageIDReport, StageNameReport, []string{StageIDCharts}),
		renderer:  renderer,
		logger:    stageLogger(logger, StageIDReport),
		metrics:   metrics,
	}
}

// Validate requires a renderer and a clustering outcome
func (s *ReportStage) Validate(state *OperationState) error {
	if s.renderer == nil {
		return NewValidationError(s.ID(), "no report renderer configured")
	}
	if state.Artifacts().Cluster == nil {
		return NewValidationError(s.ID(), "no clustering outcome")
	}
	return nil
}

// Execute renders the report document to the configured path
func (s *ReportStage) Execute(ctx context.Context, state *OperationState) error {
	artifacts := state.Artifacts()
	doc := report.NewDocument(artifacts.Summaries, *artifacts.Cluster, artifacts.BarChartPath, artifacts.PieChartPath)

	path := state.Paths.Report
	if err := s.renderer.Render(ctx, doc, path); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	stepState := state.GetStage(s.ID())
	stepState.SetMetadata(MetadataReport, path)
	stepState.SetMetadata(MetadataEngine, state.Config.Report.Engine)
	s.metrics.RecordArtifact(ctx, artifactReport)

	state.UpdateArtifacts(func(a *Artifacts) { a.ReportPath = path })
	return nil
}

// ExportStage writes the CSV files and the workbook enabled in the output
// configuration
type ExportStage struct {
	BaseStage
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// NewExportStage creates the export step
func NewExportStage(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *ExportStage {
	return &ExportStage{
		BaseStage: NewBaseStage(StageIDExport, StageNameExport, []string{StageIDGroup, StageIDCluster}),
		logger:    stageLogger(logger, StageIDExport),
		metrics:   metrics,
	}
}

// Validate requires a clustering outcome
func (s *ExportStage) Validate(state *OperationState) error {
	if state.Artifacts().Cluster == nil {
		return NewValidationError(s.ID(), "no clustering outcome")
	}
	return nil
}

// Execute writes the enabled exports
func (s *ExportStage) Execute(ctx context.Context, state *OperationState) error {
	out := state.Config.Output
	artifacts := state.Artifacts()
	tables := exporter.BuildTables(artifacts.Analyzed, artifacts.Summaries, *artifacts.Cluster)

	var files []string
	if out.ExportCSV {
		written, err := exporter.NewCensusExporter(state.Paths, s.logger).Export(tables)
		if err != nil {
			return err
		}
		for range written {
			s.metrics.RecordArtifact(ctx, artifactCSV)
		}
		files = append(files, written...)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if out.ExportXLSX {
		if err := exporter.NewWorkbookExporter(state.Paths, s.logger).Export(tables); err != nil {
			return err
		}
		s.metrics.RecordArtifact(ctx, artifactWorkbook)
		files = append(files, state.Paths.Workbook)
	}

	if len(files) == 0 {
		s.logger.InfoContext(ctx, "exports_disabled")
	}
	state.GetStage(s.ID()).SetMetadata(MetadataFiles, files)
	state.UpdateArtifacts(func(a *Artifacts) { a.ExportedFiles = files })
	return nil
}
