package operations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/clustering"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/config"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/infrastructure"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/report"
)

// Dependencies are the collaborators of the census operation. Zero
// fields fall back to the defaults: slog.Default, k-means, the renderer
// selected by the report configuration and no telemetry.
type Dependencies struct {
	Logger    *slog.Logger
	Clusterer clustering.Clusterer
	Renderer  report.Renderer
	Telemetry *infrastructure.OTelProviders
	// Operation overrides the runner configuration
	Operation *Config
}

// NewCensusOperation builds a Manager with the seven census steps registered
func NewCensusOperation(cfg *config.Config, deps Dependencies) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("census operation requires a configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "operations")

	tracer, err := NewOperationTracer(deps.Telemetry)
	if err != nil {
		return nil, err
	}
	metrics := tracer.Metrics()

	renderer := deps.Renderer
	if renderer == nil {
		if renderer, err = report.NewRenderer(cfg.Report, logger); err != nil {
			return nil, err
		}
	}

	opConfig := deps.Operation
	if opConfig == nil {
		opConfig = NewConfig()
		if timeout := cfg.Report.ChromeTimeout.Std(); timeout > DefaultStageTimeout {
			opConfig.SetStageTimeout(StageIDReport, 2*timeout)
		}
	}

	manager := NewManager(cfg, NewRegistry(), opConfig)
	manager.SetLogger(logger)
	manager.SetTracer(tracer)

	steps := []Step{
		NewLoadStage(logger, metrics),
		NewAggregateStage(logger),
		NewClusterStage(deps.Clusterer, logger, metrics),
		NewGroupStage(logger),
		NewChartsStage(logger, metrics),
		NewReportStage(renderer, logger, metrics),
		NewExportStage(logger, metrics),
	}
	for _, step := range steps {
		if err := manager.RegisterStage(step); err != nil {
			return nil, fmt.Errorf("failed to register step %s: %w", step.ID(), err)
		}
	}

	return manager, nil
}

// Run executes the full census operation for cfg with default dependencies
func Run(ctx context.Context, cfg *config.Config) (*OperationResponse, error) {
	manager, err := NewCensusOperation(cfg, Dependencies{})
	if err != nil {
		return nil, err
	}
	return manager.Execute(ctx, OperationRequest{})
}
