package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts"
)

const (
	// ServiceName identifies the pipeline in exported telemetry
	ServiceName = "censo-report"
	// InstrumentationName is the tracer and meter scope
	InstrumentationName = "github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar"
)

// OTelConfig holds configuration for OpenTelemetry setup
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	EnableTracing  bool
	EnableMetrics  bool
	TraceFile      string
	MetricsFile    string
	// TraceWriter overrides TraceFile when set
	TraceWriter io.Writer
}

// DefaultOTelConfig returns default OpenTelemetry configuration with everything disabled
func DefaultOTelConfig() *OTelConfig {
	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: contracts.Version,
	}
}

// OTelProviders holds the initialized OpenTelemetry providers.
// Tracer and Meter are no-ops when the matching signal is disabled.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	Logger         *slog.Logger

	metricsFile string
	traceFile   *os.File
}

// InitializeOTel sets up tracing and metrics providers
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = GetLogger()
	}

	providers := &OTelProviders{
		Tracer:      tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		Meter:       metricnoop.NewMeterProvider().Meter(InstrumentationName),
		Logger:      logger,
		metricsFile: cfg.MetricsFile,
	}

	if !cfg.EnableTracing && !cfg.EnableMetrics {
		return providers, nil
	}

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.EnableTracing {
		if err := providers.initializeTracing(cfg, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		logger.Info("otel_tracing_initialized",
			slog.String("service", cfg.ServiceName),
			slog.String("trace_file", cfg.TraceFile))
	}

	if cfg.EnableMetrics {
		if err := providers.initializeMetrics(res); err != nil {
			_ = providers.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		logger.Info("otel_metrics_initialized",
			slog.String("service", cfg.ServiceName),
			slog.String("metrics_file", cfg.MetricsFile))
	}

	return providers, nil
}

// createResource creates an OpenTelemetry resource with service information
func createResource(cfg *OTelConfig) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
}

// initializeTracing sets up a tracer provider exporting spans as JSON
func (p *OTelProviders) initializeTracing(cfg *OTelConfig, res *resource.Resource) error {
	w := cfg.TraceWriter
	if w == nil {
		if cfg.TraceFile == "" {
			return errors.New("trace file is required when tracing is enabled")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		file, err := os.Create(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		p.traceFile = file
		w = file
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	p.TracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	p.Tracer = p.TracerProvider.Tracer(InstrumentationName)
	return nil
}

// initializeMetrics sets up a meter provider backed by a private Prometheus registry
func (p *OTelProviders) initializeMetrics(res *resource.Resource) error {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.Registry = registry
	p.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	p.Meter = p.MeterProvider.Meter(InstrumentationName)
	return nil
}

// Shutdown flushes spans, writes the metrics text file and releases files
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.MeterProvider != nil {
		if p.metricsFile != "" && p.Registry != nil {
			if err := os.MkdirAll(filepath.Dir(p.metricsFile), 0755); err != nil {
				errs = append(errs, fmt.Errorf("failed to create metrics directory: %w", err))
			} else if err := prometheus.WriteToTextfile(p.metricsFile, p.Registry); err != nil {
				errs = append(errs, fmt.Errorf("failed to write metrics file: %w", err))
			}
		}
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.traceFile != nil {
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
		p.traceFile = nil
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// BusinessMetrics holds the pipeline's metric instruments
type BusinessMetrics struct {
	OperationExecutions metric.Int64Counter
	OperationDuration   metric.Float64Histogram
	StepExecutions      metric.Int64Counter
	StepDuration        metric.Float64Histogram
	OperationErrors     metric.Int64Counter
	RowsProcessed       metric.Int64Counter
	ClusteringRuns      metric.Int64Counter
	ArtifactsWritten    metric.Int64Counter
}

// CreateBusinessMetrics creates all pipeline metrics on the given meter
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	if m.OperationExecutions, err = meter.Int64Counter(
		"operation_executions_total",
		metric.WithDescription("Total number of operation executions"),
	); err != nil {
		return nil, fmt.Errorf("failed to create operation executions counter: %w", err)
	}

	if m.OperationDuration, err = meter.Float64Histogram(
		"operation_duration_seconds",
		metric.WithDescription("Operation execution duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create operation duration histogram: %w", err)
	}

	if m.StepExecutions, err = meter.Int64Counter(
		"operation_steps_total",
		metric.WithDescription("Total number of operation step executions"),
	); err != nil {
		return nil, fmt.Errorf("failed to create step executions counter: %w", err)
	}

	if m.StepDuration, err = meter.Float64Histogram(
		"operation_step_duration_seconds",
		metric.WithDescription("Operation step duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create step duration histogram: %w", err)
	}

	if m.OperationErrors, err = meter.Int64Counter(
		"operation_errors_total",
		metric.WithDescription("Total number of operation errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create operation errors counter: %w", err)
	}

	if m.RowsProcessed, err = meter.Int64Counter(
		"census_rows_total",
		metric.WithDescription("Census rows read, split by load outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rows counter: %w", err)
	}

	if m.ClusteringRuns, err = meter.Int64Counter(
		"census_clustering_runs_total",
		metric.WithDescription("Clustering attempts by status"),
	); err != nil {
		return nil, fmt.Errorf("failed to create clustering counter: %w", err)
	}

	if m.ArtifactsWritten, err = meter.Int64Counter(
		"census_artifacts_written_total",
		metric.WithDescription("Output files written by kind"),
	); err != nil {
		return nil, fmt.Errorf("failed to create artifacts counter: %w", err)
	}

	return m, nil
}

// RecordOperationMetrics records a completed operation run
func (m *BusinessMetrics) RecordOperationMetrics(ctx context.Context, operationID, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation.id", operationID),
		attribute.String("status", status),
	)
	m.OperationExecutions.Add(ctx, 1, attrs)
	m.OperationDuration.Record(ctx, duration.Seconds(), attrs)
	if status == "failed" {
		m.OperationErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("operation.id", operationID)))
	}
}

// RecordOperationStepMetrics records a single step execution
func (m *BusinessMetrics) RecordOperationStepMetrics(ctx context.Context, stepID, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("step.id", stepID),
		attribute.String("status", status),
	)
	m.StepExecutions.Add(ctx, 1, attrs)
	m.StepDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordRows records row counts for a load outcome such as kept or unparseable
func (m *BusinessMetrics) RecordRows(ctx context.Context, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsProcessed.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordClustering records a clustering attempt
func (m *BusinessMetrics) RecordClustering(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.ClusteringRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordArtifact records an output file written by the pipeline
func (m *BusinessMetrics) RecordArtifact(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.ArtifactsWritten.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordError records an error on the span in ctx
func RecordError(ctx context.Context, err error, description string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, description)
	}
}

// AddSpanEvent adds an event to the span in ctx
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

// TraceIDFromContext extracts the OpenTelemetry trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		return spanCtx.TraceID().String()
	}
	return ""
}
