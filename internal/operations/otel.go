package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/infrastructure"
)

// TracerName is the span name prefix used by the operation runner
const TracerName = "censo.operation"

// OperationTracer provides OpenTelemetry instrumentation for operations.
// The zero providers value yields a no-op tracer and no metrics.
type OperationTracer struct {
	tracer          trace.Tracer
	businessMetrics *infrastructure.BusinessMetrics
}

// NewOperationTracer creates a new operation tracer
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	if providers == nil {
		return &OperationTracer{tracer: tracenoop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	businessMetrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return &OperationTracer{
		tracer:          providers.Tracer,
		businessMetrics: businessMetrics,
	}, nil
}

// Metrics returns the business metrics, nil when telemetry is off
func (pt *OperationTracer) Metrics() *infrastructure.BusinessMetrics {
	return pt.businessMetrics
}

// TraceOperationExecution creates a span for the entire operation execution
func (pt *OperationTracer) TraceOperationExecution(ctx context.Context, operationID string, stepCount int) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, TracerName+".execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.Int("operation.step_count", stepCount),
		),
	)
}

// TraceStageExecution creates a span for individual Step execution
func (pt *OperationTracer) TraceStageExecution(ctx context.Context, operationID, stageID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, fmt.Sprintf("%s.step.%s", TracerName, stageID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stageID),
		),
	)
}

// RecordStageCompletion records Step completion with metrics and span events
func (pt *OperationTracer) RecordStageCompletion(ctx context.Context, span trace.Span, stageID string, status StepStatus, duration time.Duration) {
	span.SetAttributes(
		attribute.String("step.status", string(status)),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	pt.businessMetrics.RecordOperationStepMetrics(ctx, stageID, string(status), duration)

	infrastructure.AddSpanEvent(ctx, "step.completed",
		attribute.String("step.id", stageID),
		attribute.String("status", string(status)),
	)

	if status == StepStatusFailed {
		span.SetStatus(codes.Error, "step execution failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// RecordStageError records Step errors on the active span
func (pt *OperationTracer) RecordStageError(ctx context.Context, stageID string, err error) {
	infrastructure.RecordError(ctx, err, fmt.Sprintf("step %s failed", stageID))
}

// RecordOperationCompletion records operation completion with metrics and span status
func (pt *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, operationID string, status OperationStatusValue, duration time.Duration) {
	span.SetAttributes(
		attribute.String("operation.status", string(status)),
		attribute.Float64("operation.duration_seconds", duration.Seconds()),
	)
	pt.businessMetrics.RecordOperationMetrics(ctx, operationID, string(status), duration)

	if status == OperationStatusCompleted {
		span.SetStatus(codes.Ok, "operation completed successfully")
	} else {
		span.SetStatus(codes.Error, fmt.Sprintf("operation finished with status: %s", status))
	}
}
