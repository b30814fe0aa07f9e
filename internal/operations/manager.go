package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/config"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/infrastructure"
)

// Manager orchestrates operation execution
type Manager struct {
	appConfig *config.Config
	registry  *Registry
	config    *Config
	tracer    *OperationTracer
	logger    *slog.Logger

	// Active operations
	mu         sync.RWMutex
	operations map[string]*OperationState
}

// NewManager creates a new operation manager for appConfig
func NewManager(appConfig *config.Config, registry *Registry, cfg *Config) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	tracer, _ := NewOperationTracer(nil)

	return &Manager{
		appConfig:  appConfig,
		registry:   registry,
		config:     cfg,
		tracer:     tracer,
		logger:     slog.Default(),
		operations: make(map[string]*OperationState),
	}
}

// RegisterStage registers a Step with the operation
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// SetTracer installs the telemetry used for spans and business metrics
func (m *Manager) SetTracer(tracer *OperationTracer) {
	if tracer != nil {
		m.tracer = tracer
	}
}

// SetLogger replaces the manager logger
func (m *Manager) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// GetRegistry returns the registry for accessing registered stages
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs the registered steps for req. The returned response is
// populated even when an error is returned.
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	ctx = infrastructure.WithTraceID(ctx, req.ID)

	state := NewOperationState(req.ID, m.appConfig)
	m.storeOperation(state)
	defer m.removeOperation(req.ID)

	if m.appConfig == nil {
		err := NewValidationError("", "operation has no configuration")
		state.Fail(err)
		return m.createResponse(state), err
	}

	var (
		steps []Step
		err   error
	)
	if len(req.Steps) > 0 {
		steps, err = m.registry.Resolve(req.Steps)
	} else {
		steps, err = m.registry.GetDependencyOrder()
	}
	if err != nil {
		m.logger.ErrorContext(ctx, "operation_plan_failed",
			slog.String("operation_id", req.ID),
			slog.String("error", err.Error()))
		state.Fail(err)
		return m.createResponse(state), err
	}

	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, req.ID, len(steps))
	defer span.End()

	m.logger.InfoContext(ctx, "operation_started",
		slog.String("operation_id", req.ID),
		slog.Int("step_count", len(steps)))

	state.Start()
	err = m.executeSequential(ctx, state, steps)

	switch {
	case err == nil:
		state.Complete()
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
	default:
		state.Fail(err)
	}

	m.tracer.RecordOperationCompletion(ctx, span, req.ID, state.Status, state.Duration())
	if err != nil {
		infrastructure.RecordError(ctx, err, "operation failed")
		m.logger.ErrorContext(ctx, "operation_failed",
			slog.String("operation_id", req.ID),
			slog.String("status", string(state.Status)),
			slog.String("error", err.Error()))
	} else {
		m.logger.InfoContext(ctx, "operation_completed",
			slog.String("operation_id", req.ID),
			slog.Duration("duration", state.Duration()))
	}

	return m.createResponse(state), err
}

// executeSequential executes steps one by one, checking for cancellation
// between steps
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	var firstErr error

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID(), err)
		}

		stepState := state.GetStage(step.ID())
		if stepState.CurrentStatus() == StepStatusSkipped {
			m.logger.InfoContext(ctx, "stage_skipped",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("reason", stepState.Message))
			continue
		}

		m.logger.InfoContext(ctx, "executing_stage",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)))

		if err := m.executeStage(ctx, state, step); err != nil {
			if !m.config.ContinueOnError {
				m.skipRemaining(state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
				return err
			}
			m.skipDependentStages(state, steps, step.ID())
			if firstErr == nil {
				firstErr = err
			}
			m.logger.WarnContext(ctx, "stage_failed_continuing",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
		}
	}

	return firstErr
}

// executeStage validates and runs a single Step under its timeout
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())

	if err := m.checkDependencies(state, step); err != nil {
		stepState.Skip(err.Error())
		return err
	}

	if err := step.Validate(state); err != nil {
		var vErr *OperationError
		if !errors.As(err, &vErr) {
			vErr = NewValidationError(step.ID(), err.Error())
		}
		stepState.Fail(vErr)
		m.logger.WarnContext(ctx, "validation_failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		return vErr
	}

	timeout := m.config.GetStageTimeout(step.ID())
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stageCtx, span := m.tracer.TraceStageExecution(stageCtx, state.ID, step.ID())
	defer span.End()

	stepState.Start()
	start := time.Now()
	err := step.Execute(stageCtx, state)
	duration := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			err = NewTimeoutError(step.ID(), timeout.String(), err)
		case errors.Is(err, context.Canceled):
			err = NewCancellationError(step.ID(), err)
		default:
			err = WrapError(err, step.ID())
		}
		stepState.Fail(err)
		m.tracer.RecordStageError(stageCtx, step.ID(), err)
		m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), StepStatusFailed, duration)
		m.logger.ErrorContext(ctx, "stage_execution_failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return err
	}

	stepState.Complete()
	m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), StepStatusCompleted, duration)
	m.logger.InfoContext(ctx, "stage_completed",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

// skipRemaining marks every pending step in steps as skipped
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil && s.CurrentStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}

// skipDependentStages marks all steps that depend on the failed Step as skipped
func (m *Manager) skipDependentStages(state *OperationState, steps []Step, failedStageID string) {
	for _, step := range steps {
		for _, dep := range step.GetDependencies() {
			if dep != failedStageID {
				continue
			}
			s := state.GetStage(step.ID())
			if s != nil && s.CurrentStatus() == StepStatusPending {
				s.Skip(fmt.Sprintf("dependency %s failed", failedStageID))
				m.skipDependentStages(state, steps, step.ID())
			}
			break
		}
	}
}

// checkDependencies verifies that all dependencies are satisfied
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStage(dep)
		if depState == nil {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not scheduled", dep))
		}
		if status := depState.CurrentStatus(); status != StepStatusCompleted {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not completed (status: %s)", dep, status))
		}
	}
	return nil
}

// createResponse creates an operation response from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	artifacts := state.Artifacts()
	resp := &OperationResponse{
		ID:        state.ID,
		Status:    state.Status,
		Duration:  state.Duration(),
		Steps:     state.Steps,
		Summaries: artifacts.Summaries,
		Cluster:   artifacts.Cluster,
	}

	for _, path := range []string{artifacts.BarChartPath, artifacts.PieChartPath, artifacts.ReportPath} {
		if path != "" {
			resp.Artifacts = append(resp.Artifacts, path)
		}
	}
	resp.Artifacts = append(resp.Artifacts, artifacts.ExportedFiles...)

	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}

// GetOperation retrieves the state of a running operation
func (m *Manager) GetOperation(id string) (*OperationState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, exists := m.operations[id]
	if !exists {
		return nil, fmt.Errorf("operation %s not found", id)
	}
	return state, nil
}

func (m *Manager) storeOperation(state *OperationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[state.ID] = state
}

func (m *Manager) removeOperation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.operations, id)
}
