package operations

import (
	"sync"
	"time"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/config"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/dataprocessing"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// Artifacts holds what the steps hand to each other. Each field is
// written by exactly one step.
type Artifacts struct {
	Load          *dataprocessing.LoadResult
	Analyzed      []domain.AnalyzedRecord
	Cluster       *domain.ClusterOutcome
	Summaries     []domain.LocaleSummary
	BarChartPath  string
	PieChartPath  string
	ReportPath    string
	ExportedFiles []string
}

// OperationState represents the complete state of an operation execution
type OperationState struct {
	mu sync.RWMutex

	ID        string               `json:"id"`
	Status    OperationStatusValue `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	Config *config.Config `json:"-"`
	Paths  *config.Paths  `json:"-"`

	artifacts Artifacts

	Error error `json:"-"`
}

// NewOperationState creates a new operation state for cfg
func NewOperationState(id string, cfg *config.Config) *OperationState {
	state := &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Config:    cfg,
	}
	if cfg != nil {
		state.Paths = cfg.Paths()
	}
	return state
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
	p.Error = err
}

// GetStage returns the state of a specific Step
func (p *OperationState) GetStage(stageID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stageID]
}

// SetStage updates the state of a specific Step
func (p *OperationState) SetStage(stageID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stageID] = state
}

// Artifacts returns a copy of the step outputs gathered so far
func (p *OperationState) Artifacts() Artifacts {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a := p.artifacts
	a.ExportedFiles = append([]string(nil), p.artifacts.ExportedFiles...)
	return a
}

// UpdateArtifacts applies fn to the step outputs under the write lock
func (p *OperationState) UpdateArtifacts(fn func(*Artifacts)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.artifacts)
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// StepsWithStatus returns the IDs of steps in the given status
func (p *OperationState) StepsWithStatus(status StepStatus) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var ids []string
	for id, step := range p.Steps {
		if step.CurrentStatus() == status {
			ids = append(ids, id)
		}
	}
	return ids
}

// HasFailures returns true if any Step has failed
func (p *OperationState) HasFailures() bool {
	return len(p.StepsWithStatus(StepStatusFailed)) > 0
}
