package operations

import (
	"time"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

// Census operation step identifiers, in execution order
const (
	StageIDLoad      = "load"
	StageIDAggregate = "aggregate"
	StageIDCluster   = "cluster"
	StageIDGroup     = "group"
	StageIDCharts    = "charts"
	StageIDReport    = "report"
	StageIDExport    = "export"
)

// Census operation step names
const (
	StageNameLoad      = "Load Census Table"
	StageNameAggregate = "Aggregate Enrollment"
	StageNameCluster   = "Cluster Enrollment Profiles"
	StageNameGroup     = "Group By Locale"
	StageNameCharts    = "Render Charts"
	StageNameReport    = "Render Report"
	StageNameExport    = "Export Tables"
)

// Step metadata keys
const (
	MetadataRowsRead         = "rows_read"
	MetadataRowsKept         = "rows_kept"
	MetadataAggregateDropped = "aggregate_dropped"
	MetadataBlankDropped     = "blank_dropped"
	MetadataInvalidDropped   = "invalid_dropped"
	MetadataUndefinedRows    = "undefined_proportions"
	MetadataClusterStatus    = "cluster_status"
	MetadataClusterReason    = "cluster_reason"
	MetadataCandidates       = "candidates"
	MetadataGroups           = "groups"
	MetadataBarChart         = "bar_chart"
	MetadataPieChart         = "pie_chart"
	MetadataPieSkipped       = "pie_chart_skipped"
	MetadataReport           = "report"
	MetadataEngine           = "engine"
	MetadataFiles            = "files"
)

// DefaultStageTimeout bounds a single step; the chrome engine has its own timeout
const DefaultStageTimeout = 5 * time.Minute

// OperationRequest represents a request to execute the census operation
type OperationRequest struct {
	ID string `json:"id,omitempty"`
	// Steps restricts execution to the named steps and their dependencies
	Steps []string `json:"steps,omitempty"`
}

// OperationResponse represents the response from an operation execution
type OperationResponse struct {
	ID        string                 `json:"id"`
	Status    OperationStatusValue   `json:"status"`
	Duration  time.Duration          `json:"duration"`
	Steps     map[string]*StepState  `json:"steps"`
	Summaries []domain.LocaleSummary `json:"summaries,omitempty"`
	Cluster   *domain.ClusterOutcome `json:"cluster,omitempty"`
	Artifacts []string               `json:"artifacts,omitempty"`
	Error     string                 `json:"error,omitempty"`
}
