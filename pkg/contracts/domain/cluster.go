package domain

import (
	"errors"
	"sort"
)

// ErrClusteringUnavailable is returned when cluster data is requested from a failed outcome
var ErrClusteringUnavailable = errors.New("clustering result unavailable")

// ClusterStatus tells whether clustering produced assignments
type ClusterStatus string

const (
	ClusterStatusSucceeded ClusterStatus = "succeeded"
	ClusterStatusFailed    ClusterStatus = "failed"
)

// ClusterAssignment pairs a clustered record with its cluster id
type ClusterAssignment struct {
	Record  AnalyzedRecord `json:"record"`
	Cluster int            `json:"cluster"`
}

// ClusterShare is the size of one cluster relative to all clustered records
type ClusterShare struct {
	Cluster int     `json:"cluster"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// ClusterOutcome is the result of the clustering step. A succeeded outcome
// carries one assignment per candidate; a failed one carries the reason and
// the candidates that could not be clustered.
type ClusterOutcome struct {
	Status      ClusterStatus       `json:"status"`
	K           int                 `json:"k"`
	Candidates  []AnalyzedRecord    `json:"-"`
	Assignments []ClusterAssignment `json:"assignments,omitempty"`
	Reason      string              `json:"reason,omitempty"`
}

// NewClusterSuccess builds a succeeded outcome
func NewClusterSuccess(k int, candidates []AnalyzedRecord, assignments []ClusterAssignment) ClusterOutcome {
	return ClusterOutcome{
		Status:      ClusterStatusSucceeded,
		K:           k,
		Candidates:  candidates,
		Assignments: assignments,
	}
}

// NewClusterFailure builds a failed outcome
func NewClusterFailure(k int, candidates []AnalyzedRecord, err error) ClusterOutcome {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return ClusterOutcome{
		Status:     ClusterStatusFailed,
		K:          k,
		Candidates: candidates,
		Reason:     reason,
	}
}

// Succeeded reports whether assignments are available
func (o ClusterOutcome) Succeeded() bool {
	return o.Status == ClusterStatusSucceeded
}

// Labels returns the cluster id of each candidate, in candidate order
func (o ClusterOutcome) Labels() ([]int, error) {
	if !o.Succeeded() {
		return nil, ErrClusteringUnavailable
	}
	labels := make([]int, len(o.Assignments))
	for i, a := range o.Assignments {
		labels[i] = a.Cluster
	}
	return labels, nil
}

// Distribution returns the share of each non-empty cluster, largest first.
// Equal counts are ordered by cluster id.
func (o ClusterOutcome) Distribution() ([]ClusterShare, error) {
	if !o.Succeeded() {
		return nil, ErrClusteringUnavailable
	}
	if len(o.Assignments) == 0 {
		return []ClusterShare{}, nil
	}

	counts := make(map[int]int)
	for _, a := range o.Assignments {
		counts[a.Cluster]++
	}

	shares := make([]ClusterShare, 0, len(counts))
	total := float64(len(o.Assignments))
	for cluster, count := range counts {
		shares = append(shares, ClusterShare{
			Cluster: cluster,
			Count:   count,
			Percent: float64(count) / total * 100,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Cluster < shares[j].Cluster
	})
	return shares, nil
}
