// Package clustering groups census locales by the shape of their
// enrollment profile.
package clustering

import (
	"fmt"
	"log/slog"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

// ProfileClusters is the number of enrollment profiles locales are split into
const ProfileClusters = 3

// ClusterByProfile clusters every record with defined proportions on its
// four level proportions. Failures, including panics inside clusterer,
// are logged and reported through a failed outcome.
func ClusterByProfile(records []domain.AnalyzedRecord, clusterer Clusterer, logger *slog.Logger) domain.ClusterOutcome {
	return clusterProfiles(records, clusterer, ProfileClusters, logger)
}

func clusterProfiles(records []domain.AnalyzedRecord, clusterer Clusterer, k int, logger *slog.Logger) domain.ClusterOutcome {
	if logger == nil {
		logger = slog.Default()
	}
	if clusterer == nil {
		clusterer = NewKMeans()
	}

	candidates := make([]domain.AnalyzedRecord, 0, len(records))
	features := make([][]float64, 0, len(records))
	for _, rec := range records {
		if !rec.ProportionsDefined {
			continue
		}
		candidates = append(candidates, rec)
		features = append(features, rec.Proportions.Values())
	}

	labels, err := safeCluster(clusterer, features, k)
	if err == nil && len(labels) != len(candidates) {
		err = fmt.Errorf("clusterer returned %d labels for %d samples", len(labels), len(candidates))
	}
	if err != nil {
		logger.Warn("clustering_failed",
			slog.Int("candidates", len(candidates)),
			slog.Int("skipped", len(records)-len(candidates)),
			slog.Int("k", k),
			slog.String("error", err.Error()))
		return domain.NewClusterFailure(k, candidates, err)
	}

	assignments := make([]domain.ClusterAssignment, len(candidates))
	for i, rec := range candidates {
		assignments[i] = domain.ClusterAssignment{Record: rec, Cluster: labels[i]}
	}

	logger.Info("clustering_completed",
		slog.Int("candidates", len(candidates)),
		slog.Int("skipped", len(records)-len(candidates)),
		slog.Int("k", k))

	return domain.NewClusterSuccess(k, candidates, assignments)
}

func safeCluster(clusterer Clusterer, features [][]float64, k int) (labels []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			labels = nil
			err = fmt.Errorf("clusterer panicked: %v", r)
		}
	}()
	return clusterer.Cluster(features, k)
}
