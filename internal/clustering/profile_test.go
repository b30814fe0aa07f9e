package clustering

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts/domain"
)

type clustererFunc func(features [][]float64, k int) ([]int, error)

func (f clustererFunc) Cluster(features [][]float64, k int) ([]int, error) {
	return f(features, k)
}

func record(locale string, props ...float64) domain.AnalyzedRecord {
	rec := domain.AnalyzedRecord{
		EnrollmentRecord: domain.EnrollmentRecord{Locale: locale},
		GrandTotal:       100,
	}
	if len(props) == 4 {
		rec.Proportions = domain.LevelTotals{
			EarlyChildhood: props[0],
			Elementary:     props[1],
			Secondary:      props[2],
			AdultEducation: props[3],
		}
		rec.ProportionsDefined = true
	}
	return rec
}

func profileRecords() []domain.AnalyzedRecord {
	return []domain.AnalyzedRecord{
		record("Urbana", 19.5, 59.0, 17.6, 3.9),
		record("Rural", 13.5, 68.1, 10.0, 8.4),
		record("Urbana - Estadual", 1.1, 42.4, 51.3, 5.1),
		record("Rural - Municipal", 16.6, 72.0, 2.3, 9.1),
	}
}

func TestClusterByProfileSuccess(t *testing.T) {
	outcome := ClusterByProfile(profileRecords(), NewKMeans(), nil)
	require.True(t, outcome.Succeeded(), outcome.Reason)
	assert.Equal(t, ProfileClusters, outcome.K)
	require.Len(t, outcome.Assignments, 4)

	seen := make(map[int]bool)
	for i, a := range outcome.Assignments {
		assert.Equal(t, profileRecords()[i].Locale, a.Record.Locale)
		seen[a.Cluster] = true
	}
	assert.Len(t, seen, 3)

	shares, err := outcome.Distribution()
	require.NoError(t, err)
	total := 0
	for _, s := range shares {
		total += s.Count
	}
	assert.Equal(t, 4, total)
}

func TestClusterByProfileDeterministic(t *testing.T) {
	first := ClusterByProfile(profileRecords(), NewKMeans(), nil)
	second := ClusterByProfile(profileRecords(), NewKMeans(), nil)

	a, err := first.Labels()
	require.NoError(t, err)
	b, err := second.Labels()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestClusterByProfileTooFewRecords(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	var outcome domain.ClusterOutcome
	require.NotPanics(t, func() {
		outcome = ClusterByProfile(profileRecords()[:2], NewKMeans(), logger)
	})

	assert.False(t, outcome.Succeeded())
	assert.Empty(t, outcome.Assignments)
	assert.Len(t, outcome.Candidates, 2)
	assert.Contains(t, outcome.Reason, "n_samples=2 should be >= n_clusters=3")

	_, err := outcome.Labels()
	assert.True(t, errors.Is(err, domain.ErrClusteringUnavailable))
	assert.Contains(t, logs.String(), "clustering_failed")
	assert.Contains(t, logs.String(), `"level":"WARN"`)
}

func TestClusterByProfileSkipsUndefinedProportions(t *testing.T) {
	records := append(profileRecords(), record("Rural - Vazia"))

	var gotRows int
	clusterer := clustererFunc(func(features [][]float64, k int) ([]int, error) {
		gotRows = len(features)
		assert.Equal(t, 3, k)
		assert.Equal(t, []float64{19.5, 59.0, 17.6, 3.9}, features[0])
		return NewKMeans().Cluster(features, k)
	})

	outcome := ClusterByProfile(records, clusterer, nil)
	require.True(t, outcome.Succeeded())
	assert.Equal(t, 4, gotRows)
	assert.Len(t, outcome.Candidates, 4)
}

func TestClusterByProfileRecoversPanics(t *testing.T) {
	clusterer := clustererFunc(func([][]float64, int) ([]int, error) {
		panic("boom")
	})

	outcome := ClusterByProfile(profileRecords(), clusterer, nil)
	assert.False(t, outcome.Succeeded())
	assert.Contains(t, outcome.Reason, "boom")
}

func TestClusterByProfileLabelMismatch(t *testing.T) {
	clusterer := clustererFunc(func([][]float64, int) ([]int, error) {
		return []int{0}, nil
	})

	outcome := ClusterByProfile(profileRecords(), clusterer, nil)
	assert.False(t, outcome.Succeeded())
	assert.Contains(t, outcome.Reason, "1 labels for 4 samples")
}

func TestClusterByProfileClustererError(t *testing.T) {
	clusterer := clustererFunc(func([][]float64, int) ([]int, error) {
		return nil, errors.New("solver diverged")
	})

	outcome := ClusterByProfile(profileRecords(), clusterer, nil)
	assert.False(t, outcome.Succeeded())
	assert.Equal(t, "solver diverged", outcome.Reason)
}
