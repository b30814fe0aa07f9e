package clustering

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func separatedGroups() [][]float64 {
	return [][]float64{
		{0, 0}, {0.5, 0.2}, {0.1, 0.6},
		{10, 10}, {10.4, 9.8}, {9.7, 10.3},
		{20, 0}, {20.2, 0.5}, {19.6, 0.1},
	}
}

func TestKMeansSeparatesGroups(t *testing.T) {
	labels, err := NewKMeans().Cluster(separatedGroups(), 3)
	require.NoError(t, err)
	require.Len(t, labels, 9)

	for g := 0; g < 3; g++ {
		base := labels[g*3]
		assert.Equal(t, base, labels[g*3+1], "group %d", g)
		assert.Equal(t, base, labels[g*3+2], "group %d", g)
	}
	assert.NotEqual(t, labels[0], labels[3])
	assert.NotEqual(t, labels[0], labels[6])
	assert.NotEqual(t, labels[3], labels[6])

	for _, l := range labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 3)
	}
}

func TestKMeansDeterministic(t *testing.T) {
	features := [][]float64{
		{19.5, 59.0, 17.6, 3.9},
		{13.5, 68.1, 10.0, 8.4},
		{1.1, 42.4, 51.3, 5.1},
		{16.6, 72.0, 2.3, 9.1},
		{8.2, 55.3, 30.1, 6.4},
		{12.0, 61.7, 20.2, 6.1},
	}

	first, err := NewKMeans().Cluster(features, 3)
	require.NoError(t, err)
	second, err := NewKMeans().Cluster(features, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other := &KMeans{Seed: 7, NInit: 10, MaxIter: 300, Tolerance: 1e-4}
	labels, err := other.Cluster(features, 3)
	require.NoError(t, err)
	assert.Len(t, labels, len(features))
}

func TestKMeansOneSamplePerCluster(t *testing.T) {
	labels, err := NewKMeans().Cluster([][]float64{{0, 0}, {5, 5}, {9, 1}}, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2}, labels)
}

func TestKMeansIdenticalPoints(t *testing.T) {
	features := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}

	var labels []int
	var err error
	require.NotPanics(t, func() {
		labels, err = NewKMeans().Cluster(features, 2)
	})
	require.NoError(t, err)
	require.Len(t, labels, 4)
	for _, l := range labels {
		assert.Equal(t, labels[0], l)
	}
}

func TestKMeansDuplicateRowsLeaveEmptyCluster(t *testing.T) {
	features := [][]float64{{50, 50, 0, 0}, {50, 50, 0, 0}, {50, 50, 0, 0}, {0, 0, 100, 0}}

	labels, err := NewKMeans().Cluster(features, 3)
	require.NoError(t, err)
	require.Len(t, labels, 4)
	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[0], labels[2])
	assert.NotEqual(t, labels[0], labels[3])

	used := map[int]bool{}
	for _, l := range labels {
		used[l] = true
	}
	assert.Len(t, used, 2)
}

func TestKMeansErrors(t *testing.T) {
	tests := []struct {
		name         string
		features     [][]float64
		k            int
		insufficient bool
	}{
		{"zero clusters", [][]float64{{1}, {2}}, 0, false},
		{"negative clusters", [][]float64{{1}, {2}}, -1, false},
		{"fewer samples than clusters", [][]float64{{1, 2}, {3, 4}}, 3, true},
		{"no samples", nil, 3, true},
		{"ragged rows", [][]float64{{1, 2}, {3}, {5, 6}}, 2, false},
		{"empty rows", [][]float64{{}, {}}, 1, false},
		{"nan feature", [][]float64{{1, math.NaN()}, {3, 4}}, 2, false},
		{"inf feature", [][]float64{{1, 2}, {math.Inf(1), 4}}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels, err := NewKMeans().Cluster(tt.features, tt.k)
			require.Error(t, err)
			assert.Nil(t, labels)
			assert.Equal(t, tt.insufficient, errors.Is(err, ErrInsufficientSamples))
		})
	}
}

func TestInsufficientSamplesMessage(t *testing.T) {
	_, err := NewKMeans().Cluster([][]float64{{1, 2}, {3, 4}}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "n_samples=2 should be >= n_clusters=3")
}

func TestMeanVariance(t *testing.T) {
	features := [][]float64{{0, 10}, {2, 10}, {4, 10}}
	// column variances are 8/3 and 0
	assert.InDelta(t, 4.0/3.0, meanVariance(features), 1e-12)
}
