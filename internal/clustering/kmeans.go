package clustering

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultSeed fixes the random state so repeated runs assign identical clusters
	DefaultSeed int64 = 42
	// DefaultNInit is the number of seeded restarts; the lowest inertia wins
	DefaultNInit = 10
	// DefaultMaxIter bounds the Lloyd iterations of a single run
	DefaultMaxIter = 300
	// DefaultTolerance is scaled by the mean per-feature variance
	DefaultTolerance = 1e-4
)

// ErrInsufficientSamples is returned when there are fewer samples than clusters
var ErrInsufficientSamples = errors.New("insufficient samples")

// Clusterer assigns each feature row to one of k clusters
type Clusterer interface {
	Cluster(features [][]float64, k int) ([]int, error)
}

// KMeans is a seeded k-means++ / Lloyd clusterer
type KMeans struct {
	Seed      int64
	NInit     int
	MaxIter   int
	Tolerance float64
}

// NewKMeans returns a KMeans with the default seed, restarts and tolerance
func NewKMeans() *KMeans {
	return &KMeans{
		Seed:      DefaultSeed,
		NInit:     DefaultNInit,
		MaxIter:   DefaultMaxIter,
		Tolerance: DefaultTolerance,
	}
}

// Cluster implements Clusterer. Labels are the index of the nearest final
// centroid, with ties going to the lower index.
func (km *KMeans) Cluster(features [][]float64, k int) ([]int, error) {
	if err := validateFeatures(features, k); err != nil {
		return nil, err
	}

	nInit := km.NInit
	if nInit <= 0 {
		nInit = 1
	}
	maxIter := km.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	tol := km.Tolerance * meanVariance(features)

	rng := rand.New(rand.NewSource(km.Seed))

	var bestLabels []int
	bestInertia := math.Inf(1)
	for run := 0; run < nInit; run++ {
		centers := seedCenters(features, k, rng)
		labels, inertia := lloyd(features, centers, maxIter, tol)
		if bestLabels == nil || inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}

	return bestLabels, nil
}

func validateFeatures(features [][]float64, k int) error {
	if k <= 0 {
		return fmt.Errorf("n_clusters=%d must be positive", k)
	}
	if len(features) < k {
		return fmt.Errorf("%w: n_samples=%d should be >= n_clusters=%d", ErrInsufficientSamples, len(features), k)
	}

	dims := len(features[0])
	if dims == 0 {
		return errors.New("features have no columns")
	}
	for i, row := range features {
		if len(row) != dims {
			return fmt.Errorf("feature row %d has %d columns, want %d", i, len(row), dims)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("feature row %d contains a non-finite value", i)
			}
		}
	}
	return nil
}

// meanVariance is the mean of the per-column population variances
func meanVariance(features [][]float64) float64 {
	dims := len(features[0])
	variances := make([]float64, dims)
	col := make([]float64, len(features))
	for j := 0; j < dims; j++ {
		for i, row := range features {
			col[i] = row[j]
		}
		variances[j] = stat.PopVariance(col, nil)
	}
	return stat.Mean(variances, nil)
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// seedCenters picks k initial centers with greedy k-means++: each new
// center is the best of 2+ln(k) candidates sampled proportional to D².
func seedCenters(features [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(features)
	trials := 2 + int(math.Log(float64(k)))

	centers := make([][]float64, 0, k)
	first := rng.Intn(n)
	centers = append(centers, copyRow(features[first]))

	closest := make([]float64, n)
	for i, x := range features {
		closest[i] = sqDist(x, features[first])
	}
	potential := floats.Sum(closest)

	cumulative := make([]float64, n)
	candidateDist := make([]float64, n)
	bestDist := make([]float64, n)

	for c := 1; c < k; c++ {
		floats.CumSum(cumulative, closest)

		bestCandidate := -1
		bestPotential := math.Inf(1)
		for trial := 0; trial < trials; trial++ {
			target := rng.Float64() * potential
			idx := sort.SearchFloat64s(cumulative, target)
			if idx >= n {
				idx = n - 1
			}

			for i, x := range features {
				candidateDist[i] = math.Min(closest[i], sqDist(x, features[idx]))
			}
			if pot := floats.Sum(candidateDist); bestCandidate < 0 || pot < bestPotential {
				bestPotential = pot
				bestCandidate = idx
				copy(bestDist, candidateDist)
			}
		}

		centers = append(centers, copyRow(features[bestCandidate]))
		copy(closest, bestDist)
		potential = bestPotential
	}

	return centers
}

// lloyd refines centers until the total squared shift is within tol and
// returns the final nearest-center labels with their inertia.
func lloyd(features [][]float64, centers [][]float64, maxIter int, tol float64) ([]int, float64) {
	k := len(centers)
	dims := len(features[0])
	labels := make([]int, len(features))

	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, dims)
	}
	counts := make([]int, k)

	for iter := 0; iter < maxIter; iter++ {
		assign(features, centers, labels)

		for c := range sums {
			for j := range sums[c] {
				sums[c][j] = 0
			}
			counts[c] = 0
		}
		for i, x := range features {
			floats.Add(sums[labels[i]], x)
			counts[labels[i]]++
		}

		shift := 0.0
		for c := range centers {
			// An empty cluster keeps its center, so duplicate rows can leave
			// fewer than k non-empty clusters.
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			shift += sqDist(centers[c], sums[c])
			copy(centers[c], sums[c])
		}

		if shift <= tol {
			break
		}
	}

	inertia := assign(features, centers, labels)
	return labels, inertia
}

// assign writes the nearest center of each row into labels and returns the inertia
func assign(features [][]float64, centers [][]float64, labels []int) float64 {
	inertia := 0.0
	for i, x := range features {
		best := 0
		bestDist := sqDist(x, centers[0])
		for c := 1; c < len(centers); c++ {
			if d := sqDist(x, centers[c]); d < bestDist {
				best = c
				bestDist = d
			}
		}
		labels[i] = best
		inertia += bestDist
	}
	return inertia
}

func copyRow(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}
