// Package phenotype identifies emergent phenotypic clusters in evolution
// experiment populations and measures their temporal persistence.
package phenotype

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"goablate/internal/errors"
)

// Standardize z-scores each column of the trait matrix. Columns with zero
// variance map to all zeros so a constant trait cannot dominate distances.
func Standardize(data [][]float64) [][]float64 {
	if len(data) == 0 {
		return nil
	}
	cols := len(data[0])
	means := make([]float64, cols)
	stds := make([]float64, cols)
	for j := 0; j < cols; j++ {
		for _, row := range data {
			means[j] += row[j]
		}
		means[j] /= float64(len(data))
		for _, row := range data {
			d := row[j] - means[j]
			stds[j] += d * d
		}
		stds[j] = math.Sqrt(stds[j] / float64(len(data)))
	}

	scaled := make([][]float64, len(data))
	for i, row := range data {
		scaled[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			if stds[j] > 0 {
				scaled[i][j] = (row[j] - means[j]) / stds[j]
			}
		}
	}
	return scaled
}

// KMeans runs Lloyd's algorithm with k-means++ seeding, restarted nInit
// times, and returns the labeling with the lowest within-cluster sum of
// squares. The rng makes the whole procedure deterministic for a fixed seed.
func KMeans(data [][]float64, k, nInit int, rng *rand.Rand) []int {
	bestLabels := make([]int, len(data))
	bestInertia := math.Inf(1)
	for attempt := 0; attempt < nInit; attempt++ {
		labels, inertia := kmeansOnce(data, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			copy(bestLabels, labels)
		}
	}
	return bestLabels
}

func kmeansOnce(data [][]float64, k int, rng *rand.Rand) ([]int, float64) {
	const maxIter = 100
	centroids := plusPlusInit(data, k, rng)
	labels := make([]int, len(data))

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, point := range data {
			best := nearestCentroid(point, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}

		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, len(data[0]))
		}
		for i, point := range data {
			counts[labels[i]]++
			floats.Add(next[labels[i]], point)
		}
		for c := range next {
			if counts[c] == 0 {
				// Re-seed an empty cluster from a random point.
				copy(next[c], data[rng.Intn(len(data))])
				continue
			}
			floats.Scale(1/float64(counts[c]), next[c])
		}
		centroids = next

		if !changed && iter > 0 {
			break
		}
	}

	inertia := 0.0
	for i, point := range data {
		d := floats.Distance(point, centroids[labels[i]], 2)
		inertia += d * d
	}
	return labels, inertia
}

// plusPlusInit seeds centroids with the k-means++ scheme: each next centroid
// is drawn with probability proportional to squared distance from the
// nearest already-chosen one.
func plusPlusInit(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), data[rng.Intn(len(data))]...))

	dist2 := make([]float64, len(data))
	for len(centroids) < k {
		total := 0.0
		for i, point := range data {
			d := floats.Distance(point, centroids[nearestCentroid(point, centroids)], 2)
			dist2[i] = d * d
			total += dist2[i]
		}
		if total == 0 {
			// All points coincide with existing centroids.
			centroids = append(centroids, append([]float64(nil), data[rng.Intn(len(data))]...))
			continue
		}
		target := rng.Float64() * total
		acc := 0.0
		chosen := len(data) - 1
		for i, d := range dist2 {
			acc += d
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), data[chosen]...))
	}
	return centroids
}

func nearestCentroid(point []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(point, centroid, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// SilhouetteScore computes the mean silhouette coefficient over all points.
// Requires at least 2 clusters with at least one point each.
func SilhouetteScore(data [][]float64, labels []int) (float64, error) {
	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	if k < 2 {
		return 0, errors.New(errors.CodeInsufficientData, "silhouette requires at least 2 clusters")
	}

	total := 0.0
	for i, point := range data {
		// Mean distance to every cluster.
		sums := make([]float64, k)
		counts := make([]int, k)
		for j, other := range data {
			if i == j {
				continue
			}
			sums[labels[j]] += floats.Distance(point, other, 2)
			counts[labels[j]]++
		}

		own := labels[i]
		a := 0.0
		if counts[own] > 0 {
			a = sums[own] / float64(counts[own])
		}
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if m := sums[c] / float64(counts[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(len(data)), nil
}

// AdjustedRandIndex measures agreement between two labelings of the same
// points, corrected for chance. 1 is identical partitioning (up to label
// permutation), 0 is chance-level agreement.
func AdjustedRandIndex(a, b []int) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0
	}

	contingency := make(map[[2]int]int)
	rowSums := make(map[int]int)
	colSums := make(map[int]int)
	for i := 0; i < n; i++ {
		contingency[[2]int{a[i], b[i]}]++
		rowSums[a[i]]++
		colSums[b[i]]++
	}

	comb2 := func(m int) float64 { return float64(m) * float64(m-1) / 2 }

	sumIJ := 0.0
	for _, c := range contingency {
		sumIJ += comb2(c)
	}
	sumA, sumB := 0.0, 0.0
	for _, c := range rowSums {
		sumA += comb2(c)
	}
	for _, c := range colSums {
		sumB += comb2(c)
	}

	expected := sumA * sumB / comb2(n)
	maxIndex := (sumA + sumB) / 2
	if maxIndex == expected {
		// Degenerate partitions (e.g. everything in one cluster) carry no
		// chance-corrected signal.
		return 0
	}
	return (sumIJ - expected) / (maxIndex - expected)
}
