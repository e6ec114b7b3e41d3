package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
)

// CohensD computes the pooled-SD standardized mean difference between two
// samples, with Bessel's correction on both variances.
//
// Returns 0 when either group has fewer than 2 observations or the pooled
// variance is 0. That is policy, not an accident: a degenerate comparison
// reports "no measurable effect" instead of dividing by zero.
func CohensD(a, b []float64) float64 {
	na, nb := float64(len(a)), float64(len(b))
	if na < 2 || nb < 2 {
		return 0.0
	}
	varA, _ := stats.SampleVariance(a)
	varB, _ := stats.SampleVariance(b)
	pooledSD := math.Sqrt(((na-1)*varA + (nb-1)*varB) / (na + nb - 2))
	if pooledSD == 0 {
		return 0.0
	}
	meanA, _ := stats.Mean(a)
	meanB, _ := stats.Mean(b)
	return (meanA - meanB) / pooledSD
}
