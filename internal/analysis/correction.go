package analysis

import "sort"

// HolmBonferroni applies the Holm step-down correction to a batch of raw
// p-values and returns corrected values in the original order.
//
// The step-down procedure multiplies the i-th smallest p-value by (n - i),
// enforces monotonicity with a running maximum, and caps at 1.0. It controls
// the family-wise error rate like flat Bonferroni but is uniformly more
// powerful, which is why the pipeline uses it for the ablation batch.
func HolmBonferroni(pValues []float64) []float64 {
	n := len(pValues)
	if n == 0 {
		return []float64{}
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return pValues[idx[i]] < pValues[idx[j]]
	})

	corrected := make([]float64, n)
	cumulativeMax := 0.0
	for rank, origIdx := range idx {
		adjusted := pValues[origIdx] * float64(n-rank)
		if adjusted > cumulativeMax {
			cumulativeMax = adjusted
		}
		if cumulativeMax > 1.0 {
			corrected[origIdx] = 1.0
		} else {
			corrected[origIdx] = cumulativeMax
		}
	}
	return corrected
}
