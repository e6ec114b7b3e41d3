package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMannWhitneyU_SeparatedGroups(t *testing.T) {
	a := []float64{5, 6, 7, 8}
	b := []float64{1, 2, 3, 4}

	u, p, err := MannWhitneyU(a, b, AlternativeGreater)
	require.NoError(t, err)
	// Complete separation: U is the maximum n1*n2.
	assert.Equal(t, 16.0, u)
	assert.Less(t, p, 0.05)
	assert.Greater(t, p, 0.0)
}

func TestMannWhitneyU_WrongDirection(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{5, 6, 7, 8}

	_, p, err := MannWhitneyU(a, b, AlternativeGreater)
	require.NoError(t, err)
	assert.Greater(t, p, 0.9, "baseline below ablated should not look significant for the greater alternative")
}

func TestMannWhitneyU_AllTied(t *testing.T) {
	a := []float64{2, 2, 2}
	b := []float64{2, 2, 2}

	_, p, err := MannWhitneyU(a, b, AlternativeGreater)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p, "fully tied samples carry no evidence")
}

func TestMannWhitneyU_ToleratesPartialTies(t *testing.T) {
	// Ties across both groups exercise the midrank path.
	a := []float64{3, 3, 4, 5, 5}
	b := []float64{1, 2, 3, 3, 4}

	_, p, err := MannWhitneyU(a, b, AlternativeGreater)
	require.NoError(t, err)
	assert.Greater(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestMannWhitneyU_InsufficientSamples(t *testing.T) {
	_, _, err := MannWhitneyU([]float64{1}, []float64{2, 3}, AlternativeGreater)
	assert.Error(t, err)
}

func TestMannWhitneyU_TwoSidedSymmetry(t *testing.T) {
	a := []float64{5, 6, 7, 8, 9}
	b := []float64{1, 2, 3, 4, 5}

	_, pAB, err := MannWhitneyU(a, b, AlternativeTwoSided)
	require.NoError(t, err)
	_, pBA, err := MannWhitneyU(b, a, AlternativeTwoSided)
	require.NoError(t, err)
	assert.InDelta(t, pAB, pBA, 1e-9, "two-sided p should not depend on argument order")
}
