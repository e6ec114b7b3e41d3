package analysis

import (
	"math"
	"testing"
)

func TestCohensD_KnownValue(t *testing.T) {
	// Both groups have sample variance 4, pooled SD 2, mean difference 1.
	d := CohensD([]float64{2, 4, 6}, []float64{1, 3, 5})
	if math.Abs(d-0.5) > 1e-12 {
		t.Errorf("CohensD = %v, want 0.5", d)
	}
}

func TestCohensD_IdenticalGroups(t *testing.T) {
	a := []float64{3, 7, 9, 12}
	if d := CohensD(a, a); d != 0.0 {
		t.Errorf("identical groups should give d=0, got %v", d)
	}
}

func TestCohensD_InsufficientSamples(t *testing.T) {
	// Fewer than 2 elements on either side returns 0 rather than failing.
	if d := CohensD([]float64{1}, []float64{2, 3, 4}); d != 0.0 {
		t.Errorf("n<2 should give d=0, got %v", d)
	}
	if d := CohensD([]float64{1, 2}, nil); d != 0.0 {
		t.Errorf("empty group should give d=0, got %v", d)
	}
}

func TestCohensD_ZeroPooledVariance(t *testing.T) {
	if d := CohensD([]float64{5, 5, 5}, []float64{2, 2, 2}); d != 0.0 {
		t.Errorf("zero pooled variance should give d=0, got %v", d)
	}
}

func TestCohensD_Direction(t *testing.T) {
	high := []float64{10, 12, 14, 16}
	low := []float64{1, 2, 3, 4}
	if d := CohensD(high, low); d <= 0 {
		t.Errorf("higher first group should give positive d, got %v", d)
	}
	if d := CohensD(low, high); d >= 0 {
		t.Errorf("lower first group should give negative d, got %v", d)
	}
}
