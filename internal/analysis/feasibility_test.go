package analysis

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessFeasibility_Pass(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "1000step")
	writeCondition(t, prefix, "normal", 30, 35, 28)
	writeCondition(t, prefix, "no_metabolism", 0, 1, 0)
	writeCondition(t, prefix, "no_boundary", 5, 3, 4)

	report, err := AssessFeasibility(prefix)
	require.NoError(t, err)
	assert.True(t, report.OK)
	require.Len(t, report.Checks, 3)
	for _, check := range report.Checks {
		assert.True(t, check.Passed, check.Name)
	}
	assert.Len(t, report.Summaries, 3)
}

func TestAssessFeasibility_NoAblationEffect(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "1000step")
	writeCondition(t, prefix, "normal", 30, 35, 28)
	writeCondition(t, prefix, "no_metabolism", 40, 33, 31) // no degradation
	writeCondition(t, prefix, "no_boundary", 5, 3, 4)

	report, err := AssessFeasibility(prefix)
	require.NoError(t, err)
	assert.False(t, report.OK, "missing degradation must fail the gate")

	byName := map[string]bool{}
	for _, check := range report.Checks {
		byName[check.Name] = check.Passed
	}
	assert.True(t, byName["survival"])
	assert.False(t, byName["metabolism_ablation"])
	assert.True(t, byName["boundary_ablation"])
}

func TestAssessFeasibility_Extinction(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "1000step")
	writeCondition(t, prefix, "normal", 0, 0, 0)
	writeCondition(t, prefix, "no_metabolism", 0, 0, 0)
	writeCondition(t, prefix, "no_boundary", 0, 0, 0)

	report, err := AssessFeasibility(prefix)
	require.NoError(t, err)
	assert.False(t, report.OK)
}

func TestAssessFeasibility_MissingCondition(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "1000step")
	writeCondition(t, prefix, "normal", 30, 35, 28)

	_, err := AssessFeasibility(prefix)
	require.Error(t, err)
}
