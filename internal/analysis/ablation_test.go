package analysis

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goablate/domain/experiment"
	"goablate/internal"
	"goablate/internal/errors"
	"goablate/internal/results"
)

func writeCondition(t *testing.T, prefix, condition string, finalAlive ...int) {
	t.Helper()
	runs := make([]experiment.RunResult, 0, len(finalAlive))
	for seed, alive := range finalAlive {
		runs = append(runs, experiment.RunResult{
			Seed:            seed,
			FinalAliveCount: alive,
			Samples:         []experiment.Sample{{Step: 100, AliveCount: alive}},
		})
	}
	require.NoError(t, results.Write(results.ConditionPath(prefix, condition), runs))
}

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError, io.Discard)
}

func TestAnalyzeAblations(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "final_graph")
	writeCondition(t, prefix, "normal", 40, 45, 38, 42, 44, 41)
	writeCondition(t, prefix, "no_metabolism", 0, 0, 1, 0, 0, 2)
	writeCondition(t, prefix, "no_boundary", 39, 44, 40, 43, 37, 45)

	report, err := AnalyzeAblations(prefix, AblationOptions{
		Alpha:      0.05,
		Conditions: []string{"no_metabolism", "no_boundary"},
		Log:        quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, "criterion_ablation", report.Experiment)
	assert.Equal(t, 6, report.NPerCondition)
	assert.Equal(t, "holm_bonferroni", report.Correction)
	require.Len(t, report.Comparisons, 2)

	collapsed := report.Comparisons[0]
	assert.Equal(t, "no_metabolism", collapsed.Condition)
	assert.True(t, collapsed.Significant, "collapse to near-extinction must survive correction")
	assert.Greater(t, collapsed.CohensD, 2.0)

	unchanged := report.Comparisons[1]
	assert.Equal(t, "no_boundary", unchanged.Condition)
	assert.False(t, unchanged.Significant)

	assert.Equal(t, 1, report.SignificantCount)
	assert.Equal(t, 2, report.TotalComparisons)

	// Corrected p never drops below raw p.
	for _, comp := range report.Comparisons {
		assert.GreaterOrEqual(t, comp.PCorrected, comp.PRaw-1e-9, comp.Condition)
	}
}

func TestAnalyzeAblations_RecordsSkips(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "final_graph")
	writeCondition(t, prefix, "normal", 40, 45, 38, 42)
	writeCondition(t, prefix, "no_reproduction", 7)
	// no_homeostasis never ran, so its file is absent.

	report, err := AnalyzeAblations(prefix, AblationOptions{
		Conditions: []string{"no_homeostasis", "no_reproduction"},
		Log:        quietLogger(),
	})
	require.NoError(t, err)

	assert.Empty(t, report.Comparisons)
	assert.Zero(t, report.TotalComparisons)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "no_homeostasis", report.Skipped[0].Condition)
	assert.Equal(t, "no data", report.Skipped[0].Reason)
	assert.Equal(t, "no_reproduction", report.Skipped[1].Condition)
	assert.Equal(t, "insufficient samples", report.Skipped[1].Reason)
}

func TestAnalyzeAblations_MissingBaseline(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "final_graph")
	writeCondition(t, prefix, "no_metabolism", 0, 0, 0)

	_, err := AnalyzeAblations(prefix, AblationOptions{
		Conditions: []string{"no_metabolism"},
		Log:        quietLogger(),
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeMissingInput, errors.GetCode(err))
}
