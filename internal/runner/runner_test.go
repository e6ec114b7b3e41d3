package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goablate/domain/experiment"
	"goablate/internal"
	"goablate/internal/results"
	"goablate/internal/testkit"
)

func testSpec() Spec {
	return Spec{
		Name:         "runner_smoke",
		Prefix:       "smoke",
		Steps:        100,
		SampleEvery:  20,
		Seeds:        []int{0, 1, 2},
		Baseline:     map[string]any{"initial_population": 30},
		ManifestFile: "smoke_manifest.json",
		Conditions: []ConditionSpec{
			{Name: "normal", Overrides: map[string]any{}},
			{Name: "no_metabolism", Overrides: experiment.AblationOverrides("metabolism")},
		},
	}
}

func testRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	var tsv bytes.Buffer
	r := New(testkit.NewSyntheticEngine(), t.TempDir())
	r.Jobs = 2
	r.TSV = &tsv
	r.Log = internal.NewLogger(internal.LogLevelError, io.Discard)
	return r, &tsv
}

func TestMakeConfig(t *testing.T) {
	r, _ := testRunner(t)
	configJSON, err := r.MakeConfig(7,
		map[string]any{"initial_population": 30},
		map[string]any{"enable_metabolism": false})
	require.NoError(t, err)

	var config map[string]any
	require.NoError(t, json.Unmarshal([]byte(configJSON), &config))
	assert.Equal(t, float64(7), config["seed"])
	assert.Equal(t, float64(30), config["initial_population"])
	assert.Equal(t, false, config["enable_metabolism"])
	// Untouched defaults survive the merge.
	assert.Equal(t, true, config["enable_reproduction"])
}

func TestRunExperiment(t *testing.T) {
	r, tsv := testRunner(t)
	spec := testSpec()
	require.NoError(t, r.RunExperiment(context.Background(), spec))

	for _, cond := range []string{"normal", "no_metabolism"} {
		runs, err := results.Load(results.ConditionPath(filepath.Join(r.OutDir, spec.Prefix), cond))
		require.NoError(t, err, cond)
		require.Len(t, runs, 3, cond)
		for i, run := range runs {
			assert.Equal(t, spec.Seeds[i], run.Seed, "results keep spec seed order")
			assert.Len(t, run.Samples, 5, "100 steps sampled every 20")
		}
	}

	manifest, err := experiment.ReadManifest(filepath.Join(r.OutDir, spec.ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, "runner_smoke", manifest.Experiment)
	assert.Equal(t, []int{0, 1, 2}, manifest.Seeds)
	assert.Contains(t, manifest.ConditionOverrides, "no_metabolism")
	assert.Contains(t, manifest.BaseConfig, "mutation_point_rate")

	lines := strings.Split(strings.TrimRight(tsv.String(), "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "condition\tseed\tstep\t"), "TSV header first")
	// 2 conditions x 3 seeds x 5 samples.
	assert.Len(t, lines, 1+30)
	for _, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		assert.Len(t, fields, len(tsvColumns), "row width matches header")
	}
}

func TestRunSingleDeterministic(t *testing.T) {
	r, _ := testRunner(t)
	ctx := context.Background()

	a, err := r.RunSingle(ctx, 5, nil, nil, 200, 50)
	require.NoError(t, err)
	b, err := r.RunSingle(ctx, 5, nil, nil, 200, 50)
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical seed and protocol must reproduce exactly")

	c, err := r.RunSingle(ctx, 6, nil, nil, 200, 50)
	require.NoError(t, err)
	assert.NotEqual(t, a.Samples, c.Samples, "different seeds must diverge")
}

func TestAblationDetectableEndToEnd(t *testing.T) {
	// The synthetic engine degrades populations when criteria are disabled,
	// so a full run must leave the ablated mean below the baseline mean.
	r, _ := testRunner(t)
	spec := testSpec()
	spec.Steps = 1000
	spec.SampleEvery = 100
	require.NoError(t, r.RunExperiment(context.Background(), spec))

	prefix := filepath.Join(r.OutDir, spec.Prefix)
	normal, err := results.LoadCondition(prefix, "normal")
	require.NoError(t, err)
	ablated, err := results.LoadCondition(prefix, "no_metabolism")
	require.NoError(t, err)

	mean := func(runs []experiment.RunResult) float64 {
		sum := 0.0
		for _, r := range runs {
			sum += float64(r.FinalAliveCount)
		}
		return sum / float64(len(runs))
	}
	assert.Greater(t, mean(normal), mean(ablated))
}
