// Package runner orchestrates experiment execution against the external
// simulation engine: config assembly, per-seed runs, result persistence and
// manifest writing.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"goablate/domain/experiment"
	"goablate/internal"
	"goablate/internal/errors"
	"goablate/internal/results"
	"goablate/ports"
)

// Runner executes experiment specs. Seeds within a condition run
// concurrently (they are fully independent), but nothing is written until a
// condition's complete seed set is in hand: no partial result files.
type Runner struct {
	Engine ports.Engine
	OutDir string
	// Jobs bounds concurrent engine runs. Zero means sequential.
	Jobs int
	// TSV receives the per-sample data stream (stdout in the CLI).
	TSV io.Writer
	Log *internal.Logger
}

// New creates a runner with sane defaults for the CLI surface.
func New(engine ports.Engine, outDir string) *Runner {
	return &Runner{
		Engine: engine,
		OutDir: outDir,
		Jobs:   1,
		TSV:    os.Stdout,
		Log:    internal.DefaultLogger,
	}
}

// MakeConfig merges the engine's default configuration with the seed, the
// spec baseline and the condition overrides, in that order of precedence.
func (r *Runner) MakeConfig(seed int, baseline, overrides map[string]any) (string, error) {
	defaultJSON, err := r.Engine.DefaultConfigJSON()
	if err != nil {
		return "", errors.EngineError(err)
	}
	var config map[string]any
	if err := json.Unmarshal([]byte(defaultJSON), &config); err != nil {
		return "", errors.MalformedData(fmt.Sprintf("engine default config: %v", err))
	}
	config["seed"] = seed
	for k, v := range baseline {
		config[k] = v
	}
	for k, v := range overrides {
		config[k] = v
	}
	merged, err := json.Marshal(config)
	if err != nil {
		return "", errors.Wrap(err, "marshal run config")
	}
	return string(merged), nil
}

// RunSingle executes one seed of one condition.
func (r *Runner) RunSingle(ctx context.Context, seed int, baseline, overrides map[string]any, steps, sampleEvery int) (experiment.RunResult, error) {
	configJSON, err := r.MakeConfig(seed, baseline, overrides)
	if err != nil {
		return experiment.RunResult{}, err
	}
	resultJSON, err := r.Engine.RunExperimentJSON(ctx, configJSON, steps, sampleEvery)
	if err != nil {
		return experiment.RunResult{}, errors.EngineError(err)
	}
	var result experiment.RunResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return experiment.RunResult{}, errors.MalformedData(fmt.Sprintf("engine result for seed %d: %v", seed, err))
	}
	result.Seed = seed
	return result, nil
}

// RunCondition runs the full seed set for one condition of a spec, streams
// the samples as TSV, and persists the raw JSON only after every seed has
// completed.
func (r *Runner) RunCondition(ctx context.Context, spec Spec, cond ConditionSpec) ([]experiment.RunResult, error) {
	steps := cond.Steps
	if steps == 0 {
		steps = spec.Steps
	}
	sampleEvery := cond.SampleEvery
	if sampleEvery == 0 {
		sampleEvery = spec.SampleEvery
	}

	r.Log.Progress("--- Condition: %s ---", cond.Name)
	condStart := time.Now()

	runs := make([]experiment.RunResult, len(spec.Seeds))
	elapsed := make([]time.Duration, len(spec.Seeds))

	g, gctx := errgroup.WithContext(ctx)
	if r.Jobs > 0 {
		g.SetLimit(r.Jobs)
	}
	for i, seed := range spec.Seeds {
		g.Go(func() error {
			t0 := time.Now()
			run, err := r.RunSingle(gctx, seed, spec.Baseline, cond.Overrides, steps, sampleEvery)
			if err != nil {
				return errors.Wrapf(err, "condition %s seed %d", cond.Name, seed)
			}
			runs[i] = run
			elapsed[i] = time.Since(t0)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, seed := range spec.Seeds {
		for _, s := range runs[i].Samples {
			writeSampleTSV(r.TSV, cond.Name, seed, s)
		}
		r.Log.Progress("  seed=%3d  alive=%4d  %.2fs", seed, runs[i].FinalAliveCount, elapsed[i].Seconds())
	}

	path := results.ConditionPath(filepath.Join(r.OutDir, spec.Prefix), cond.Name)
	if err := results.Write(path, runs); err != nil {
		return nil, err
	}
	r.Log.Progress("  Saved: %s", path)
	r.Log.Progress("  Condition time: %.1fs", time.Since(condStart).Seconds())
	r.Log.Progress("")
	return runs, nil
}

// RunExperiment executes every condition of a spec and writes the manifest
// recording the exact parameters used.
func (r *Runner) RunExperiment(ctx context.Context, spec Spec) error {
	r.Log.Progress("Digital Life v%s", r.Engine.Version())
	r.Log.Progress("%s: %d steps, sample every %d, seeds %d-%d (n=%d)",
		spec.Name, spec.Steps, spec.SampleEvery,
		spec.Seeds[0], spec.Seeds[len(spec.Seeds)-1], len(spec.Seeds))
	r.Log.Progress("")

	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return errors.Wrapf(err, "create output dir %s", r.OutDir)
	}

	// The manifest precedes the runs: if the batch dies halfway, the
	// parameters that produced any partial artifacts are still on disk.
	if spec.ManifestFile != "" {
		if err := r.writeManifest(spec); err != nil {
			return err
		}
	}

	writeHeaderTSV(r.TSV)
	totalStart := time.Now()
	for _, cond := range spec.Conditions {
		if _, err := r.RunCondition(ctx, spec, cond); err != nil {
			return err
		}
	}
	r.Log.Progress("Total experiment time: %.1fs", time.Since(totalStart).Seconds())
	return nil
}

func (r *Runner) writeManifest(spec Spec) error {
	baseJSON, err := r.MakeConfig(spec.Seeds[0], spec.Baseline, nil)
	if err != nil {
		return err
	}
	var baseConfig map[string]any
	if err := json.Unmarshal([]byte(baseJSON), &baseConfig); err != nil {
		return errors.Wrap(err, "decode base config for manifest")
	}

	overrides := make(map[string]map[string]any, len(spec.Conditions))
	for _, cond := range spec.Conditions {
		overrides[cond.Name] = cond.Overrides
	}

	manifest := experiment.NewManifest(spec.Name, spec.Steps, spec.SampleEvery,
		spec.Seeds, baseConfig, overrides, spec.Bindings)
	path := filepath.Join(r.OutDir, spec.ManifestFile)
	if err := experiment.WriteManifest(path, manifest); err != nil {
		return err
	}
	r.Log.Progress("Manifest written: %s", path)
	return nil
}
