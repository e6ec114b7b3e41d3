package runner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"goablate/domain/experiment"
	"goablate/internal/errors"
)

// SweepGrid maps parameter names to the values swept over. The sweep runs
// the cartesian product of all values.
type SweepGrid map[string][]any

// ThresholdGrid is the viability-threshold sensitivity grid.
var ThresholdGrid = SweepGrid{
	"death_boundary_threshold": {0.05, 0.1, 0.15},
	"reproduction_min_energy":  {0.65, 0.7, 0.75},
	"max_organism_age_steps":   {15000, 20000, 25000},
}

// SweepSetting summarizes one grid point's outcomes over the seed set.
type SweepSetting struct {
	Overrides      map[string]any `json:"overrides"`
	NSuccess       int            `json:"n_success"`
	MeanFinalAlive float64        `json:"mean_final_alive"`
	MinFinalAlive  int            `json:"min_final_alive"`
	MaxFinalAlive  int            `json:"max_final_alive"`
}

// SweepFailure records a single failed engine run. Failures do not abort the
// sweep: the remaining seeds of the setting still count.
type SweepFailure struct {
	Seed      int            `json:"seed"`
	Overrides map[string]any `json:"overrides"`
	Error     string         `json:"error"`
}

// SweepReport is the sensitivity sweep output.
type SweepReport struct {
	Experiment string         `json:"experiment"`
	Seeds      []int          `json:"seeds"`
	N          int            `json:"n"`
	Failures   []SweepFailure `json:"failures"`
	Results    []SweepSetting `json:"results"`
}

// RunThresholdSweep runs the threshold sensitivity grid on a reduced seed
// set and writes threshold_sensitivity.json to the output directory.
func (r *Runner) RunThresholdSweep(ctx context.Context, grid SweepGrid) (*SweepReport, error) {
	seeds := experiment.SeedRange(100, 110)
	report := &SweepReport{
		Experiment: "threshold_sensitivity",
		Seeds:      seeds,
		N:          len(seeds),
		Failures:   []SweepFailure{},
		Results:    []SweepSetting{},
	}

	keys := make([]string, 0, len(grid))
	for k := range grid {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, values := range cartesian(grid, keys) {
		overrides := mergeOverrides(graphOverrides, values)
		var finalAlive []int
		for _, seed := range seeds {
			run, err := r.RunSingle(ctx, seed, experiment.ExtendedBaseline, overrides, 2000, 50)
			if err != nil {
				report.Failures = append(report.Failures, SweepFailure{
					Seed:      seed,
					Overrides: values,
					Error:     err.Error(),
				})
				r.Log.Progress("param sweep failed for seed=%d overrides=%v: %v", seed, values, err)
				continue
			}
			finalAlive = append(finalAlive, run.FinalAliveCount)
		}
		if len(finalAlive) == 0 {
			r.Log.Progress("param sweep skipped setting with no successful seeds: %v", values)
			continue
		}

		sum, minAlive, maxAlive := 0, finalAlive[0], finalAlive[0]
		for _, a := range finalAlive {
			sum += a
			if a < minAlive {
				minAlive = a
			}
			if a > maxAlive {
				maxAlive = a
			}
		}
		report.Results = append(report.Results, SweepSetting{
			Overrides:      values,
			NSuccess:       len(finalAlive),
			MeanFinalAlive: float64(sum) / float64(len(finalAlive)),
			MinFinalAlive:  minAlive,
			MaxFinalAlive:  maxAlive,
		})
	}

	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", r.OutDir)
	}
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal sweep report")
	}
	path := filepath.Join(r.OutDir, "threshold_sensitivity.json")
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return nil, errors.Wrapf(err, "write sweep report %s", path)
	}
	return report, nil
}

// cartesian expands the grid into every combination of key values, keeping
// key order fixed so sweep output is stable run to run.
func cartesian(grid SweepGrid, keys []string) []map[string]any {
	combos := []map[string]any{{}}
	for _, key := range keys {
		var next []map[string]any
		for _, combo := range combos {
			for _, value := range grid[key] {
				expanded := make(map[string]any, len(combo)+1)
				for k, v := range combo {
					expanded[k] = v
				}
				expanded[key] = value
				next = append(next, expanded)
			}
		}
		combos = next
	}
	return combos
}
