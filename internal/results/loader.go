// Package results reads and writes the per-condition JSON result files
// produced by experiment runs.
package results

import (
	"encoding/json"
	"fmt"
	"os"

	"goablate/domain/experiment"
	"goablate/internal/errors"
)

// ConditionPath returns the result file path for a condition under a prefix,
// e.g. prefix "experiments/final_graph" and condition "no_metabolism" maps
// to "experiments/final_graph_no_metabolism.json".
func ConditionPath(prefix, condition string) string {
	return fmt.Sprintf("%s_%s.json", prefix, condition)
}

// Load reads a JSON array of run results. A file that exists but does not
// decode as an array of runs is malformed data, not an empty condition.
func Load(path string) ([]experiment.RunResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read results %s", path)
	}
	var runs []experiment.RunResult
	if err := json.Unmarshal(raw, &runs); err != nil {
		return nil, errors.MalformedData(fmt.Sprintf("results %s: %v", path, err))
	}
	return runs, nil
}

// LoadCondition reads one condition's results under a prefix. A missing file
// means the condition was never run and yields an empty slice, so analyses
// can skip it instead of crashing.
func LoadCondition(prefix, condition string) ([]experiment.RunResult, error) {
	path := ConditionPath(prefix, condition)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return Load(path)
}

// Write persists a condition's results as indented JSON.
func Write(path string, runs []experiment.RunResult) error {
	payload, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal results")
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "write results %s", path)
	}
	return nil
}

// FinalAliveValues extracts final_alive_count from each run that produced
// samples. Runs without trajectory data are excluded, matching the filter
// the statistics pipeline has always applied.
func FinalAliveValues(runs []experiment.RunResult) []float64 {
	values := make([]float64, 0, len(runs))
	for _, r := range runs {
		if r.HasSamples() {
			values = append(values, float64(r.FinalAliveCount))
		}
	}
	return values
}
