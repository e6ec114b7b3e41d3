package analysis

import (
	"fmt"
	"math"
	"path/filepath"

	"goablate/domain/experiment"
	domstats "goablate/domain/stats"
	"goablate/internal/results"
)

// AnalyzeMidrun compares ablation onset at step 0 against onset mid-run for
// every criterion. A criterion whose mid-run ablation hurts less than its
// step-0 ablation matters mostly during establishment; one that hurts as
// much mid-run is needed continuously.
func AnalyzeMidrun(experimentDir string) (*domstats.MidrunReport, error) {
	normalRuns, err := results.Load(filepath.Join(experimentDir, "midrun_normal.json"))
	if err != nil {
		return nil, err
	}
	normalMean := MeanFinalAlive(normalRuns)

	report := &domstats.MidrunReport{Experiment: "midrun_ablation"}
	for _, criterion := range experiment.Criteria {
		step0Runs, err := results.Load(filepath.Join(experimentDir, fmt.Sprintf("midrun_no_%s_step0.json", criterion)))
		if err != nil {
			return nil, err
		}
		midrunRuns, err := results.Load(filepath.Join(experimentDir, fmt.Sprintf("midrun_no_%s_midrun.json", criterion)))
		if err != nil {
			return nil, err
		}
		step0Mean := MeanFinalAlive(step0Runs)
		midrunMean := MeanFinalAlive(midrunRuns)
		report.Criteria = append(report.Criteria, domstats.MidrunEntry{
			Criterion:        criterion,
			NormalMean:       round3(normalMean),
			Step0Mean:        round3(step0Mean),
			MidrunMean:       round3(midrunMean),
			MidrunMinusStep0: round3(midrunMean - step0Mean),
		})
	}
	return report, nil
}

func round3(v float64) float64 {
	return math.Round(v*1e3) / 1e3
}
