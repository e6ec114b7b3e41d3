package analysis

import (
	"path/filepath"
	"sort"

	"goablate/domain/experiment"
	domstats "goablate/domain/stats"
	"goablate/internal/results"
)

// StepValue is one point of a step-indexed mean series.
type StepValue struct {
	Step  int
	Value float64
}

// MeanSeries buckets samples by step across all seeds and averages the named
// metric per step, in ascending step order.
func MeanSeries(runs []experiment.RunResult, metric string) []StepValue {
	buckets := make(map[int][]float64)
	for _, r := range runs {
		for _, s := range r.Samples {
			buckets[s.Step] = append(buckets[s.Step], s.Metric(metric))
		}
	}
	steps := make([]int, 0, len(buckets))
	for step := range buckets {
		steps = append(steps, step)
	}
	sort.Ints(steps)

	series := make([]StepValue, 0, len(steps))
	for _, step := range steps {
		vals := buckets[step]
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		series = append(series, StepValue{Step: step, Value: sum / float64(len(vals))})
	}
	return series
}

// FirstDropStep returns the first step at which the series falls to frac of
// its initial value, or nil if it never does (or the series starts at or
// below zero, where "dropping by half" has no meaning).
func FirstDropStep(series []StepValue, frac float64) *int {
	if len(series) == 0 {
		return nil
	}
	baseline := series[0].Value
	if baseline <= 0 {
		return nil
	}
	threshold := baseline * frac
	for _, sv := range series {
		if sv.Value <= threshold {
			step := sv.Step
			return &step
		}
	}
	return nil
}

// AnalyzeFailurePathways extracts 50%-drop timing for energy, boundary and
// population from the primary ablation result files, tracing which subsystem
// collapses first under each ablation.
func AnalyzeFailurePathways(experimentDir string) (*domstats.PathwayReport, error) {
	summarize := func(file string) (domstats.PathwaySummary, error) {
		runs, err := results.Load(filepath.Join(experimentDir, file))
		if err != nil {
			return domstats.PathwaySummary{}, err
		}
		return domstats.PathwaySummary{
			EnergyDrop50Step:   FirstDropStep(MeanSeries(runs, "energy_mean"), 0.5),
			BoundaryDrop50Step: FirstDropStep(MeanSeries(runs, "boundary_mean"), 0.5),
			AliveDrop50Step:    FirstDropStep(MeanSeries(runs, "alive_count"), 0.5),
		}, nil
	}

	normal, err := summarize("final_graph_normal.json")
	if err != nil {
		return nil, err
	}
	noMetabolism, err := summarize("final_graph_no_metabolism.json")
	if err != nil {
		return nil, err
	}
	noResponse, err := summarize("final_graph_no_response.json")
	if err != nil {
		return nil, err
	}

	return &domstats.PathwayReport{
		Experiment:   "failure_pathways",
		Normal:       normal,
		NoMetabolism: noMetabolism,
		NoResponse:   noResponse,
	}, nil
}
