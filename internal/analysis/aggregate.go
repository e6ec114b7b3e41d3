package analysis

import (
	mstats "github.com/montanaflynn/stats"

	"goablate/domain/experiment"
	domstats "goablate/domain/stats"
	"goablate/internal/errors"
)

// SummarizeCondition reduces one condition's seed set to scalar summary
// statistics. An empty input is a caller bug and fails loudly: "no data" and
// "data that happens to be zero" must stay distinguishable.
func SummarizeCondition(condition string, runs []experiment.RunResult) (domstats.ConditionSummary, error) {
	if len(runs) == 0 {
		return domstats.ConditionSummary{}, errors.EmptyInput("condition " + condition)
	}

	finalAlive := make([]float64, 0, len(runs))
	var energy, boundary, waste []float64
	totalBirths, totalDeaths := 0, 0
	for _, r := range runs {
		finalAlive = append(finalAlive, float64(r.FinalAliveCount))
		if last, ok := r.LastSample(); ok {
			energy = append(energy, last.EnergyMean)
			boundary = append(boundary, last.BoundaryMean)
			waste = append(waste, last.WasteMean)
		}
		for _, s := range r.Samples {
			totalBirths += s.BirthCount
			totalDeaths += s.DeathCount
		}
	}

	aliveMean, _ := mstats.Mean(finalAlive)
	aliveMin, _ := mstats.Min(finalAlive)
	aliveMax, _ := mstats.Max(finalAlive)
	extinct := 0
	for _, a := range finalAlive {
		if a == 0 {
			extinct++
		}
	}

	return domstats.ConditionSummary{
		Condition:    condition,
		Seeds:        len(runs),
		AliveMean:    aliveMean,
		AliveMin:     aliveMin,
		AliveMax:     aliveMax,
		ExtinctCount: extinct,
		EnergyMean:   meanOrZero(energy),
		BoundaryMean: meanOrZero(boundary),
		WasteMean:    meanOrZero(waste),
		TotalBirths:  totalBirths,
		TotalDeaths:  totalDeaths,
	}, nil
}

// MeanFinalAlive averages final_alive_count across a condition's runs.
// An empty condition averages to 0, which the invariance and midrun reports
// rely on for missing condition files.
func MeanFinalAlive(runs []experiment.RunResult) float64 {
	if len(runs) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range runs {
		sum += float64(r.FinalAliveCount)
	}
	return sum / float64(len(runs))
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, _ := mstats.Mean(values)
	return m
}
