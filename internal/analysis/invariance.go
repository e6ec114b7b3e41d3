package analysis

import (
	"path/filepath"

	domstats "goablate/domain/stats"
	"goablate/internal/results"
)

// AnalyzeInvariance compares criterion ablation effects across alternative
// implementation modes. An effect that holds under both the default and the
// alternative implementation of a mechanism supports the claim that the
// criterion itself, not one implementation of it, carries the effect.
func AnalyzeInvariance(experimentDir string) (*domstats.InvarianceReport, error) {
	load := func(condition string) (float64, error) {
		runs, err := results.Load(filepath.Join(experimentDir, "invariance_"+condition+".json"))
		if err != nil {
			return 0, err
		}
		return MeanFinalAlive(runs), nil
	}

	baselineDefault, err := load("baseline_default")
	if err != nil {
		return nil, err
	}
	baselineAlt, err := load("baseline_alt_modes")
	if err != nil {
		return nil, err
	}
	noBoundaryDefault, err := load("no_boundary_default")
	if err != nil {
		return nil, err
	}
	noBoundaryAlt, err := load("no_boundary_alt_mode")
	if err != nil {
		return nil, err
	}
	noHomeoDefault, err := load("no_homeostasis_default")
	if err != nil {
		return nil, err
	}
	noHomeoAlt, err := load("no_homeostasis_alt_mode")
	if err != nil {
		return nil, err
	}

	return &domstats.InvarianceReport{
		Experiment: "implementation_invariance",
		Baseline: map[string]float64{
			"default_modes": round3(baselineDefault),
			"alt_modes":     round3(baselineAlt),
		},
		Boundary:    criterionEffect(baselineDefault, noBoundaryDefault, baselineAlt, noBoundaryAlt),
		Homeostasis: criterionEffect(baselineDefault, noHomeoDefault, baselineAlt, noHomeoAlt),
	}, nil
}

func criterionEffect(baseDefault, ablatedDefault, baseAlt, ablatedAlt float64) domstats.CriterionEffect {
	effectDefault := baseDefault - ablatedDefault
	effectAlt := baseAlt - ablatedAlt
	return domstats.CriterionEffect{
		EffectDefault:       round3(effectDefault),
		EffectAlt:           round3(effectAlt),
		DirectionConsistent: (effectDefault >= 0) == (effectAlt >= 0),
	}
}
