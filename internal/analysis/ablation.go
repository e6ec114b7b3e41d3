package analysis

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"goablate/domain/experiment"
	domstats "goablate/domain/stats"
	"goablate/internal"
	"goablate/internal/errors"
	"goablate/internal/results"
)

// AblationOptions tunes the ablation statistics pipeline.
type AblationOptions struct {
	// Alpha is the family-wise significance level after correction.
	Alpha float64
	// Conditions lists the ablated conditions compared against "normal".
	// Empty means the canonical single-criterion ablation set.
	Conditions []string
	// Log receives the progress trace. Nil uses the default stderr logger.
	Log *internal.Logger
}

// AnalyzeAblations loads the baseline and each ablated condition under
// prefix, compares every usable condition against baseline with a one-sided
// Mann-Whitney test and Cohen's d, corrects the batch with Holm-Bonferroni,
// and returns the report.
//
// Conditions with no result file or fewer than 2 sampled seeds are excluded
// from the corrected batch but recorded in the report's Skipped list, so an
// incomplete sweep is visible rather than silently thinner.
func AnalyzeAblations(prefix string, opts AblationOptions) (*domstats.AblationReport, error) {
	log := opts.Log
	if log == nil {
		log = internal.DefaultLogger
	}
	if opts.Alpha == 0 {
		opts.Alpha = 0.05
	}
	conditions := opts.Conditions
	if len(conditions) == 0 {
		conditions = experiment.AblationConditions
	}

	normalRuns, err := results.LoadCondition(prefix, "normal")
	if err != nil {
		return nil, err
	}
	normalAlive := results.FinalAliveValues(normalRuns)
	if len(normalAlive) == 0 {
		return nil, errors.MissingInput("normal baseline results for " + prefix)
	}
	normalMean, _ := mstats.Mean(normalAlive)
	log.Progress("Normal baseline: n=%d, mean=%.1f", len(normalAlive), normalMean)

	report := &domstats.AblationReport{
		Experiment:    "criterion_ablation",
		NPerCondition: len(normalAlive),
		Alpha:         opts.Alpha,
		Correction:    "holm_bonferroni",
	}

	var rawP []float64
	for _, condition := range conditions {
		runs, err := results.LoadCondition(prefix, condition)
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			log.Progress("  %s: SKIPPED (no data)", condition)
			report.Skipped = append(report.Skipped, domstats.SkippedComparison{
				Condition: condition, Reason: "no data",
			})
			continue
		}
		ablatedAlive := results.FinalAliveValues(runs)
		if len(ablatedAlive) < 2 {
			log.Progress("  %s: SKIPPED (n=%d < 2)", condition, len(ablatedAlive))
			report.Skipped = append(report.Skipped, domstats.SkippedComparison{
				Condition: condition, Reason: "insufficient samples",
			})
			continue
		}

		u, p, err := MannWhitneyU(normalAlive, ablatedAlive, AlternativeGreater)
		if err != nil {
			return nil, errors.Wrapf(err, "compare %s against baseline", condition)
		}
		d := CohensD(normalAlive, ablatedAlive)
		ablationMean, _ := mstats.Mean(ablatedAlive)

		report.Comparisons = append(report.Comparisons, &domstats.Comparison{
			Condition:    condition,
			NNormal:      len(normalAlive),
			NAblated:     len(ablatedAlive),
			NormalMean:   normalMean,
			AblationMean: ablationMean,
			U:            u,
			PRaw:         p,
			CohensD:      round4(d),
		})
		rawP = append(rawP, p)
		log.Progress("  %s: U=%.1f, p=%.6f, d=%.3f, normal=%.1f, ablated=%.1f",
			condition, u, p, d, normalMean, ablationMean)
	}

	corrected := HolmBonferroni(rawP)
	for i, comp := range report.Comparisons {
		comp.PCorrected = round6(corrected[i])
		comp.Significant = comp.PCorrected < opts.Alpha
		if comp.Significant {
			report.SignificantCount++
		}
	}
	report.TotalComparisons = len(report.Comparisons)

	log.Progress("Significant: %d/%d", report.SignificantCount, report.TotalComparisons)
	for _, comp := range report.Comparisons {
		status := "n.s."
		if comp.Significant {
			status = "SIG"
		}
		log.Progress("  [%s] %s: p_corr=%.6f, d=%.3f",
			status, comp.Condition, comp.PCorrected, comp.CohensD)
	}
	return report, nil
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
