package analysis

import (
	"fmt"

	domstats "goablate/domain/stats"
	"goablate/internal/errors"
	"goablate/internal/results"
)

// FeasibilityConditions are the three conditions of the 1000-step go/no-go
// run: baseline plus the two ablations expected to show the clearest
// degradation.
var FeasibilityConditions = []string{"normal", "no_metabolism", "no_boundary"}

// AssessFeasibility loads the 1000-step feasibility conditions under prefix
// and evaluates the go/no-go gate:
//
//  1. organisms survive under normal conditions,
//  2. disabling metabolism degrades survival,
//  3. disabling boundary maintenance degrades survival.
//
// All three checks must pass for OK; automation consumes OK as the process
// exit status.
func AssessFeasibility(prefix string) (*domstats.FeasibilityReport, error) {
	summaries := make(map[string]domstats.ConditionSummary, len(FeasibilityConditions))
	report := &domstats.FeasibilityReport{}
	for _, condition := range FeasibilityConditions {
		runs, err := results.LoadCondition(prefix, condition)
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return nil, errors.MissingInput(fmt.Sprintf("feasibility results for condition %q", condition))
		}
		summary, err := SummarizeCondition(condition, runs)
		if err != nil {
			return nil, err
		}
		summaries[condition] = summary
		report.Summaries = append(report.Summaries, summary)
	}

	normal := summaries["normal"]
	noMet := summaries["no_metabolism"]
	noBnd := summaries["no_boundary"]

	survive := normal.AliveMean > 0
	survivalDetail := "all organisms extinct under normal conditions"
	if survive {
		survivalDetail = fmt.Sprintf("%.1f alive at final step under normal conditions", normal.AliveMean)
	}
	report.Checks = append(report.Checks, domstats.FeasibilityCheck{
		Name: "survival", Passed: survive, Detail: survivalDetail,
	})

	report.Checks = append(report.Checks, degradationCheck("metabolism_ablation", normal, noMet))
	report.Checks = append(report.Checks, degradationCheck("boundary_ablation", normal, noBnd))

	report.OK = true
	for _, c := range report.Checks {
		if !c.Passed {
			report.OK = false
		}
	}
	return report, nil
}

func degradationCheck(name string, normal, ablated domstats.ConditionSummary) domstats.FeasibilityCheck {
	if normal.AliveMean > 0 && ablated.AliveMean < normal.AliveMean {
		ratio := ablated.AliveMean / normal.AliveMean
		return domstats.FeasibilityCheck{
			Name:   name,
			Passed: true,
			Detail: fmt.Sprintf("degradation shown: %.1f vs %.1f (%.1f%% of normal)",
				ablated.AliveMean, normal.AliveMean, ratio*100),
		}
	}
	return domstats.FeasibilityCheck{
		Name:   name,
		Passed: false,
		Detail: fmt.Sprintf("no clear ablation effect: ablated=%.1f vs normal=%.1f",
			ablated.AliveMean, normal.AliveMean),
	}
}
