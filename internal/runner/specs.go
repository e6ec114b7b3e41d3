package runner

import (
	"fmt"

	"goablate/domain/experiment"
)

// ConditionSpec is one condition of an experiment. Zero Steps/SampleEvery
// inherit the spec-level values.
type ConditionSpec struct {
	Name        string
	Overrides   map[string]any
	Steps       int
	SampleEvery int
}

// Spec is a complete experiment protocol: timing, seed set, baseline
// parameters and the condition list.
type Spec struct {
	Name         string
	Prefix       string
	Steps        int
	SampleEvery  int
	Seeds        []int
	Baseline     map[string]any
	Conditions   []ConditionSpec
	Bindings     []experiment.ReportBinding
	ManifestFile string
}

// graphOverrides selects the graph metabolism implementation used by all
// 2000-step experiments.
var graphOverrides = map[string]any{"metabolism_mode": "graph"}

// FeasibilitySpec is the 1000-step go/no-go protocol on the calibration
// seed set.
func FeasibilitySpec() Spec {
	return Spec{
		Name:        "1000step_feasibility",
		Prefix:      "1000step",
		Steps:       1000,
		SampleEvery: 10,
		Seeds:       experiment.SeedRange(0, 10),
		Baseline:    experiment.TunedBaseline,
		Conditions: []ConditionSpec{
			{Name: "normal", Overrides: map[string]any{}},
			{Name: "no_metabolism", Overrides: experiment.AblationOverrides("metabolism")},
			{Name: "no_boundary", Overrides: experiment.AblationOverrides("boundary")},
		},
	}
}

// FinalAblationSpec is the primary single-criterion ablation protocol: all
// seven criteria ablated independently on the test seed set.
func FinalAblationSpec() Spec {
	conditions := []ConditionSpec{{Name: "normal", Overrides: mergeOverrides(graphOverrides, nil)}}
	for _, criterion := range experiment.Criteria {
		conditions = append(conditions, ConditionSpec{
			Name:      "no_" + criterion,
			Overrides: mergeOverrides(graphOverrides, experiment.AblationOverrides(criterion)),
		})
	}
	return Spec{
		Name:         "final_graph_ablation",
		Prefix:       "final_graph",
		Steps:        2000,
		SampleEvery:  50,
		Seeds:        experiment.SeedRange(100, 130),
		Baseline:     experiment.ExtendedBaseline,
		Conditions:   conditions,
		ManifestFile: "final_graph_manifest.json",
		Bindings: []experiment.ReportBinding{
			{
				ResultID: "ablation_primary",
				PaperRef: "tab:ablation",
				SourceFiles: []string{
					"experiments/final_graph_data.tsv",
					"experiments/final_graph_statistics.json",
				},
			},
		},
	}
}

// PairwiseSpec ablates criterion pairs to probe interaction effects beyond
// independent necessity.
func PairwiseSpec() Spec {
	conditions := []ConditionSpec{{Name: "normal", Overrides: map[string]any{}}}
	for _, pair := range experiment.PairwiseCriteria {
		conditions = append(conditions, ConditionSpec{
			Name:      fmt.Sprintf("no_%s_no_%s", pair[0], pair[1]),
			Overrides: experiment.AblationOverrides(pair[0], pair[1]),
		})
	}
	return Spec{
		Name:        "pairwise_ablation",
		Prefix:      "pairwise",
		Steps:       2000,
		SampleEvery: 50,
		Seeds:       experiment.SeedRange(100, 130),
		Baseline:    experiment.ExtendedBaseline,
		Conditions:  conditions,
	}
}

// InvarianceSpec reruns the boundary and homeostasis ablations under
// alternative implementation modes.
func InvarianceSpec() Spec {
	return Spec{
		Name:        "implementation_invariance",
		Prefix:      "invariance",
		Steps:       2000,
		SampleEvery: 50,
		Seeds:       experiment.SeedRange(100, 130),
		Baseline:    experiment.ExtendedBaseline,
		Conditions: []ConditionSpec{
			{Name: "baseline_default", Overrides: mergeOverrides(graphOverrides, nil)},
			{Name: "no_boundary_default", Overrides: mergeOverrides(graphOverrides, experiment.AblationOverrides("boundary"))},
			{Name: "no_boundary_alt_mode", Overrides: mergeOverrides(graphOverrides, experiment.AblationOverrides("boundary"), map[string]any{
				"boundary_mode": "spatial_hull_feedback",
			})},
			{Name: "no_homeostasis_default", Overrides: mergeOverrides(graphOverrides, experiment.AblationOverrides("homeostasis"))},
			{Name: "no_homeostasis_alt_mode", Overrides: mergeOverrides(graphOverrides, experiment.AblationOverrides("homeostasis"), map[string]any{
				"homeostasis_mode": "setpoint_pid",
			})},
			{Name: "baseline_alt_modes", Overrides: mergeOverrides(graphOverrides, map[string]any{
				"boundary_mode":    "spatial_hull_feedback",
				"homeostasis_mode": "setpoint_pid",
			})},
		},
		ManifestFile: "invariance_manifest.json",
		Bindings: []experiment.ReportBinding{
			{
				ResultID: "implementation_invariance",
				PaperRef: "fig:invariance",
				SourceFiles: []string{
					"experiments/invariance_data.tsv",
					"experiments/invariance_statistics.json",
				},
			},
		},
	}
}

// EvolutionSpec runs the two evolution sub-experiments: a 10000-step long
// run and a 5000-step run with a resource shift at step 2500, each normal
// vs no_evolution.
func EvolutionSpec() Spec {
	shiftOverrides := map[string]any{
		"environment_shift_step":          2500,
		"environment_shift_resource_rate": 0.005,
	}
	return Spec{
		Name:        "evolution_strengthening",
		Prefix:      "evolution",
		Steps:       10000,
		SampleEvery: 100,
		Seeds:       experiment.SeedRange(100, 130),
		Baseline:    experiment.ExtendedBaseline,
		Conditions: []ConditionSpec{
			{Name: "long_normal", Overrides: map[string]any{}},
			{Name: "long_no_evolution", Overrides: experiment.AblationOverrides("evolution")},
			{Name: "shift_normal", Overrides: mergeOverrides(shiftOverrides, nil), Steps: 5000},
			{Name: "shift_no_evolution", Overrides: mergeOverrides(shiftOverrides, experiment.AblationOverrides("evolution")), Steps: 5000},
		},
	}
}

// Specs maps experiment names to their protocol constructors for the CLI.
var Specs = map[string]func() Spec{
	"feasibility": FeasibilitySpec,
	"final":       FinalAblationSpec,
	"pairwise":    PairwiseSpec,
	"invariance":  InvarianceSpec,
	"evolution":   EvolutionSpec,
}

func mergeOverrides(maps ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
