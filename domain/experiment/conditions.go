package experiment

// CriterionFlags maps each life criterion to the engine flag that disables
// it when set to false.
var CriterionFlags = map[string]string{
	"metabolism":   "enable_metabolism",
	"boundary":     "enable_boundary_maintenance",
	"homeostasis":  "enable_homeostasis",
	"response":     "enable_response",
	"reproduction": "enable_reproduction",
	"evolution":    "enable_evolution",
	"growth":       "enable_growth",
}

// Criteria lists the seven ablatable criteria in canonical report order.
var Criteria = []string{
	"metabolism",
	"boundary",
	"homeostasis",
	"response",
	"reproduction",
	"evolution",
	"growth",
}

// AblationConditions lists the single-criterion ablation conditions compared
// against the "normal" baseline by the statistics pipeline.
var AblationConditions = []string{
	"no_metabolism",
	"no_boundary",
	"no_homeostasis",
	"no_response",
	"no_reproduction",
	"no_evolution",
	"no_growth",
}

// TunedBaseline holds the survival parameters settled by the calibration
// sweep. Applied on top of the engine's default config before any condition
// overrides.
var TunedBaseline = map[string]any{
	"boundary_decay_base_rate":  0.001,
	"boundary_repair_rate":      0.05,
	"metabolic_viability_floor": 0.1,
	"crowding_neighbor_threshold": 50.0,
}

// ExtendedBaseline adds the homeostasis/growth/resource parameters used by
// the full 2000-step experiment set.
var ExtendedBaseline = map[string]any{
	"boundary_decay_base_rate":            0.001,
	"boundary_repair_rate":                0.05,
	"metabolic_viability_floor":           0.1,
	"crowding_neighbor_threshold":         50.0,
	"homeostasis_decay_rate":              0.01,
	"growth_maturation_steps":             200,
	"growth_immature_metabolic_efficiency": 0.3,
	"resource_regeneration_rate":          0.01,
}

// PairwiseCriteria lists the criterion pairs tested for interaction effects,
// chosen from the top single-ablation effect sizes.
var PairwiseCriteria = [][2]string{
	{"metabolism", "homeostasis"},
	{"metabolism", "response"},
	{"reproduction", "growth"},
	{"boundary", "homeostasis"},
	{"response", "homeostasis"},
	{"reproduction", "evolution"},
}

// AblationOverrides returns the overrides disabling the named criteria.
func AblationOverrides(criteria ...string) map[string]any {
	overrides := make(map[string]any, len(criteria))
	for _, c := range criteria {
		if flag, ok := CriterionFlags[c]; ok {
			overrides[flag] = false
		}
	}
	return overrides
}

// SeedRange returns the inclusive-exclusive integer seed range [lo, hi).
func SeedRange(lo, hi int) []int {
	seeds := make([]int, 0, hi-lo)
	for s := lo; s < hi; s++ {
		seeds = append(seeds, s)
	}
	return seeds
}
