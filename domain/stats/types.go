package stats

// Comparison holds the outcome of testing one ablated condition against the
// normal baseline. PCorrected and Significant are filled in once, after the
// whole batch has been through multiple-comparison correction.
type Comparison struct {
	Condition    string  `json:"condition"`
	NNormal      int     `json:"n_normal"`
	NAblated     int     `json:"n_ablated"`
	NormalMean   float64 `json:"normal_mean"`
	AblationMean float64 `json:"ablation_mean"`
	U            float64 `json:"U"`
	PRaw         float64 `json:"p_raw"`
	CohensD      float64 `json:"cohens_d"`
	PCorrected   float64 `json:"p_corrected"`
	Significant  bool    `json:"significant"`
}

// SkippedComparison records a condition excluded from the corrected batch
// and why, so incomplete data is visible in the report instead of vanishing.
type SkippedComparison struct {
	Condition string `json:"condition"`
	Reason    string `json:"reason"`
}

// AblationReport is the machine-readable output of the ablation statistics
// pipeline.
type AblationReport struct {
	Experiment       string              `json:"experiment"`
	NPerCondition    int                 `json:"n_per_condition"`
	Alpha            float64             `json:"alpha"`
	Correction       string              `json:"correction"`
	SignificantCount int                 `json:"significant_count"`
	TotalComparisons int                 `json:"total_comparisons"`
	Comparisons      []*Comparison       `json:"comparisons"`
	Skipped          []SkippedComparison `json:"skipped,omitempty"`
}

// ConditionSummary aggregates one condition's seed set: final-outcome
// statistics plus means of the last sample across seeds.
type ConditionSummary struct {
	Condition    string  `json:"condition"`
	Seeds        int     `json:"seeds"`
	AliveMean    float64 `json:"alive_mean"`
	AliveMin     float64 `json:"alive_min"`
	AliveMax     float64 `json:"alive_max"`
	ExtinctCount int     `json:"extinct_count"`
	EnergyMean   float64 `json:"energy_mean"`
	BoundaryMean float64 `json:"boundary_mean"`
	WasteMean    float64 `json:"waste_mean"`
	TotalBirths  int     `json:"total_births"`
	TotalDeaths  int     `json:"total_deaths"`
}

// FeasibilityCheck is one gate criterion of the 1000-step assessment.
type FeasibilityCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// FeasibilityReport is the go/no-go assessment over the 1000-step run.
// OK is the sole signal automation consumes (exit status of the harness).
type FeasibilityReport struct {
	OK        bool               `json:"ok"`
	Checks    []FeasibilityCheck `json:"checks"`
	Summaries []ConditionSummary `json:"summaries"`
}

// CriterionEffect is one criterion's ablation effect measured under default
// and alternative implementation modes.
type CriterionEffect struct {
	EffectDefault       float64 `json:"effect_default"`
	EffectAlt           float64 `json:"effect_alt"`
	DirectionConsistent bool    `json:"direction_consistent"`
}

// InvarianceReport compares ablation effects across implementation modes.
type InvarianceReport struct {
	Experiment  string             `json:"experiment"`
	Baseline    map[string]float64 `json:"baseline"`
	Boundary    CriterionEffect    `json:"boundary"`
	Homeostasis CriterionEffect    `json:"homeostasis"`
}

// MidrunEntry compares step-0 vs mid-run ablation onset for one criterion.
type MidrunEntry struct {
	Criterion        string  `json:"criterion"`
	NormalMean       float64 `json:"normal_mean"`
	Step0Mean        float64 `json:"step0_mean"`
	MidrunMean       float64 `json:"midrun_mean"`
	MidrunMinusStep0 float64 `json:"midrun_minus_step0"`
}

// MidrunReport summarizes mid-run vs step-0 ablation outcomes.
type MidrunReport struct {
	Experiment string        `json:"experiment"`
	Criteria   []MidrunEntry `json:"criteria"`
}

// PathwaySummary holds the first 50%-drop step per tracked metric for one
// condition. A nil step means the series never dropped that far.
type PathwaySummary struct {
	EnergyDrop50Step   *int `json:"energy_drop50_step"`
	BoundaryDrop50Step *int `json:"boundary_drop50_step"`
	AliveDrop50Step    *int `json:"alive_drop50_step"`
}

// PathwayReport traces failure ordering across ablation conditions.
type PathwayReport struct {
	Experiment   string         `json:"experiment"`
	Normal       PathwaySummary `json:"normal"`
	NoMetabolism PathwaySummary `json:"no_metabolism"`
	NoResponse   PathwaySummary `json:"no_response"`
}
