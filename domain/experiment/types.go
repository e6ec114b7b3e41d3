package experiment

// Sample is one observation emitted by the simulation engine at a step.
// Std/age/diversity columns were added in later engine versions, so they
// are optional in older result files and default to zero.
type Sample struct {
	Step            int     `json:"step"`
	AliveCount      int     `json:"alive_count"`
	EnergyMean      float64 `json:"energy_mean"`
	WasteMean       float64 `json:"waste_mean"`
	BoundaryMean    float64 `json:"boundary_mean"`
	BirthCount      int     `json:"birth_count"`
	DeathCount      int     `json:"death_count"`
	PopulationSize  int     `json:"population_size"`
	MeanGeneration  float64 `json:"mean_generation"`
	MeanGenomeDrift float64 `json:"mean_genome_drift"`
	EnergyStd       float64 `json:"energy_std,omitempty"`
	WasteStd        float64 `json:"waste_std,omitempty"`
	BoundaryStd     float64 `json:"boundary_std,omitempty"`
	MeanAge         float64 `json:"mean_age,omitempty"`
	GenomeDiversity float64 `json:"genome_diversity,omitempty"`
	MaxGeneration   int     `json:"max_generation,omitempty"`
}

// Metric returns a sample metric by its wire name. Unknown names return 0,
// matching how older result files omit the newer columns entirely.
func (s Sample) Metric(name string) float64 {
	switch name {
	case "alive_count":
		return float64(s.AliveCount)
	case "energy_mean":
		return s.EnergyMean
	case "waste_mean":
		return s.WasteMean
	case "boundary_mean":
		return s.BoundaryMean
	case "birth_count":
		return float64(s.BirthCount)
	case "death_count":
		return float64(s.DeathCount)
	case "population_size":
		return float64(s.PopulationSize)
	case "mean_generation":
		return s.MeanGeneration
	case "mean_genome_drift":
		return s.MeanGenomeDrift
	case "energy_std":
		return s.EnergyStd
	case "waste_std":
		return s.WasteStd
	case "boundary_std":
		return s.BoundaryStd
	case "mean_age":
		return s.MeanAge
	case "genome_diversity":
		return s.GenomeDiversity
	case "max_generation":
		return float64(s.MaxGeneration)
	}
	return 0
}

// RunResult is one seed's full trajectory plus its final scalar outcome.
// Produced by the engine, read-only after deserialization.
type RunResult struct {
	Seed            int      `json:"seed,omitempty"`
	FinalAliveCount int      `json:"final_alive_count"`
	Samples         []Sample `json:"samples"`
}

// HasSamples reports whether the run produced any trajectory data.
// Runs without samples are excluded from statistical extraction.
func (r RunResult) HasSamples() bool {
	return len(r.Samples) > 0
}

// LastSample returns the final sample of the trajectory.
func (r RunResult) LastSample() (Sample, bool) {
	if len(r.Samples) == 0 {
		return Sample{}, false
	}
	return r.Samples[len(r.Samples)-1], true
}

// Condition is one named experimental variant: a set of override flags run
// across multiple seeds.
type Condition struct {
	Name      string
	Overrides map[string]any
	Results   []RunResult
}
