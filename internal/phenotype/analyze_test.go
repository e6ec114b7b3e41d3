package phenotype

import (
	"testing"

	"goablate/domain/experiment"
)

func blobRun(step int, energy, waste float64) experiment.RunResult {
	return experiment.RunResult{
		FinalAliveCount: 10,
		Samples: []experiment.Sample{{
			Step:       step,
			EnergyMean: energy,
			WasteMean:  waste,
		}},
	}
}

func TestExtractTraitsAtStep(t *testing.T) {
	run := experiment.RunResult{
		Samples: []experiment.Sample{
			{Step: 100, EnergyMean: 0.1},
			{Step: 700, EnergyMean: 0.7},
			{Step: 900, EnergyMean: 0.9},
		},
	}
	traits := ExtractTraitsAtStep([]experiment.RunResult{run, {}}, 750)
	if len(traits) != 1 {
		t.Fatalf("got %d rows, want 1 (empty run excluded)", len(traits))
	}
	// Closest sample to step 750 is the one at 700.
	if traits[0][0] != 0.7 {
		t.Errorf("energy_mean = %v, want 0.7", traits[0][0])
	}
}

func TestClusterTraits(t *testing.T) {
	var runs []experiment.RunResult
	for i := 0; i < 5; i++ {
		runs = append(runs, blobRun(1000, 0.2, 0.8))
		runs = append(runs, blobRun(1000, 0.9, 0.1))
	}
	// Tiny jitter keeps the blobs non-degenerate.
	for i := range runs {
		runs[i].Samples[0].EnergyMean += float64(i) * 0.001
	}

	report, err := ClusterTraits(ExtractFinalTraits(runs), 5)
	if err != nil {
		t.Fatal(err)
	}
	if report.NClusters != 2 {
		t.Errorf("NClusters = %d, want 2 for two-blob data", report.NClusters)
	}
	if len(report.Labels) != len(runs) {
		t.Errorf("got %d labels for %d runs", len(report.Labels), len(runs))
	}
	if len(report.ClusterProfiles) != report.NClusters {
		t.Errorf("got %d profiles for k=%d", len(report.ClusterProfiles), report.NClusters)
	}
	total := 0
	for _, p := range report.ClusterProfiles {
		total += p.Count
		if p.Traits["energy_mean"] == 0 && p.Count > 0 {
			t.Errorf("cluster %d has zero energy_mean profile", p.ClusterID)
		}
	}
	if total != len(runs) {
		t.Errorf("profile counts sum to %d, want %d", total, len(runs))
	}
}

func TestClusterTraitsRejectsTinyInput(t *testing.T) {
	traits := [][]float64{{1, 2, 3, 4, 5}, {2, 3, 4, 5, 6}}
	if _, err := ClusterTraits(traits, 5); err == nil {
		t.Error("fewer than 4 trait vectors must be rejected")
	}
}

func TestAnalyzeTemporalPersistence(t *testing.T) {
	var runs []experiment.RunResult
	for i := 0; i < 6; i++ {
		energy := 0.2
		if i%2 == 0 {
			energy = 0.9
		}
		runs = append(runs, experiment.RunResult{
			Samples: []experiment.Sample{
				{Step: 750, EnergyMean: energy, WasteMean: 1 - energy},
				{Step: 1750, EnergyMean: energy, WasteMean: 1 - energy},
			},
		})
	}

	report, err := AnalyzeTemporalPersistence(runs, 750, 1750)
	if err != nil {
		t.Fatal(err)
	}
	// Identical windows cluster identically, so agreement is perfect.
	if report.AdjustedRandIndex != 1 {
		t.Errorf("ARI = %v, want 1 for identical windows", report.AdjustedRandIndex)
	}
	if report.EarlyClusters.NClusters != 2 || report.LateClusters.NClusters != 2 {
		t.Error("window summaries must use k=2")
	}
	sum := 0.0
	for _, p := range report.EarlyClusters.ClusterProportions {
		sum += p
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("cluster proportions sum to %v, want 1", sum)
	}
}
