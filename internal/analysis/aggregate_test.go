package analysis

import (
	"testing"

	"goablate/domain/experiment"
	"goablate/internal/errors"
)

func makeRun(finalAlive int, samples ...experiment.Sample) experiment.RunResult {
	return experiment.RunResult{FinalAliveCount: finalAlive, Samples: samples}
}

func TestSummarizeCondition_EmptyInputFails(t *testing.T) {
	_, err := SummarizeCondition("normal", nil)
	if err == nil {
		t.Fatal("aggregating zero records must fail, not default to zero")
	}
	if errors.GetCode(err) != errors.CodeEmptyInput {
		t.Errorf("expected %s, got %s", errors.CodeEmptyInput, errors.GetCode(err))
	}
}

func TestSummarizeCondition_Values(t *testing.T) {
	runs := []experiment.RunResult{
		makeRun(10,
			experiment.Sample{Step: 50, EnergyMean: 0.5, BoundaryMean: 0.9, WasteMean: 0.1, BirthCount: 3, DeathCount: 1},
			experiment.Sample{Step: 100, EnergyMean: 0.6, BoundaryMean: 0.8, WasteMean: 0.2, BirthCount: 2, DeathCount: 2},
		),
		makeRun(0,
			experiment.Sample{Step: 100, EnergyMean: 0.2, BoundaryMean: 0.4, WasteMean: 0.4, BirthCount: 1, DeathCount: 5},
		),
	}

	summary, err := SummarizeCondition("no_metabolism", runs)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Seeds != 2 {
		t.Errorf("Seeds = %d, want 2", summary.Seeds)
	}
	if summary.AliveMean != 5 {
		t.Errorf("AliveMean = %v, want 5", summary.AliveMean)
	}
	if summary.AliveMin != 0 || summary.AliveMax != 10 {
		t.Errorf("min/max = %v/%v, want 0/10", summary.AliveMin, summary.AliveMax)
	}
	if summary.ExtinctCount != 1 {
		t.Errorf("ExtinctCount = %d, want 1", summary.ExtinctCount)
	}
	// Last-sample means: energy (0.6+0.2)/2, boundary (0.8+0.4)/2.
	if summary.EnergyMean != 0.4 {
		t.Errorf("EnergyMean = %v, want 0.4", summary.EnergyMean)
	}
	if summary.BoundaryMean != 0.6 {
		t.Errorf("BoundaryMean = %v, want 0.6", summary.BoundaryMean)
	}
	if summary.TotalBirths != 6 || summary.TotalDeaths != 8 {
		t.Errorf("births/deaths = %d/%d, want 6/8", summary.TotalBirths, summary.TotalDeaths)
	}
}

func TestMeanFinalAlive(t *testing.T) {
	if m := MeanFinalAlive(nil); m != 0 {
		t.Errorf("empty runs should average to 0, got %v", m)
	}
	runs := []experiment.RunResult{makeRun(4), makeRun(8)}
	if m := MeanFinalAlive(runs); m != 6 {
		t.Errorf("MeanFinalAlive = %v, want 6", m)
	}
}
