package analysis

import (
	"testing"

	"goablate/domain/experiment"
)

func TestMeanSeries(t *testing.T) {
	runs := []experiment.RunResult{
		{Samples: []experiment.Sample{{Step: 50, EnergyMean: 0.4}, {Step: 100, EnergyMean: 0.2}}},
		{Samples: []experiment.Sample{{Step: 100, EnergyMean: 0.6}, {Step: 50, EnergyMean: 0.8}}},
	}
	series := MeanSeries(runs, "energy_mean")
	if len(series) != 2 {
		t.Fatalf("got %d points, want 2", len(series))
	}
	if series[0].Step != 50 || series[1].Step != 100 {
		t.Errorf("steps out of order: %+v", series)
	}
	if series[0].Value != 0.6 || series[1].Value != 0.4 {
		t.Errorf("means = %v/%v, want 0.6/0.4", series[0].Value, series[1].Value)
	}
}

func TestFirstDropStep(t *testing.T) {
	series := []StepValue{{50, 1.0}, {100, 0.8}, {150, 0.5}, {200, 0.2}}
	if step := FirstDropStep(series, 0.5); step == nil || *step != 150 {
		t.Errorf("drop step = %v, want 150", step)
	}

	flat := []StepValue{{50, 1.0}, {100, 0.9}, {150, 0.95}}
	if step := FirstDropStep(flat, 0.5); step != nil {
		t.Errorf("series never dropping must return nil, got %d", *step)
	}

	if step := FirstDropStep(nil, 0.5); step != nil {
		t.Error("empty series must return nil")
	}

	dead := []StepValue{{50, 0}, {100, 0}}
	if step := FirstDropStep(dead, 0.5); step != nil {
		t.Error("zero baseline must return nil, not step 50")
	}
}
