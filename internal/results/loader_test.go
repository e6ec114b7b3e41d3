package results

import (
	"os"
	"path/filepath"
	"testing"

	"goablate/domain/experiment"
	"goablate/internal/errors"
)

func TestConditionPath(t *testing.T) {
	got := ConditionPath("experiments/final_graph", "no_metabolism")
	want := "experiments/final_graph_no_metabolism.json"
	if got != want {
		t.Errorf("ConditionPath = %q, want %q", got, want)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "final_graph_normal.json")
	runs := []experiment.RunResult{
		{Seed: 100, FinalAliveCount: 42, Samples: []experiment.Sample{{Step: 50, AliveCount: 40}}},
		{Seed: 101, FinalAliveCount: 0, Samples: nil},
	}
	if err := Write(path, runs); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Seed != 100 || got[0].FinalAliveCount != 42 {
		t.Errorf("round trip lost data: %+v", got)
	}
	if len(got[0].Samples) != 1 || got[0].Samples[0].AliveCount != 40 {
		t.Errorf("samples lost: %+v", got[0].Samples)
	}
}

func TestLoadConditionMissingFile(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "final_graph")
	runs, err := LoadCondition(prefix, "no_metabolism")
	if err != nil {
		t.Fatalf("missing condition file must not error: %v", err)
	}
	if runs != nil {
		t.Errorf("missing condition file must load as nil, got %+v", runs)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "final_graph_normal.json")
	os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644)
	_, err := Load(path)
	if err == nil {
		t.Fatal("malformed results must error")
	}
	if errors.GetCode(err) != errors.CodeMalformedData {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.CodeMalformedData)
	}
}

func TestFinalAliveValues(t *testing.T) {
	runs := []experiment.RunResult{
		{FinalAliveCount: 12, Samples: []experiment.Sample{{Step: 10}}},
		{FinalAliveCount: 99}, // no samples, excluded
		{FinalAliveCount: 0, Samples: []experiment.Sample{{Step: 10}}},
	}
	values := FinalAliveValues(runs)
	if len(values) != 2 || values[0] != 12 || values[1] != 0 {
		t.Errorf("FinalAliveValues = %v, want [12 0]", values)
	}
}
