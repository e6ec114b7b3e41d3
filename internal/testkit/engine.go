// Package testkit provides deterministic fixtures for the analysis
// pipelines, chiefly a synthetic simulation engine that stands in for the
// external digital-life binary.
package testkit

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"goablate/domain/experiment"
)

// SyntheticEngine is a deterministic ports.Engine: identical config, steps
// and sampling interval always produce byte-identical results. Populations
// thrive when every criterion flag is enabled and decay when any is
// disabled, which gives the ablation statistics something real to detect.
type SyntheticEngine struct{}

// NewSyntheticEngine creates the synthetic engine.
func NewSyntheticEngine() *SyntheticEngine {
	return &SyntheticEngine{}
}

// Version identifies the fixture engine in progress traces.
func (e *SyntheticEngine) Version() string {
	return "synthetic-0.1"
}

// DefaultConfigJSON mirrors the flag and parameter surface the experiment
// specs override.
func (e *SyntheticEngine) DefaultConfigJSON() (string, error) {
	config := map[string]any{
		"seed":                        0,
		"initial_population":          25,
		"enable_metabolism":           true,
		"enable_boundary_maintenance": true,
		"enable_homeostasis":          true,
		"enable_response":             true,
		"enable_reproduction":         true,
		"enable_evolution":            true,
		"enable_growth":               true,
		"boundary_decay_base_rate":    0.002,
		"boundary_repair_rate":        0.03,
		"metabolic_viability_floor":   0.2,
		"crowding_neighbor_threshold": 20.0,
		"mutation_point_rate":         0.02,
		"mutation_scale":              0.15,
		"resource_regeneration_rate":  0.01,
	}
	payload, err := json.Marshal(config)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// RunExperimentJSON generates a plausible trajectory from the config seed
// and the enabled-criteria count.
func (e *SyntheticEngine) RunExperimentJSON(ctx context.Context, configJSON string, steps, sampleEvery int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var config map[string]any
	if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
		return "", fmt.Errorf("synthetic engine: bad config: %w", err)
	}
	seed := int64(0)
	if v, ok := config["seed"].(float64); ok {
		seed = int64(v)
	}
	disabled := 0
	for _, flag := range experiment.CriterionFlags {
		if v, ok := config[flag].(bool); ok && !v {
			disabled++
		}
	}

	rng := rand.New(rand.NewSource(seed*31 + int64(disabled)))
	alive := 25.0
	// Each disabled criterion drags the per-step growth below replacement.
	growth := 1.0015 - 0.003*float64(disabled)

	result := experiment.RunResult{}
	births, deaths := 0, 0
	for step := sampleEvery; step <= steps; step += sampleEvery {
		for i := 0; i < sampleEvery; i++ {
			alive *= growth + rng.Float64()*0.001
		}
		if alive < 0.5 {
			alive = 0
		}
		if alive > 500 {
			alive = 500
		}
		stepBirths := int(alive * 0.02)
		stepDeaths := int(alive * 0.015)
		births += stepBirths
		deaths += stepDeaths

		count := int(alive)
		result.Samples = append(result.Samples, experiment.Sample{
			Step:            step,
			AliveCount:      count,
			EnergyMean:      0.6 + 0.2*rng.Float64() - 0.05*float64(disabled),
			WasteMean:       0.1 + 0.05*rng.Float64(),
			BoundaryMean:    0.8 - 0.08*float64(disabled) + 0.05*rng.Float64(),
			BirthCount:      stepBirths,
			DeathCount:      stepDeaths,
			PopulationSize:  count,
			MeanGeneration:  float64(step) / 400,
			MeanGenomeDrift: 0.01 * float64(step) / float64(steps),
			GenomeDiversity: 0.2 + 0.1*rng.Float64(),
			MeanAge:         float64(step) / 4,
			MaxGeneration:   step / 200,
		})
	}
	if len(result.Samples) > 0 {
		result.FinalAliveCount = result.Samples[len(result.Samples)-1].AliveCount
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
