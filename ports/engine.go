package ports

import "context"

// Engine is the external digital-life simulation engine. The analysis
// toolkit owns none of its internals: it consumes exactly the default
// configuration and the run call, both as opaque JSON strings.
type Engine interface {
	// Version identifies the engine build for progress traces.
	Version() string

	// DefaultConfigJSON returns the engine's default configuration as a
	// JSON object string.
	DefaultConfigJSON() (string, error)

	// RunExperimentJSON executes one run and returns a JSON string
	// decodable into a RunResult. The config string carries the seed and
	// all condition overrides.
	RunExperimentJSON(ctx context.Context, configJSON string, steps, sampleEvery int) (string, error)
}
