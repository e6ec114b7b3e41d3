package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"goablate/internal/errors"
)

// Config holds the toolkit's runtime settings. Everything is file-path and
// threshold configuration; there is no service state.
type Config struct {
	Paths    PathConfig
	Analysis AnalysisConfig
	Engine   EngineConfig
}

// PathConfig holds the default input locations for the batch pipelines.
type PathConfig struct {
	ExperimentsDir string
	PaperFile      string
	ManifestFile   string
	BindingsFile   string
}

// AnalysisConfig holds statistical settings.
type AnalysisConfig struct {
	Alpha                float64
	PersistenceThreshold float64
}

// EngineConfig locates the external simulation engine binary.
type EngineConfig struct {
	Binary string
}

// Load reads configuration from the environment, after loading a local .env
// file when one is present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside dev checkouts.
	_ = godotenv.Load()

	cfg := &Config{
		Paths: PathConfig{
			ExperimentsDir: getEnvOrDefault("EXPERIMENTS_DIR", "experiments"),
			PaperFile:      getEnvOrDefault("PAPER_FILE", "paper/main.tex"),
			ManifestFile:   getEnvOrDefault("MANIFEST_FILE", "docs/research/final_graph_manifest_reference.json"),
			BindingsFile:   getEnvOrDefault("BINDINGS_FILE", "docs/research/result_manifest_bindings.json"),
		},
		Analysis: AnalysisConfig{
			Alpha:                getEnvFloatOrDefault("ALPHA", 0.05),
			PersistenceThreshold: getEnvFloatOrDefault("PERSISTENCE_THRESHOLD", 0.30),
		},
		Engine: EngineConfig{
			Binary: getEnvOrDefault("ENGINE_BIN", "digital-life"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Paths.ExperimentsDir == "" {
		return errors.ConfigInvalid("EXPERIMENTS_DIR cannot be empty")
	}
	if cfg.Analysis.Alpha <= 0 || cfg.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("ALPHA must be in (0, 1)")
	}
	if cfg.Analysis.PersistenceThreshold < -1 || cfg.Analysis.PersistenceThreshold > 1 {
		return errors.ConfigInvalid("PERSISTENCE_THRESHOLD must be a valid ARI value")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
