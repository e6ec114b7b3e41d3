package experiment

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ManifestSchemaVersion is the current manifest schema. Version 2 added
// report_bindings; readers reject versions outside SupportedSchemaVersions
// rather than guessing at field meanings.
const ManifestSchemaVersion = 2

// SupportedSchemaVersions lists the manifest schemas this code can read.
var SupportedSchemaVersions = map[int]bool{1: true, 2: true}

// ReportBinding links a manuscript reference to the result files that
// substantiate it.
type ReportBinding struct {
	ResultID    string   `json:"result_id"`
	PaperRef    string   `json:"paper_ref"`
	SourceFiles []string `json:"source_files"`
	Notes       string   `json:"notes,omitempty"`
}

// Manifest is the write-once record of the exact parameters that produced a
// batch of experiment results. It is the single source of truth for later
// consistency audits and must never be reconstructed from partial data.
type Manifest struct {
	SchemaVersion      int                       `json:"schema_version"`
	RunID              string                    `json:"run_id"`
	Experiment         string                    `json:"experiment"`
	Steps              int                       `json:"steps"`
	SampleEvery        int                       `json:"sample_every"`
	Seeds              []int                     `json:"seeds"`
	BaseConfig         map[string]any            `json:"base_config"`
	ConditionOverrides map[string]map[string]any `json:"condition_overrides"`
	ReportBindings     []ReportBinding           `json:"report_bindings,omitempty"`
	Fingerprint        string                    `json:"fingerprint"`
	CreatedAt          time.Time                 `json:"created_at"`
}

// NewManifest builds a schema-current manifest with a fresh run ID and a
// determinism fingerprint over all run parameters.
func NewManifest(name string, steps, sampleEvery int, seeds []int,
	baseConfig map[string]any, overrides map[string]map[string]any,
	bindings []ReportBinding) *Manifest {

	m := &Manifest{
		SchemaVersion:      ManifestSchemaVersion,
		RunID:              uuid.NewString(),
		Experiment:         name,
		Steps:              steps,
		SampleEvery:        sampleEvery,
		Seeds:              seeds,
		BaseConfig:         baseConfig,
		ConditionOverrides: overrides,
		ReportBindings:     bindings,
		CreatedAt:          time.Now().UTC(),
	}
	m.Fingerprint = m.computeFingerprint()
	return m
}

// computeFingerprint hashes the run parameters (not the run identity) so two
// manifests written for identical protocols fingerprint identically.
func (m *Manifest) computeFingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "experiment:%s|steps:%d|sample_every:%d|seeds:%v",
		m.Experiment, m.Steps, m.SampleEvery, m.Seeds)
	fmt.Fprintf(h, "|base:%s", canonicalJSON(m.BaseConfig))
	names := make([]string, 0, len(m.ConditionOverrides))
	for name := range m.ConditionOverrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(h, "|cond:%s=%s", name, canonicalJSON(m.ConditionOverrides[name]))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func canonicalJSON(v map[string]any) string {
	// encoding/json sorts map keys, which is all the determinism we need.
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Validate checks the manifest is complete enough to serve as ground truth.
func (m *Manifest) Validate() error {
	if !SupportedSchemaVersions[m.SchemaVersion] {
		return fmt.Errorf("manifest schema_version %d is not supported", m.SchemaVersion)
	}
	if m.Experiment == "" {
		return fmt.Errorf("manifest experiment name cannot be empty")
	}
	if m.Steps <= 0 {
		return fmt.Errorf("manifest steps must be positive, got %d", m.Steps)
	}
	if m.SampleEvery <= 0 {
		return fmt.Errorf("manifest sample_every must be positive, got %d", m.SampleEvery)
	}
	if len(m.Seeds) == 0 {
		return fmt.Errorf("manifest seeds cannot be empty")
	}
	return nil
}

// WriteManifest persists the manifest as indented JSON.
func WriteManifest(path string, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid manifest: %w", err)
	}
	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads and validates a manifest. An absent or unrecognized
// schema_version is an error, never silently coerced.
func ReadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	// Probe the schema version first so a structural mismatch in newer
	// schemas reports the version problem, not a decode artifact.
	var probe struct {
		SchemaVersion *int `json:"schema_version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if probe.SchemaVersion == nil {
		return nil, fmt.Errorf("manifest %s has no schema_version", path)
	}
	if !SupportedSchemaVersions[*probe.SchemaVersion] {
		return nil, fmt.Errorf("manifest %s schema_version %d is not supported", path, *probe.SchemaVersion)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
