// Package manuscript cross-checks numbers reported in the manuscript
// against the machine-written experiment manifest and the bindings registry
// that links manuscript references to result files.
package manuscript

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// timingPattern extracts the reported step count and sampling interval from
// manuscript prose. (?is): case-insensitive and dot-matches-newline, so the
// phrase survives LaTeX line wrapping.
var timingPattern = regexp.MustCompile(
	`(?is)runs for\s+(\d+)\s+timesteps\s+with\s+population\s+sampled\s+every\s+(\d+)`)

// labelPattern finds \label{...} markers, the anchors bindings refer to.
var labelPattern = regexp.MustCompile(`\\label\{([^}]+)\}`)

// requiredBaseConfigKeys must exist in the manifest's base configuration for
// the manuscript's mutation-rate claims to be auditable.
var requiredBaseConfigKeys = []string{"mutation_point_rate", "mutation_scale"}

// Report is the structured result of a consistency run. Expected data
// problems land in Issues; only unreadable inputs surface as errors.
type Report struct {
	OK     bool     `json:"ok"`
	Issues []string `json:"issues"`
	Checks []string `json:"checks"`
}

// RunChecks verifies the manuscript at paperPath against the manifest and
// bindings registry. Missing input files are all reported together (one
// issue each) before returning, so a single run surfaces every missing
// input at once.
func RunChecks(paperPath, manifestPath, registryPath string) (Report, error) {
	report := Report{Issues: []string{}, Checks: []string{}}

	inputs := []struct {
		name string
		path string
	}{
		{"paper file", paperPath},
		{"manifest file", manifestPath},
		{"bindings registry", registryPath},
	}
	for _, in := range inputs {
		if _, err := os.Stat(in.path); os.IsNotExist(err) {
			report.Issues = append(report.Issues, fmt.Sprintf("missing %s: %s", in.name, in.path))
		}
	}
	if len(report.Issues) > 0 {
		return report, nil
	}

	paperRaw, err := os.ReadFile(paperPath)
	if err != nil {
		return report, fmt.Errorf("read paper %s: %w", paperPath, err)
	}
	tex := string(paperRaw)

	// The manifest is decoded loosely on purpose: a steps field holding
	// text instead of a number must be reported as an invalid-manifest
	// issue, which a typed decode would turn into an unreadable-file error.
	manifest, err := readJSONObject(manifestPath)
	if err != nil {
		return report, err
	}
	registry, err := readJSONObject(registryPath)
	if err != nil {
		return report, err
	}

	checkTiming(tex, manifest, &report)
	checkBaseConfig(manifest, &report)
	checkBindings(tex, registry, &report)

	report.OK = len(report.Issues) == 0
	return report, nil
}

func readJSONObject(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return obj, nil
}

// checkTiming compares the manuscript's reported step count and sampling
// interval against the manifest. Each field reports independently, and a
// non-numeric manifest value is an "invalid" issue, never also a mismatch.
func checkTiming(tex string, manifest map[string]any, report *Report) {
	m := timingPattern.FindStringSubmatch(tex)
	var reportedSteps, reportedSampleEvery *int
	if m != nil {
		s, _ := strconv.Atoi(m[1])
		e, _ := strconv.Atoi(m[2])
		reportedSteps, reportedSampleEvery = &s, &e
	}

	checkTimingField(report, "steps", reportedSteps, manifest["steps"])
	checkTimingField(report, "sample_every", reportedSampleEvery, manifest["sample_every"])
}

func checkTimingField(report *Report, field string, reported *int, manifestValue any) {
	if reported == nil {
		report.Issues = append(report.Issues,
			fmt.Sprintf("could not parse timing %s from paper", field))
		return
	}
	report.Checks = append(report.Checks, "timing "+field)

	manifestInt, ok := asInt(manifestValue)
	if !ok {
		report.Issues = append(report.Issues,
			fmt.Sprintf("%s invalid in manifest: %v", field, formatValue(manifestValue)))
		return
	}
	if manifestInt != *reported {
		report.Issues = append(report.Issues,
			fmt.Sprintf("%s mismatch: paper=%d manifest=%v", field, *reported, formatValue(manifestValue)))
	}
}

func checkBaseConfig(manifest map[string]any, report *Report) {
	baseCfg, _ := manifest["base_config"].(map[string]any)
	for _, key := range requiredBaseConfigKeys {
		if _, ok := baseCfg[key]; ok {
			report.Checks = append(report.Checks, "manifest base_config "+key)
		} else {
			report.Issues = append(report.Issues, "manifest missing base_config."+key)
		}
	}
}

func checkBindings(tex string, registry map[string]any, report *Report) {
	bindings, ok := registry["bindings"].([]any)
	if !ok || len(bindings) == 0 {
		report.Issues = append(report.Issues, "bindings registry is empty")
		return
	}
	report.Checks = append(report.Checks, "bindings registry non-empty")

	paperLabels := make(map[string]bool)
	for _, m := range labelPattern.FindAllStringSubmatch(tex, -1) {
		paperLabels[m[1]] = true
	}

	for idx, entry := range bindings {
		binding, _ := entry.(map[string]any)
		paperRef, _ := binding["paper_ref"].(string)
		manifestRef, _ := binding["manifest"].(string)
		if paperRef == "" {
			report.Issues = append(report.Issues,
				fmt.Sprintf("binding[%d] missing paper_ref", idx))
		} else if !paperLabels[paperRef] {
			report.Issues = append(report.Issues,
				fmt.Sprintf("binding[%d] paper_ref not found in paper labels: %s", idx, paperRef))
		}
		if manifestRef == "" {
			report.Issues = append(report.Issues,
				fmt.Sprintf("binding[%d] missing manifest", idx))
		}
	}
}

// asInt accepts JSON numbers that are whole and numeric strings, the shapes
// a hand-edited manifest might plausibly hold. Everything else (null,
// true/false, fractional, non-numeric text) is invalid.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
	}
	return 0, false
}

// formatValue renders a manifest value for issue strings. JSON null prints
// as "null" instead of Go's "<nil>".
func formatValue(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%v", v)
}
