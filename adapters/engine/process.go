// Package engine adapts the external digital-life simulation binary to the
// ports.Engine interface. The binary is a black box: this adapter only
// shuttles JSON strings across process boundaries.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProcessEngine shells out to the digital-life CLI. Config goes to the run
// subcommand's stdin; results come back on stdout.
type ProcessEngine struct {
	// Binary is the engine executable, resolved through PATH.
	Binary string
}

// NewProcessEngine creates an adapter for the given engine binary.
func NewProcessEngine(binary string) *ProcessEngine {
	return &ProcessEngine{Binary: binary}
}

// Version reports the engine build, or "unknown" when the binary refuses.
func (e *ProcessEngine) Version() string {
	out, err := exec.Command(e.Binary, "version").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

// DefaultConfigJSON asks the engine for its default configuration.
func (e *ProcessEngine) DefaultConfigJSON() (string, error) {
	out, err := exec.Command(e.Binary, "default-config").Output()
	if err != nil {
		return "", fmt.Errorf("engine default-config: %w", err)
	}
	return string(out), nil
}

// RunExperimentJSON executes one run. Engine stderr is folded into the
// returned error so a crashed run is diagnosable from the progress trace.
func (e *ProcessEngine) RunExperimentJSON(ctx context.Context, configJSON string, steps, sampleEvery int) (string, error) {
	cmd := exec.CommandContext(ctx, e.Binary, "run",
		"--steps", strconv.Itoa(steps),
		"--sample-every", strconv.Itoa(sampleEvery))
	cmd.Stdin = strings.NewReader(configJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("engine run: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
