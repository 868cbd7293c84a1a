package solver

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest configures the two solvers and the verdict conventions. The
// exit-status winner encoding belongs to the external solvers, not the
// harness, so it lives here as configuration rather than as a hardcoded
// assumption.
type Manifest struct {
	// Reference is the trusted, previously-validated solver.
	Reference Spec `yaml:"reference"`

	// Candidate is the solver under test.
	Candidate Spec `yaml:"candidate"`

	// Marker is the winner-announcement token for report mode.
	Marker string `yaml:"marker,omitempty"`

	// StatusMap maps exit statuses to winning players in status mode.
	// Statuses absent from the map are flagged as unrecognized.
	StatusMap map[int]string `yaml:"status_map,omitempty"`
}

// DefaultManifest returns the built-in solver conventions: an oink-style
// reference and an lmc-style candidate exposing a "parity" sub-command.
// Paths are empty and must be supplied by flags or a manifest file.
func DefaultManifest() Manifest {
	return Manifest{
		Reference: Spec{
			Name:       "reference",
			ReportArgs: []string{"-p", "--no"},
			SolveArgs:  []string{"--no"},
		},
		Candidate: Spec{
			Name:       "candidate",
			ReportArgs: []string{"parity", "-a", "fpi", "-r"},
			SolveArgs:  []string{"parity", "-s", "-a", "fpi"},
		},
		Marker: DefaultMarker,
		StatusMap: map[int]string{
			0: "even",
			1: "odd",
		},
	}
}

// LoadManifest reads and parses a solver manifest YAML file. Unknown
// fields are rejected so typos surface as load errors instead of silently
// falling back to defaults. Fields left empty keep their defaults.
func LoadManifest(path string) (Manifest, error) {
	m := DefaultManifest()

	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}

	if err := validateManifest(&m); err != nil {
		return Manifest{}, fmt.Errorf("invalid manifest: %w", err)
	}

	return m, nil
}

// Validate checks the manifest is complete enough to run a suite.
func (m *Manifest) Validate() error {
	return validateManifest(m)
}

func validateManifest(m *Manifest) error {
	if m.Reference.Path == "" {
		return fmt.Errorf("reference solver path is required")
	}
	if m.Candidate.Path == "" {
		return fmt.Errorf("candidate solver path is required")
	}
	if m.Marker == "" {
		return fmt.Errorf("marker is required")
	}
	if m.Reference.Name == "" {
		m.Reference.Name = "reference"
	}
	if m.Candidate.Name == "" {
		m.Candidate.Name = "candidate"
	}
	return nil
}

// Recognized reports whether status has a configured winner mapping, and
// if so which player it encodes.
func (m *Manifest) Recognized(status int) (string, bool) {
	player, ok := m.StatusMap[status]
	return player, ok
}
