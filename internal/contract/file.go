package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/afshin-arj/shams-core/internal/canon"
	"github.com/afshin-arj/shams-core/internal/faults"
)

// fileForm is the human-authored contract document. Same shape as the
// canonical wire format, YAML-friendly.
type fileForm struct {
	SchemaVersion   string              `yaml:"schema_version"`
	Name            string              `yaml:"name"`
	Intervals       map[string]Interval `yaml:"intervals"`
	PolicyOverrides map[string]any      `yaml:"policy_overrides,omitempty"`
	Notes           string              `yaml:"notes,omitempty"`
}

// LoadFile reads a contract from a YAML (or JSON; YAML is a superset)
// file. The schema_version tag must match exactly; anything else is a
// fatal *faults.SchemaError.
func LoadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load contract %s: %w", filepath.Base(path), err)
	}

	var f fileForm
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("load contract %s: %w", filepath.Base(path), err)
	}
	if f.SchemaVersion != canon.ContractSchema {
		return nil, &faults.SchemaError{Want: canon.ContractSchema, Got: f.SchemaVersion, Source: "contract"}
	}

	s := &Spec{
		Name:            f.Name,
		Intervals:       make(map[string]Interval, len(f.Intervals)),
		PolicyOverrides: f.PolicyOverrides,
		Notes:           f.Notes,
	}
	if s.Name == "" {
		s.Name = "contract"
	}
	for k, it := range f.Intervals {
		s.Intervals[k] = it.Normalized()
	}
	return s, nil
}

// SaveFile writes the contract as a YAML document.
func SaveFile(s *Spec, path string) error {
	f := fileForm{
		SchemaVersion:   canon.ContractSchema,
		Name:            s.Name,
		Intervals:       make(map[string]Interval, len(s.Intervals)),
		PolicyOverrides: s.PolicyOverrides,
		Notes:           s.Notes,
	}
	for k, it := range s.Intervals {
		f.Intervals[k] = it.Normalized()
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("save contract: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save contract: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save contract: %w", err)
	}
	return nil
}
