package contract

import (
	"fmt"

	"github.com/afshin-arj/shams-core/internal/canon"
	"github.com/afshin-arj/shams-core/internal/faults"
)

// Interval is a closed interval [Lo, Hi]. Deterministic, non-probabilistic.
type Interval struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// Normalized returns the interval with bounds swapped if Hi < Lo.
func (it Interval) Normalized() Interval {
	if it.Hi < it.Lo {
		return Interval{Lo: it.Hi, Hi: it.Lo}
	}
	return it
}

// Spec is a named interval contract over input fields.
//
// Robustness classes under corner evaluation:
//   - ROBUST_PASS: all corners feasible
//   - FAIL: all corners infeasible
//   - FRAGILE: mixed feasibility
//
// PolicyOverrides apply to constraint tier semantics, never to physics.
type Spec struct {
	Name            string              `json:"name" yaml:"name"`
	Intervals       map[string]Interval `json:"intervals" yaml:"intervals"`
	PolicyOverrides map[string]any      `json:"policy_overrides,omitempty" yaml:"policy_overrides,omitempty"`
	Notes           string              `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// toRecord builds the wire-form record used for canonical serialization.
func (s *Spec) toRecord() map[string]any {
	intervals := make(map[string]any, len(s.Intervals))
	for k, it := range s.Intervals {
		n := it.Normalized()
		intervals[k] = map[string]any{"lo": n.Lo, "hi": n.Hi}
	}
	policy := map[string]any{}
	for k, v := range s.PolicyOverrides {
		policy[k] = v
	}
	return map[string]any{
		"schema_version":   canon.ContractSchema,
		"name":             s.Name,
		"intervals":        intervals,
		"policy_overrides": policy,
		"notes":            s.Notes,
	}
}

// ToCanonical serializes the contract to its canonical byte form.
func (s *Spec) ToCanonical() []byte {
	return canon.MarshalCanonical(s.toRecord())
}

// Digest is the contract fingerprint: SHA-256 over the canonical form.
func (s *Spec) Digest() string {
	return canon.DigestBytes(s.ToCanonical())
}

// FromCanonical reconstructs a Spec from its canonical serialization.
// Round-trip law: FromCanonical(s.ToCanonical()) equals s field-for-field
// (after interval normalization).
//
// A schema_version other than the exact supported tag is a fatal
// *faults.SchemaError. Malformed interval entries (missing or non-numeric
// bounds) are silently dropped; the contract stays loadable.
func FromCanonical(data []byte) (*Spec, error) {
	rec, err := canon.DecodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("contract: %w", err)
	}
	return FromRecord(rec)
}

// FromRecord reconstructs a Spec from a decoded wire record.
func FromRecord(rec map[string]any) (*Spec, error) {
	schema, _ := rec["schema_version"].(string)
	if schema != canon.ContractSchema {
		return nil, &faults.SchemaError{Want: canon.ContractSchema, Got: schema, Source: "contract"}
	}

	s := &Spec{
		Name:      stringField(rec, "name", "contract"),
		Notes:     stringField(rec, "notes", ""),
		Intervals: map[string]Interval{},
	}

	if raw, ok := rec["intervals"].(map[string]any); ok {
		for k, v := range raw {
			entry, ok := v.(map[string]any)
			if !ok {
				continue
			}
			lo, okLo := canon.AsFloat(entry["lo"])
			hi, okHi := canon.AsFloat(entry["hi"])
			if !okLo || !okHi {
				continue
			}
			s.Intervals[k] = Interval{Lo: lo, Hi: hi}.Normalized()
		}
	}

	if pol, ok := rec["policy_overrides"].(map[string]any); ok && len(pol) > 0 {
		s.PolicyOverrides = pol
	}

	return s, nil
}

func stringField(rec map[string]any, key, fallback string) string {
	if v, ok := rec[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
