package runner

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/afshin-arj/shams-core/internal/canon"
	"github.com/afshin-arj/shams-core/internal/contract"
)

// Verdict is the three-way classification of a contract run.
type Verdict string

const (
	VerdictRobustPass Verdict = "ROBUST_PASS"
	VerdictFragile    Verdict = "FRAGILE"
	VerdictFail       Verdict = "FAIL"
	VerdictUnknown    Verdict = "UNKNOWN"
)

// CornerResult is one evaluated corner.
type CornerResult struct {
	Index     int                `json:"index"`
	Overrides map[string]float64 `json:"overrides"`
	Feasible  bool               `json:"feasible"`

	// WorstMargin is the corner's worst hard margin fraction; 0.0 when
	// the summarizer produced none.
	WorstMargin     float64 `json:"worst_margin"`
	WorstMarginName string  `json:"worst_margin_name,omitempty"`

	// Outputs is the raw evaluation record, retained only when the
	// runner keeps corner artifacts.
	Outputs map[string]any `json:"outputs,omitempty"`
}

// Summary aggregates per-corner feasibility into a verdict.
//
// Classification law: ROBUST_PASS iff all corners feasible; FAIL iff zero
// corners feasible; FRAGILE otherwise. WorstMargin is the minimum margin
// over all corners, ties broken by lowest corner index.
type Summary struct {
	SchemaVersion    string  `json:"schema_version"`
	Name             string  `json:"name"`
	NDims            int     `json:"n_dims"`
	NCorners         int     `json:"n_corners"`
	NFeasible        int     `json:"n_feasible"`
	Verdict          Verdict `json:"verdict"`
	WorstCornerIndex int     `json:"worst_corner_index"`
	WorstMargin      float64 `json:"worst_hard_margin_frac"`
}

// Result is a full contract run for one base design point.
type Result struct {
	SchemaVersion string         `json:"schema_version"`
	Label         string         `json:"label"`
	ContractSpec  map[string]any `json:"spec"`
	BaseInputs    map[string]any `json:"base_inputs"`
	PolicyUsed    map[string]any `json:"policy_used"`
	Summary       Summary        `json:"summary"`

	// Corners is empty in summary-only mode.
	Corners []CornerResult `json:"corners,omitempty"`
}

// Runner evaluates contracts against the external oracle.
type Runner struct {
	// Oracle is the point-evaluation function. Required.
	Oracle Oracle

	// Margins is the constraint-margin summarizer. Required.
	Margins MarginFn

	// Cache memoizes oracle outputs by input digest. Optional.
	Cache Cache

	// MaxDims caps the uncertain-dimension count; zero means
	// contract.DefaultMaxDims.
	MaxDims int

	// IncludeCorners retains per-corner evaluation artifacts. Summary-only
	// mode (false) bounds memory when only the verdict is needed.
	IncludeCorners bool

	// Workers bounds parallel corner dispatch; values below 2 run
	// sequentially. The aggregate is identical either way.
	Workers int
}

// Run evaluates every corner of spec against base and classifies the
// outcome. The oracle is called exactly 2^N times (modulo cache hits).
// Base fields not named by the contract pass through unchanged; contract
// fields absent from base are ignored, so the contract can never widen
// the input schema.
func (r *Runner) Run(base map[string]any, spec *contract.Spec, label string) (*Result, error) {
	if r.Oracle == nil || r.Margins == nil {
		return nil, fmt.Errorf("runner: Oracle and Margins are required")
	}
	maxDims := r.MaxDims
	if maxDims <= 0 {
		maxDims = contract.DefaultMaxDims
	}

	corners, err := contract.EnumerateCorners(spec.Intervals, maxDims)
	if err != nil {
		return nil, err
	}

	baseOut := r.evaluate(base)
	policy := mergedPolicy(baseOut, spec.PolicyOverrides)

	results := make([]CornerResult, len(corners))
	eval := func(i int) {
		overrides := corners[i]
		merged := make(map[string]any, len(base))
		for k, v := range base {
			merged[k] = v
		}
		for k, v := range overrides {
			if _, ok := merged[k]; ok {
				merged[k] = v
			}
		}

		out := r.evaluate(merged)
		summary := r.Margins(out)

		cr := CornerResult{
			Index:           i,
			Overrides:       overrides,
			Feasible:        summary.Feasible,
			WorstMarginName: summary.WorstName,
		}
		if summary.HasWorst {
			cr.WorstMargin = summary.WorstFrac
		}
		if r.IncludeCorners {
			cr.Outputs = out
		}
		results[i] = cr
	}

	if r.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(r.Workers)
		for i := range corners {
			g.Go(func() error {
				eval(i)
				return nil
			})
		}
		// Workers never return errors; Wait is a join point only.
		_ = g.Wait()
	} else {
		for i := range corners {
			eval(i)
		}
	}

	// Deterministic aggregation over the index-ordered slice. Strict
	// less-than keeps the lowest index on exact ties.
	nFeasible := 0
	worstIdx := 0
	worstMargin := results[0].WorstMargin
	for _, cr := range results {
		if cr.Feasible {
			nFeasible++
		}
		if cr.WorstMargin < worstMargin {
			worstMargin = cr.WorstMargin
			worstIdx = cr.Index
		}
	}

	verdict := VerdictFragile
	switch nFeasible {
	case len(results):
		verdict = VerdictRobustPass
	case 0:
		verdict = VerdictFail
	}

	res := &Result{
		SchemaVersion: canon.ContractRunSchema,
		Label:         label,
		ContractSpec:  specRecord(spec),
		BaseInputs:    base,
		PolicyUsed:    policy,
		Summary: Summary{
			SchemaVersion:    canon.ContractSummarySchema,
			Name:             spec.Name,
			NDims:            len(spec.Intervals),
			NCorners:         len(results),
			NFeasible:        nFeasible,
			Verdict:          verdict,
			WorstCornerIndex: worstIdx,
			WorstMargin:      worstMargin,
		},
	}
	if r.IncludeCorners {
		res.Corners = results
	}
	return res, nil
}

// evaluate calls the oracle, going through the memoization cache when one
// is injected. The digest key is the canonical content address of the
// merged inputs, stable across processes.
func (r *Runner) evaluate(inputs map[string]any) map[string]any {
	if r.Cache == nil {
		return r.Oracle.Evaluate(inputs)
	}
	key := canon.Digest(inputs)
	if out, ok := r.Cache.Get(key); ok {
		return out
	}
	out := r.Oracle.Evaluate(inputs)
	r.Cache.Put(key, out)
	return out
}

// mergedPolicy layers contract policy overrides on top of the policy
// contract the base evaluation carries, if any. Tier semantics only,
// never physics.
func mergedPolicy(baseOut map[string]any, overrides map[string]any) map[string]any {
	merged := map[string]any{}
	if pol, ok := baseOut["_policy_contract"].(map[string]any); ok {
		for k, v := range pol {
			merged[k] = v
		}
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// specRecord stamps the contract wire form into run artifacts. Decoding
// the canonical bytes keeps the stamped record byte-consistent with the
// contract's fingerprint.
func specRecord(spec *contract.Spec) map[string]any {
	rec, err := canon.DecodeRecord(spec.ToCanonical())
	if err != nil {
		// ToCanonical output is always a valid object document.
		return map[string]any{"name": spec.Name}
	}
	return rec
}
