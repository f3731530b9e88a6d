package certify

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/afshin-arj/shams-core/internal/canon"
	"github.com/afshin-arj/shams-core/internal/contract"
	"github.com/afshin-arj/shams-core/internal/faults"
	"github.com/afshin-arj/shams-core/internal/runner"
)

// DefaultMaxPoints is the candidate budget cap. Prevents runaway evidence
// sizes; raise explicitly for larger studies.
const DefaultMaxPoints = 50

// Row is one candidate's certification outcome.
type Row struct {
	Index            int            `json:"index"`
	Verdict          runner.Verdict `json:"verdict"`
	Tier             Tier           `json:"tier"`
	WorstMargin      float64        `json:"worst_hard_margin_frac"`
	NCorners         int            `json:"n_corners"`
	NFeasible        int            `json:"n_feasible"`
	WorstCornerIndex int            `json:"worst_corner_index"`
	Inputs           map[string]any `json:"inputs"`
}

// Counts aggregates row outcomes.
type Counts struct {
	NPoints    int `json:"n_points"`
	NCertified int `json:"n_certified"`
	NRobust    int `json:"n_robust"`
	NFragile   int `json:"n_fragile"`
	NFail      int `json:"n_fail"`
}

// Budget records the applied candidate cap. Truncation is explicit
// policy, surfaced here, never silent.
type Budget struct {
	MaxPoints       int `json:"max_points"`
	PointsCertified int `json:"points_certified"`
}

// Report is the certification outcome for one candidate set under one
// contract.
type Report struct {
	SchemaVersion  string         `json:"schema_version"`
	RunID          string         `json:"run_id"`
	LabelPrefix    string         `json:"label_prefix"`
	ContractSpec   map[string]any `json:"contract_spec"`
	ContractSHA256 string         `json:"contract_sha256"`
	Thresholds     Thresholds     `json:"thresholds"`
	Budget         Budget         `json:"budget"`
	Counts         Counts         `json:"counts"`
	Rows           []Row          `json:"rows"`

	// ReportSHA256 is the report's own canonical digest, computed with
	// this field and RunID blanked so the hash excludes itself and stays
	// reproducible across runs.
	ReportSHA256 string `json:"report_sha256"`
}

// Certification bundles the report with the per-point contract runs kept
// for evidence packing.
type Certification struct {
	Report      *Report
	CornerPacks []*runner.Result
}

// Options configure a certification run.
type Options struct {
	// Runner evaluates each candidate. Required.
	Runner *runner.Runner

	// Thresholds default to DefaultThresholds.
	Thresholds *Thresholds

	// LabelPrefix stamps per-point run labels; defaults to "certify".
	LabelPrefix string

	// MaxPoints caps the candidate set; non-positive means
	// DefaultMaxPoints.
	MaxPoints int
}

// Certify runs the contract over every candidate (up to the budget cap)
// and assigns tiers.
//
// The candidate list must be non-empty (*faults.EmptyInputError). Lists
// longer than the cap are truncated, and the applied budget is recorded
// in the report. The contract digest is recomputed from spec here.
func Certify(points []map[string]any, spec *contract.Spec, opts Options) (*Certification, error) {
	if len(points) == 0 {
		return nil, &faults.EmptyInputError{What: "points"}
	}
	if opts.Runner == nil {
		return nil, fmt.Errorf("certify: Runner is required")
	}

	thresholds := DefaultThresholds()
	if opts.Thresholds != nil {
		thresholds = *opts.Thresholds
	}
	labelPrefix := opts.LabelPrefix
	if labelPrefix == "" {
		labelPrefix = "certify"
	}
	maxPoints := opts.MaxPoints
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	if len(points) > maxPoints {
		points = points[:maxPoints]
	}

	contractFP := spec.Digest()

	rows := make([]Row, 0, len(points))
	packs := make([]*runner.Result, 0, len(points))
	var counts Counts
	counts.NPoints = len(points)

	for i, inputs := range points {
		res, err := opts.Runner.Run(inputs, spec, fmt.Sprintf("%s:p%04d", labelPrefix, i))
		if err != nil {
			return nil, fmt.Errorf("certify point %d: %w", i, err)
		}
		summ := res.Summary

		var tier Tier
		switch summ.Verdict {
		case runner.VerdictRobustPass:
			tier = tierFromWorstMargin(summ.WorstMargin, thresholds)
			if tier == NotCertified {
				counts.NFail++
			} else {
				counts.NCertified++
				counts.NRobust++
			}
		case runner.VerdictFragile:
			tier = TierFragile
			counts.NFragile++
		case runner.VerdictFail:
			tier = TierFail
			counts.NFail++
		default:
			tier = TierUnknown
		}

		rows = append(rows, Row{
			Index:            i,
			Verdict:          summ.Verdict,
			Tier:             tier,
			WorstMargin:      summ.WorstMargin,
			NCorners:         summ.NCorners,
			NFeasible:        summ.NFeasible,
			WorstCornerIndex: summ.WorstCornerIndex,
			Inputs:           inputs,
		})
		packs = append(packs, res)
	}

	report := &Report{
		SchemaVersion:  canon.CertificationSchema,
		RunID:          uuid.Must(uuid.NewV7()).String(),
		LabelPrefix:    labelPrefix,
		ContractSpec:   contractRecord(spec),
		ContractSHA256: contractFP,
		Thresholds:     thresholds,
		Budget:         Budget{MaxPoints: maxPoints, PointsCertified: len(points)},
		Counts:         counts,
		Rows:           rows,
	}
	report.ReportSHA256 = report.selfDigest()

	return &Certification{Report: report, CornerPacks: packs}, nil
}

// ToRecord renders the report for canonical serialization.
func (r *Report) ToRecord() map[string]any {
	rowRecs := make([]any, len(r.Rows))
	for i, row := range r.Rows {
		rowRecs[i] = map[string]any{
			"index":                  row.Index,
			"verdict":                string(row.Verdict),
			"tier":                   string(row.Tier),
			"worst_hard_margin_frac": row.WorstMargin,
			"n_corners":              row.NCorners,
			"n_feasible":             row.NFeasible,
			"worst_corner_index":     row.WorstCornerIndex,
			"inputs":                 row.Inputs,
		}
	}
	return map[string]any{
		"schema_version":  r.SchemaVersion,
		"run_id":          r.RunID,
		"label_prefix":    r.LabelPrefix,
		"contract_spec":   r.ContractSpec,
		"contract_sha256": r.ContractSHA256,
		"thresholds":      r.Thresholds.toRecord(),
		"budget": map[string]any{
			"max_points":       r.Budget.MaxPoints,
			"points_certified": r.Budget.PointsCertified,
		},
		"counts": map[string]any{
			"n_points":    r.Counts.NPoints,
			"n_certified": r.Counts.NCertified,
			"n_robust":    r.Counts.NRobust,
			"n_fragile":   r.Counts.NFragile,
			"n_fail":      r.Counts.NFail,
		},
		"rows":          rowRecs,
		"report_sha256": r.ReportSHA256,
	}
}

// selfDigest hashes the report with the self-referential fields blanked:
// report_sha256 (must exclude itself) and run_id (fresh per run; blanked
// so identical evidence hashes identically).
func (r *Report) selfDigest() string {
	rec := r.ToRecord()
	rec["report_sha256"] = ""
	rec["run_id"] = ""
	return canon.Digest(rec)
}

// Verify recomputes the self digest and reports whether the stored value
// matches. A mismatch means the report was edited after issuance.
func (r *Report) Verify() bool {
	return r.ReportSHA256 == r.selfDigest()
}

func contractRecord(spec *contract.Spec) map[string]any {
	rec, err := canon.DecodeRecord(spec.ToCanonical())
	if err != nil {
		return map[string]any{"name": spec.Name}
	}
	return rec
}
