package certify

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/afshin-arj/shams-core/internal/canon"
	"github.com/afshin-arj/shams-core/internal/runner"
)

// BuildEvidenceBundle serializes a certification into one deterministic
// ZIP archive:
//
//	robust_envelope_report.json
//	corners/point_0000/uq_contract.json   (when includeCorners)
//	corners/point_0001/uq_contract.json
//	...
//
// Indices are zero-padded to four digits so lexicographic file order
// equals numeric order. Entry timestamps are fixed at the zip epoch:
// byte-identical input yields a byte-identical archive.
func BuildEvidenceBundle(cert *Certification, includeCorners bool) ([]byte, error) {
	if cert == nil || cert.Report == nil {
		return nil, fmt.Errorf("evidence bundle: certification must include a report")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	reportJSON, err := prettyJSON(cert.Report.ToRecord())
	if err != nil {
		return nil, fmt.Errorf("evidence bundle: %w", err)
	}
	if err := writeEntry(zw, "robust_envelope_report.json", reportJSON); err != nil {
		return nil, err
	}

	if includeCorners {
		for i, pack := range cert.CornerPacks {
			if pack == nil {
				continue
			}
			packJSON, err := prettyJSON(packRecord(pack))
			if err != nil {
				return nil, fmt.Errorf("evidence bundle: point %d: %w", i, err)
			}
			name := fmt.Sprintf("corners/point_%04d/uq_contract.json", i)
			if err := writeEntry(zw, name, packJSON); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("evidence bundle: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	// Fixed header: no timestamps, deflate only. Keeps the archive
	// reproducible.
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("evidence bundle: create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("evidence bundle: write %s: %w", name, err)
	}
	return nil
}

// prettyJSON renders sorted-key, indented JSON. Map key order is stable
// under encoding/json, so output is deterministic for a given record.
func prettyJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonSafe(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jsonSafe rewrites non-finite floats to their canonical string tokens.
// Infeasible corners report NaN or Inf outputs, which encoding/json
// refuses to serialize.
func jsonSafe(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return canon.FloatToken(t)
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = jsonSafe(e)
		}
		return out
	case map[string]float64:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = jsonSafe(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = jsonSafe(e)
		}
		return out
	case []float64:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = jsonSafe(e)
		}
		return out
	default:
		return v
	}
}

func packRecord(res *runner.Result) map[string]any {
	corners := make([]any, len(res.Corners))
	for i, c := range res.Corners {
		corners[i] = map[string]any{
			"index":             c.Index,
			"overrides":         c.Overrides,
			"feasible":          c.Feasible,
			"worst_margin":      c.WorstMargin,
			"worst_margin_name": c.WorstMarginName,
			"outputs":           c.Outputs,
		}
	}
	return map[string]any{
		"schema_version": res.SchemaVersion,
		"label":          res.Label,
		"spec":           res.ContractSpec,
		"base_inputs":    res.BaseInputs,
		"policy_used":    res.PolicyUsed,
		"summary": map[string]any{
			"schema_version":         res.Summary.SchemaVersion,
			"name":                   res.Summary.Name,
			"n_dims":                 res.Summary.NDims,
			"n_corners":              res.Summary.NCorners,
			"n_feasible":             res.Summary.NFeasible,
			"verdict":                string(res.Summary.Verdict),
			"worst_corner_index":     res.Summary.WorstCornerIndex,
			"worst_hard_margin_frac": res.Summary.WorstMargin,
		},
		"corners": corners,
	}
}
