package contract

import "github.com/afshin-arj/shams-core/internal/canon"

// Preset contracts target the explicit calibration multipliers carried on
// a design-input record. These are safe to vary in a deterministic corner
// analysis without implying transport fidelity. Centers are read from the
// base record so a recalibrated design keeps its declared relative widths.

func baseMult(base map[string]any, key string) float64 {
	if v, ok := canon.AsFloat(base[key]); ok {
		return v
	}
	return 1.0
}

// DefaultContract returns the conservative default uncertainty contract:
// confinement_mult ±10%, lambda_q_mult ±20%, hts_Jc_mult ±10%.
func DefaultContract(base map[string]any) *Spec {
	c := baseMult(base, "confinement_mult")
	lq := baseMult(base, "lambda_q_mult")
	jc := baseMult(base, "hts_Jc_mult")
	return &Spec{
		Name: "default_uq",
		Intervals: map[string]Interval{
			"confinement_mult": {Lo: 0.90 * c, Hi: 1.10 * c},
			"lambda_q_mult":    {Lo: 0.80 * lq, Hi: 1.20 * lq},
			"hts_Jc_mult":      {Lo: 0.90 * jc, Hi: 1.10 * jc},
		},
		Notes: "Default UQ-lite: multipliers only (confinement, lambda_q, HTS Jc).",
	}
}

// OptimisticContract returns an explicitly optimistic contract: centers
// shifted up (confinement +8%, lambda_q +10%, Jc +8%) with narrowed
// widths, representing a best-case but declared scenario.
func OptimisticContract(base map[string]any) *Spec {
	c := 1.08 * baseMult(base, "confinement_mult")
	lq := 1.10 * baseMult(base, "lambda_q_mult")
	jc := 1.08 * baseMult(base, "hts_Jc_mult")
	return &Spec{
		Name: "optimistic_uq",
		Intervals: map[string]Interval{
			"confinement_mult": {Lo: 0.95 * c, Hi: 1.05 * c},
			"lambda_q_mult":    {Lo: 0.90 * lq, Hi: 1.10 * lq},
			"hts_Jc_mult":      {Lo: 0.95 * jc, Hi: 1.05 * jc},
		},
		Notes: "Optimistic UQ-lite: slightly improved multipliers + narrower intervals.",
	}
}

// RobustContract widens the default intervals to stress-test feasibility:
// confinement_mult ±15%, lambda_q_mult ±25%, hts_Jc_mult ±15%.
func RobustContract(base map[string]any) *Spec {
	c := baseMult(base, "confinement_mult")
	lq := baseMult(base, "lambda_q_mult")
	jc := baseMult(base, "hts_Jc_mult")
	return &Spec{
		Name: "robust_uq",
		Intervals: map[string]Interval{
			"confinement_mult": {Lo: 0.85 * c, Hi: 1.15 * c},
			"lambda_q_mult":    {Lo: 0.75 * lq, Hi: 1.25 * lq},
			"hts_Jc_mult":      {Lo: 0.85 * jc, Hi: 1.15 * jc},
		},
		Notes: "Robust UQ-lite: widened intervals (stress test).",
	}
}
