package certify

// Tier is the certification confidence label for one candidate.
type Tier string

const (
	TierA        Tier = "TIER_A"
	TierB        Tier = "TIER_B"
	TierC        Tier = "TIER_C"
	NotCertified Tier = "NOT_CERTIFIED"
	TierFragile  Tier = "FRAGILE"
	TierFail     Tier = "FAIL"
	TierUnknown  Tier = "UNKNOWN"
)

// Thresholds are the deterministic tier cutoffs on the worst hard margin
// fraction. Certification requires non-negative worst margin; the A/B
// tiers demand declared headroom on top.
type Thresholds struct {
	TierAMin float64 `json:"tier_A_min"`
	TierBMin float64 `json:"tier_B_min"`
	TierCMin float64 `json:"tier_C_min"`
}

// DefaultThresholds returns the standard cutoffs: A at 10% headroom, B at
// 3%, C at exactly feasible.
func DefaultThresholds() Thresholds {
	return Thresholds{TierAMin: 0.10, TierBMin: 0.03, TierCMin: 0.00}
}

func (t Thresholds) toRecord() map[string]any {
	return map[string]any{
		"tier_A_min": t.TierAMin,
		"tier_B_min": t.TierBMin,
		"tier_C_min": t.TierCMin,
	}
}

// tierFromWorstMargin maps a worst margin to its tier. Only meaningful
// under a ROBUST_PASS verdict; callers map other verdicts directly to the
// identically named tiers.
func tierFromWorstMargin(worst float64, t Thresholds) Tier {
	switch {
	case worst >= t.TierAMin:
		return TierA
	case worst >= t.TierBMin:
		return TierB
	case worst >= t.TierCMin:
		return TierC
	default:
		return NotCertified
	}
}

// Rank orders tiers for monotonicity checks: higher is better. Verdict
// tiers rank below every certification tier.
func (t Tier) Rank() int {
	switch t {
	case TierA:
		return 4
	case TierB:
		return 3
	case TierC:
		return 2
	case NotCertified:
		return 1
	default:
		return 0
	}
}
