// Package refine suggests interval narrowing for contracts whose corner
// runs came back fragile.
//
// Given corner outcomes, it identifies which inputs dominate fragility by
// boundary-hit frequency and proposes tightened bounds. Deterministic and
// explanatory only: suggestions never feed back into evaluation on their
// own.
package refine

import (
	"fmt"
	"math"
	"sort"

	"github.com/afshin-arj/shams-core/internal/contract"
	"github.com/afshin-arj/shams-core/internal/runner"
)

// DefaultMaxSuggestions caps the suggestion list.
const DefaultMaxSuggestions = 6

// tightenFrac is the fixed narrowing applied to a dominated interval.
const tightenFrac = 0.20

// boundaryEps decides whether a corner value sits on an interval bound.
const boundaryEps = 1e-12

// Suggestion proposes a tightened interval for one variable.
type Suggestion struct {
	Var       string            `json:"var"`
	Current   contract.Interval `json:"current_interval"`
	Suggested contract.Interval `json:"suggested_interval"`
	Rationale string            `json:"rationale"`
}

// SuggestRefinements scores each contract variable by how often failing
// corners sit on its interval boundary and proposes a 20% tightening for
// the dominant ones. Ordering is deterministic: score descending, then
// variable name. maxSuggestions <= 0 means DefaultMaxSuggestions.
func SuggestRefinements(intervals map[string]contract.Interval, corners []runner.CornerResult, maxSuggestions int) []Suggestion {
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}

	var failing []runner.CornerResult
	for _, cr := range corners {
		if !cr.Feasible {
			failing = append(failing, cr)
		}
	}
	if len(failing) == 0 {
		return nil
	}

	type stat struct{ lo, hi, n int }
	stats := make(map[string]*stat, len(intervals))
	for v := range intervals {
		stats[v] = &stat{}
	}

	for _, cr := range failing {
		for v, it := range intervals {
			x, ok := cr.Overrides[v]
			if !ok {
				continue
			}
			n := it.Normalized()
			s := stats[v]
			s.n++
			if math.Abs(x-n.Lo) <= boundaryEps {
				s.lo++
			}
			if math.Abs(x-n.Hi) <= boundaryEps {
				s.hi++
			}
		}
	}

	type scored struct {
		v     string
		score float64
	}
	ranked := make([]scored, 0, len(stats))
	for v, s := range stats {
		n := s.n
		if n < 1 {
			n = 1
		}
		hits := s.lo
		if s.hi > hits {
			hits = s.hi
		}
		ranked = append(ranked, scored{v: v, score: float64(hits) / float64(n)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].v > ranked[j].v
	})

	// Truncate to the top-ranked variables before the span filter, so a
	// degenerate interval in the top set shrinks the output rather than
	// pulling in a lower-ranked variable.
	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}

	var out []Suggestion
	for _, r := range ranked {
		it := intervals[r.v].Normalized()
		span := it.Hi - it.Lo
		if span <= 0 {
			continue
		}
		out = append(out, Suggestion{
			Var:     r.v,
			Current: it,
			Suggested: contract.Interval{
				Lo: it.Lo + tightenFrac*span,
				Hi: it.Hi - tightenFrac*span,
			},
			Rationale: fmt.Sprintf("Failures concentrate at %q interval boundary (score=%.2f); suggest tightening by %d%%.", r.v, r.score, int(tightenFrac*100)),
		})
	}
	return out
}
