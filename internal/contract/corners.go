package contract

import (
	"sort"

	"github.com/afshin-arj/shams-core/internal/faults"
)

// DefaultMaxDims caps the uncertain-dimension count. 2^16 corners is
// already far beyond interactive budgets; callers must raise the cap
// explicitly to go further.
const DefaultMaxDims = 16

// EnumerateCorners deterministically enumerates all 2^N corner
// assignments of the given intervals.
//
// Ordering invariant: field names sorted by code point fix the dimension
// order; corners are emitted in ascending binary order of their bit
// vectors, the first field owning the most significant bit. Bit 0 selects
// Lo, bit 1 selects Hi. Re-enumeration of the same intervals always
// yields the identical sequence.
//
// Fails with *faults.EmptyInputError on an empty interval map and
// *faults.TooManyDimensionsError when N exceeds maxDims.
func EnumerateCorners(intervals map[string]Interval, maxDims int) ([]map[string]float64, error) {
	if len(intervals) == 0 {
		return nil, &faults.EmptyInputError{What: "intervals"}
	}
	if len(intervals) > maxDims {
		return nil, &faults.TooManyDimensionsError{Dims: len(intervals), Max: maxDims}
	}

	keys := make([]string, 0, len(intervals))
	for k := range intervals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bounds := make([]Interval, len(keys))
	for i, k := range keys {
		bounds[i] = intervals[k].Normalized()
	}

	n := len(keys)
	total := 1 << n
	corners := make([]map[string]float64, 0, total)
	for i := 0; i < total; i++ {
		corner := make(map[string]float64, n)
		for j, k := range keys {
			if i>>(n-1-j)&1 == 0 {
				corner[k] = bounds[j].Lo
			} else {
				corner[k] = bounds[j].Hi
			}
		}
		corners = append(corners, corner)
	}
	return corners, nil
}

// Corners enumerates the spec's own intervals under the default cap.
func (s *Spec) Corners() ([]map[string]float64, error) {
	return EnumerateCorners(s.Intervals, DefaultMaxDims)
}
