// Package contract defines the interval uncertainty contract and its
// deterministic corner enumeration.
//
// A contract declares closed numeric intervals over input fields. It is
// interval truth, not probability: the runner enumerates all 2^N corners
// deterministically, with no sampling and no Monte Carlo. The enumeration
// order is a hard invariant because downstream worst-corner indices are
// referenced by position.
package contract
