// Package canon provides the canonical serialization substrate for SHAMS.
//
// Every content-addressed identity in the system (design-state nodes,
// uncertainty contracts, certification reports) is derived from the
// canonical byte form produced here. This package contains value types
// and serialization only; all other internal packages import canon,
// canon imports nothing internal.
//
// Key design constraints:
//   - Canonicalize never fails: unknown types degrade to Opaque strings
//   - Map keys sorted by code point, sequence order preserved
//   - Floats rendered as string tokens ("NaN", "Infinity", "-Infinity",
//     shortest round-trip decimal) so byte output is independent of the
//     host runtime's float formatting
//   - Output is pure ASCII (non-ASCII escaped) for cross-process stability
package canon
