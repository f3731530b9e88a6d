// Package certify implements robust design-envelope certification over
// an explicit candidate set.
//
// Certification never modifies frozen truth. It runs budgeted,
// deterministic corner evaluations under one uncertainty contract,
// assigns each candidate a tier from its worst margin, and packages the
// outcome as reviewable evidence. The contract fingerprint is always
// recomputed from the contract object itself, never trusted from a
// caller-supplied string, so evidence cannot be retargeted by digest
// substitution.
package certify
