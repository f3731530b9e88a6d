// Package runner evaluates a design point across every corner of an
// interval contract and classifies the aggregate outcome.
//
// The runner consumes two external collaborators behind interfaces: the
// point-evaluation oracle (inputs record -> outputs record, pure and
// deterministic, no error channel) and the margin summarizer (outputs ->
// feasibility + worst named margin). It never mutates the contract, the
// base inputs, or any ledger.
//
// Corners are mutually independent, so they may be dispatched across a
// bounded worker pool; aggregation is always a deterministic post-pass
// over the index-ordered corner slice, never a completion-order
// reduction. There is no cancellation: every corner runs to completion.
package runner
