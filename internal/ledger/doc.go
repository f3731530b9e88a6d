// Package ledger implements the Design State Graph: a content-addressed,
// append-only ledger of evaluated design points and the lineage between
// them across tool panels.
//
// The graph is not physics truth. It never changes evaluator outputs; it
// records them. Node identity is the canonical digest of the inputs
// record, so identical inputs always resolve to the same node. When a
// later evaluation of the same inputs produces divergent outputs (for
// example, evaluator version drift), a variant node is minted instead of
// overwriting, preserving the diagnostic.
//
// Nodes move absent -> present, one way. Nothing is mutated after
// creation and nothing is deleted. Malformed parents and tags are
// filtered, never rejected: the ledger must stay crash-free under
// adversarial inputs from upstream panels.
//
// The Graph value is owned by the caller and passed by handle; there is
// no ambient global. Construct once per session, persist explicitly with
// Save, reload explicitly with Load.
package ledger
