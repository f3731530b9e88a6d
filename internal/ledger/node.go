package ledger

// Node is one evaluated design point. Immutable after creation.
type Node struct {
	// ID is the node's content address: the inputs digest, or for
	// variant nodes sha256(inputsDigest + ":" + outputsDigest).
	ID string `json:"node_id"`

	InputsDigest     string `json:"inputs_sha256"`
	InputsCanonical  string `json:"inputs_canonical_json"`
	OutputsDigest    string `json:"outputs_sha256"`
	OutputsCanonical string `json:"outputs_canonical_json"`

	// OK is the evaluator's success flag; Message its diagnostic.
	OK      bool   `json:"ok"`
	Message string `json:"message"`

	// Elapsed is evaluation wall time in seconds. Metadata only; never
	// used for ordering.
	Elapsed float64 `json:"elapsed_s"`

	// Origin is a free-text producer tag naming the panel or tool that
	// recorded the node.
	Origin string `json:"origin"`

	// Parents is the sorted, deduplicated set of parent node IDs.
	Parents []string `json:"parents"`

	// Tags is the sorted, deduplicated set of free-text tags.
	Tags []string `json:"tags"`

	// Seq is the insertion-order logical clock. Assigned once, never
	// reused, and the basis of deterministic lineage resolution.
	Seq int64 `json:"seq"`
}

// Edge is a directed lineage link between two recorded nodes.
// Deduplicated by full equality.
type Edge struct {
	Src  string `json:"src"`
	Dst  string `json:"dst"`
	Kind string `json:"kind"`
	Note string `json:"note"`
}
