package ledger

import (
	"sort"
	"strings"
	"sync"

	"github.com/afshin-arj/shams-core/internal/canon"
)

// DefaultMaxHops bounds lineage walks.
const DefaultMaxHops = 12

// Graph is the in-process Design State Graph. Safe for concurrent use:
// Record and edge operations are serialized as single logical
// transactions, which is what preserves the "digest collision implies
// deterministic variant mint" invariant under concurrent callers.
type Graph struct {
	mu     sync.Mutex
	seq    int64
	nodes  map[string]*Node
	edges  []Edge
	active string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// RecordParams carries one evaluated design point into the ledger.
type RecordParams struct {
	// Inputs is the design-input record; any value the canonical codec
	// accepts.
	Inputs any

	// Outputs is the evaluator's outputs record.
	Outputs map[string]any

	OK      bool
	Message string
	Elapsed float64

	// Origin tags the producing panel; blank becomes "unknown".
	Origin string

	// Parents and Tags are filtered (blank entries dropped), then
	// deduplicated and sorted.
	Parents []string
	Tags    []string

	// EdgeKind, when non-blank and Parents non-empty, creates one edge
	// per parent. EdgeNote annotates those edges.
	EdgeKind string
	EdgeNote string
}

// runtime output fields scrubbed before hashing, so re-evaluating the
// same point at a different moment cannot fork its identity.
func scrubOutputs(out map[string]any) map[string]any {
	scrubbed := make(map[string]any, len(out))
	for k, v := range out {
		switch strings.ToLower(k) {
		case "created_unix", "created_utc", "timestamp", "time":
			continue
		}
		scrubbed[k] = v
	}
	return scrubbed
}

func cleanList(in []string) []string {
	set := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Record inserts (or resolves) the node for one evaluated design point
// and sets it active.
//
// Identity: Digest(canonical(inputs)). An exact (inputs, outputs) repeat
// is idempotent and returns the existing node unchanged. If the inputs
// digest collides with an existing node whose stored outputs digest
// differs, a variant node is minted with identity
// sha256(inputsDigest + ":" + outputsDigest) so divergent evaluation
// results are preserved instead of silently overwritten.
func (g *Graph) Record(p RecordParams) *Node {
	origin := strings.TrimSpace(p.Origin)
	if origin == "" {
		origin = "unknown"
	}
	parents := cleanList(p.Parents)
	tags := cleanList(p.Tags)

	inputsJSON := canon.CanonicalString(p.Inputs)
	inputsSHA := canon.DigestString(inputsJSON)
	outputsJSON := canon.CanonicalString(scrubOutputs(p.Outputs))
	outputsSHA := canon.DigestString(outputsJSON)

	g.mu.Lock()
	defer g.mu.Unlock()

	nodeID := inputsSHA
	if prev, ok := g.nodes[nodeID]; ok && prev.OutputsDigest != outputsSHA {
		// Truth should not diverge; when it does, preserve the
		// diagnostic by minting a variant. Exact byte layout of the
		// concatenation is load-bearing for existing ledgers.
		nodeID = canon.DigestString(inputsSHA + ":" + outputsSHA)
	}

	node, ok := g.nodes[nodeID]
	if !ok {
		g.seq++
		node = &Node{
			ID:               nodeID,
			InputsDigest:     inputsSHA,
			InputsCanonical:  inputsJSON,
			OutputsDigest:    outputsSHA,
			OutputsCanonical: outputsJSON,
			OK:               p.OK,
			Message:          p.Message,
			Elapsed:          p.Elapsed,
			Origin:           origin,
			Parents:          parents,
			Tags:             tags,
			Seq:              g.seq,
		}
		g.nodes[nodeID] = node
	}

	g.active = nodeID

	if p.EdgeKind != "" && len(parents) > 0 {
		for _, parent := range parents {
			g.appendEdgeLocked(Edge{Src: parent, Dst: nodeID, Kind: p.EdgeKind, Note: p.EdgeNote})
		}
	}

	return node
}

func (g *Graph) appendEdgeLocked(e Edge) bool {
	for _, existing := range g.edges {
		if existing == e {
			return false
		}
	}
	g.edges = append(g.edges, e)
	return true
}

// SetActive moves the active pointer; a no-op for unknown IDs.
func (g *Graph) SetActive(nodeID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[nodeID]; ok {
		g.active = nodeID
	}
}

// ActiveID returns the active node ID, or "" when the ledger is empty.
func (g *Graph) ActiveID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// GetNode returns the node for ID, or nil.
func (g *Graph) GetNode(nodeID string) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nodes[nodeID]
}

// Len returns the node count.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// ParentsOf returns parent IDs for a node, preferring the node's stored
// Parents list; the edge scan is a fallback for legacy nodes persisted
// without one.
func (g *Graph) ParentsOf(nodeID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.parentsOfLocked(nodeID)
}

func (g *Graph) parentsOfLocked(nodeID string) []string {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nil
	}
	if len(n.Parents) > 0 {
		out := make([]string, len(n.Parents))
		copy(out, n.Parents)
		return out
	}
	var out []string
	for _, e := range g.edges {
		if e.Dst == nodeID {
			out = append(out, e.Src)
		}
	}
	return out
}

// ChildrenOf returns the edge-recorded children of a node.
func (g *Graph) ChildrenOf(nodeID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, e := range g.edges {
		if e.Src == nodeID {
			out = append(out, e.Dst)
		}
	}
	return out
}

// EdgeKindBetween returns the kind of the first recorded src->dst edge,
// or "" when none exists.
func (g *Graph) EdgeKindBetween(src, dst string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range g.edges {
		if e.Src == src && e.Dst == dst {
			return e.Kind
		}
	}
	return ""
}

// Lineage returns the deterministic ancestry chain ending at nodeID, in
// root-to-node order.
//
// Policy: at each hop, among recorded parents not yet visited, follow the
// one with the smallest Seq (ties broken by node ID). Oldest-first, not
// shortest-path. Stops at maxHops (non-positive means DefaultMaxHops) or
// when no unvisited parent remains.
func (g *Graph) Lineage(nodeID string, maxHops int) []string {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[nodeID]; !ok {
		return nil
	}
	chain := []string{nodeID}
	seen := map[string]struct{}{nodeID: {}}
	cur := nodeID
	for hop := 0; hop < maxHops; hop++ {
		var candidates []string
		for _, p := range g.parentsOfLocked(cur) {
			if _, ok := g.nodes[p]; !ok {
				continue
			}
			if _, visited := seen[p]; visited {
				continue
			}
			candidates = append(candidates, p)
		}
		if len(candidates) == 0 {
			break
		}
		sort.Slice(candidates, func(i, j int) bool {
			a, b := g.nodes[candidates[i]], g.nodes[candidates[j]]
			if a.Seq != b.Seq {
				return a.Seq < b.Seq
			}
			return a.ID < b.ID
		})
		cur = candidates[0]
		chain = append(chain, cur)
		seen[cur] = struct{}{}
	}

	// Reverse to root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// AddEdge attaches lineage between existing nodes without re-evaluating
// truth. No-op when either endpoint is absent (the ledger never holds
// dangling references) or the edge already exists.
func (g *Graph) AddEdge(src, dst, kind, note string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdgeLocked(src, dst, kind, note)
}

func (g *Graph) addEdgeLocked(src, dst, kind, note string) bool {
	src = strings.TrimSpace(src)
	dst = strings.TrimSpace(dst)
	if src == "" || dst == "" {
		return false
	}
	if _, ok := g.nodes[src]; !ok {
		return false
	}
	if _, ok := g.nodes[dst]; !ok {
		return false
	}
	return g.appendEdgeLocked(Edge{Src: src, Dst: dst, Kind: kind, Note: note})
}

// AddEdges adds src->dst edges for every dst and returns how many were
// actually added. Supports panels that produce node sets (scans, Pareto
// frontiers) and want lineage attached in one call.
func (g *Graph) AddEdges(src string, dsts []string, kind, note string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	added := 0
	for _, dst := range dsts {
		if g.addEdgeLocked(src, dst, kind, note) {
			added++
		}
	}
	return added
}

// Nodes returns all nodes ordered by (Seq, ID).
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seq != out[j].Seq {
			return out[i].Seq < out[j].Seq
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Edges returns the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// InputsOf returns the decoded inputs record for a node, or nil.
func (g *Graph) InputsOf(nodeID string) map[string]any {
	n := g.GetNode(nodeID)
	if n == nil {
		return nil
	}
	rec, err := canon.DecodeRecord([]byte(n.InputsCanonical))
	if err != nil {
		return nil
	}
	return rec
}

// OutputsOf returns the decoded outputs record for a node, or nil.
func (g *Graph) OutputsOf(nodeID string) map[string]any {
	n := g.GetNode(nodeID)
	if n == nil {
		return nil
	}
	rec, err := canon.DecodeRecord([]byte(n.OutputsCanonical))
	if err != nil {
		return nil
	}
	return rec
}
