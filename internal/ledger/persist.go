package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/afshin-arj/shams-core/internal/canon"
	"github.com/afshin-arj/shams-core/internal/faults"
)

// ToRecord renders the graph as its persisted document form: nodes
// ordered by (seq, id), edges in insertion order, schema tag stamped.
func (g *Graph) ToRecord() map[string]any {
	nodes := g.Nodes()
	nodeRecs := make([]any, len(nodes))
	for i, n := range nodes {
		nodeRecs[i] = map[string]any{
			"node_id":                n.ID,
			"inputs_sha256":          n.InputsDigest,
			"inputs_canonical_json":  n.InputsCanonical,
			"outputs_sha256":         n.OutputsDigest,
			"outputs_canonical_json": n.OutputsCanonical,
			"ok":                     n.OK,
			"message":                n.Message,
			"elapsed_s":              n.Elapsed,
			"origin":                 n.Origin,
			"parents":                n.Parents,
			"tags":                   n.Tags,
			"seq":                    n.Seq,
		}
	}
	edges := g.Edges()
	edgeRecs := make([]any, len(edges))
	for i, e := range edges {
		edgeRecs[i] = map[string]any{"src": e.Src, "dst": e.Dst, "kind": e.Kind, "note": e.Note}
	}
	return map[string]any{
		"schema":         canon.LedgerSchema,
		"active_node_id": g.ActiveID(),
		"nodes":          nodeRecs,
		"edges":          edgeRecs,
	}
}

// ToCanonical renders the graph as one canonical JSON document.
func (g *Graph) ToCanonical() []byte {
	return canon.MarshalCanonical(g.ToRecord())
}

// Save writes the ledger as a single canonical JSON document. One-shot
// and fully buffered; no file handle outlives the call.
func (g *Graph) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	doc := append(g.ToCanonical(), '\n')
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Load reconstructs a ledger from a document written by Save.
//
// The schema tag is a hard compatibility boundary: anything but the
// supported tag is a fatal *faults.SchemaError, never guessed around.
// Within a valid document the loader is tolerant: missing node fields
// take zero values, the seq counter is restored from the maximum stored
// seq, and a stale active_node_id is re-derived from the reloaded node
// set.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return FromCanonical(data)
}

// LoadOrNew is Load, except a missing file yields an empty graph. Session
// bootstrap convenience.
func LoadOrNew(path string) (*Graph, error) {
	g, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	return g, err
}

// FromCanonical reconstructs a ledger from its document bytes.
func FromCanonical(data []byte) (*Graph, error) {
	rec, err := canon.DecodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	schema, _ := rec["schema"].(string)
	if schema != canon.LedgerSchema {
		return nil, &faults.SchemaError{Want: canon.LedgerSchema, Got: schema, Source: "ledger"}
	}

	g := New()
	if nodes, ok := rec["nodes"].([]any); ok {
		for _, raw := range nodes {
			nd, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			node := &Node{
				ID:               stringAt(nd, "node_id"),
				InputsDigest:     stringAt(nd, "inputs_sha256"),
				InputsCanonical:  stringAt(nd, "inputs_canonical_json"),
				OutputsDigest:    stringAt(nd, "outputs_sha256"),
				OutputsCanonical: stringAt(nd, "outputs_canonical_json"),
				Message:          stringAt(nd, "message"),
				Origin:           stringAt(nd, "origin"),
				Parents:          stringsAt(nd, "parents"),
				Tags:             stringsAt(nd, "tags"),
			}
			if node.ID == "" {
				continue
			}
			if node.Origin == "" {
				node.Origin = "unknown"
			}
			if okFlag, has := canon.AsBool(nd["ok"]); has {
				node.OK = okFlag
			} else {
				node.OK = true
			}
			if f, has := canon.AsFloat(nd["elapsed_s"]); has {
				node.Elapsed = f
			}
			if f, has := canon.AsFloat(nd["seq"]); has {
				node.Seq = int64(f)
			}
			g.nodes[node.ID] = node
			if node.Seq > g.seq {
				g.seq = node.Seq
			}
		}
	}
	if edges, ok := rec["edges"].([]any); ok {
		for _, raw := range edges {
			ed, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			g.edges = append(g.edges, Edge{
				Src:  stringAt(ed, "src"),
				Dst:  stringAt(ed, "dst"),
				Kind: stringAt(ed, "kind"),
				Note: stringAt(ed, "note"),
			})
		}
	}

	g.active, _ = rec["active_node_id"].(string)
	if _, ok := g.nodes[g.active]; !ok {
		g.active = ""
		// Oldest node becomes active when the stored pointer is stale.
		for _, n := range g.Nodes() {
			g.active = n.ID
			break
		}
	}
	return g, nil
}

// Restore rebuilds a graph from already-decoded rows, e.g. out of the
// SQLite archive. The seq counter resumes from the maximum stored seq; an
// active ID absent from the node set is re-derived from the oldest node.
func Restore(nodes []*Node, edges []Edge, activeID string) *Graph {
	g := New()
	for _, n := range nodes {
		if n == nil || n.ID == "" {
			continue
		}
		g.nodes[n.ID] = n
		if n.Seq > g.seq {
			g.seq = n.Seq
		}
	}
	g.edges = append(g.edges, edges...)
	g.active = activeID
	if _, ok := g.nodes[g.active]; !ok {
		g.active = ""
		for _, n := range g.Nodes() {
			g.active = n.ID
			break
		}
	}
	return g
}

func stringAt(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

func stringsAt(rec map[string]any, key string) []string {
	raw, ok := rec[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
