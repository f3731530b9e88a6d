package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/afshin-arj/shams-core/internal/canon"
	"github.com/afshin-arj/shams-core/internal/faults"
	"github.com/afshin-arj/shams-core/internal/ledger"
)

// LoadGraph reconstructs the full ledger from the archive. The stored
// schema tag is checked the same way the JSON loader checks it: a
// mismatch is a fatal *faults.SchemaError.
func (s *Store) LoadGraph(ctx context.Context) (*ledger.Graph, error) {
	schema, err := s.metaValue(ctx, "schema")
	if err != nil {
		return nil, err
	}
	if schema != canon.LedgerSchema {
		return nil, &faults.SchemaError{Want: canon.LedgerSchema, Got: schema, Source: "ledger archive"}
	}

	nodes, err := s.readNodes(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := s.readEdges(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.metaValue(ctx, "active_node_id")
	if err != nil {
		return nil, err
	}
	return ledger.Restore(nodes, edges, active), nil
}

// NodeCount returns how many nodes the archive holds.
func (s *Store) NodeCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("node count: %w", err)
	}
	return n, nil
}

// GetNode reads one node by content address; nil when absent.
func (s *Store) GetNode(ctx context.Context, nodeID string) (*ledger.Node, error) {
	rows, err := s.db.QueryContext(ctx, nodeSelect+` WHERE node_id = ?`, nodeID)
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanNode(rows)
}

// Deterministic read order (seq ASC, node_id ASC) so a reloaded session
// sees the identical ledger regardless of archival interleaving.
const nodeSelect = `
	SELECT node_id, inputs_sha256, inputs_canonical_json, outputs_sha256, outputs_canonical_json,
	       ok, message, elapsed_s, origin, parents, tags, seq
	FROM nodes`

func (s *Store) readNodes(ctx context.Context) ([]*ledger.Node, error) {
	rows, err := s.db.QueryContext(ctx, nodeSelect+` ORDER BY seq ASC, node_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("read nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*ledger.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func scanNode(rows *sql.Rows) (*ledger.Node, error) {
	var n ledger.Node
	var ok int
	var parentsJSON, tagsJSON string
	if err := rows.Scan(
		&n.ID, &n.InputsDigest, &n.InputsCanonical, &n.OutputsDigest, &n.OutputsCanonical,
		&ok, &n.Message, &n.Elapsed, &n.Origin, &parentsJSON, &tagsJSON, &n.Seq,
	); err != nil {
		return nil, fmt.Errorf("scan node: %w", err)
	}
	n.OK = ok != 0
	n.Parents = decodeStringList(parentsJSON)
	n.Tags = decodeStringList(tagsJSON)
	return &n, nil
}

func (s *Store) readEdges(ctx context.Context) ([]ledger.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT src, dst, kind, note FROM edges ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("read edges: %w", err)
	}
	defer rows.Close()

	var edges []ledger.Edge
	for rows.Next() {
		var e ledger.Edge
		if err := rows.Scan(&e.Src, &e.Dst, &e.Kind, &e.Note); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func (s *Store) metaValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read meta %q: %w", key, err)
	}
	return value, nil
}

// decodeStringList parses a canonical JSON string array; malformed
// payloads degrade to nil, matching the ledger's filter-not-fail policy.
func decodeStringList(data string) []string {
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil
	}
	return out
}
