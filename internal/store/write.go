package store

import (
	"context"
	"fmt"

	"github.com/afshin-arj/shams-core/internal/canon"
	"github.com/afshin-arj/shams-core/internal/ledger"
)

// WriteNode inserts one ledger node. ON CONFLICT(node_id) DO NOTHING
// keeps the archive append-only and writes idempotent; a replayed node is
// silently ignored, never overwritten.
func (s *Store) WriteNode(ctx context.Context, n *ledger.Node) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nodes
		(node_id, inputs_sha256, inputs_canonical_json, outputs_sha256, outputs_canonical_json,
		 ok, message, elapsed_s, origin, parents, tags, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(node_id) DO NOTHING
	`,
		n.ID,
		n.InputsDigest,
		n.InputsCanonical,
		n.OutputsDigest,
		n.OutputsCanonical,
		boolInt(n.OK),
		n.Message,
		n.Elapsed,
		n.Origin,
		canon.CanonicalString(n.Parents),
		canon.CanonicalString(n.Tags),
		n.Seq,
	)
	if err != nil {
		return fmt.Errorf("write node: %w", err)
	}
	return nil
}

// WriteEdge inserts one lineage edge. The UNIQUE(src, dst, kind, note)
// constraint plus DO NOTHING gives edge-level idempotency; foreign keys
// refuse dangling endpoints.
func (s *Store) WriteEdge(ctx context.Context, e ledger.Edge) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO edges (src, dst, kind, note)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(src, dst, kind, note) DO NOTHING
	`, e.Src, e.Dst, e.Kind, e.Note)
	if err != nil {
		return fmt.Errorf("write edge: %w", err)
	}
	return nil
}

// Archive writes the whole graph (nodes, edges, active pointer) in one
// transaction. Nodes are written before edges so foreign keys hold; the
// whole call is crash-atomic.
func (s *Store) Archive(ctx context.Context, g *ledger.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, n := range g.Nodes() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO nodes
			(node_id, inputs_sha256, inputs_canonical_json, outputs_sha256, outputs_canonical_json,
			 ok, message, elapsed_s, origin, parents, tags, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(node_id) DO NOTHING
		`,
			n.ID, n.InputsDigest, n.InputsCanonical, n.OutputsDigest, n.OutputsCanonical,
			boolInt(n.OK), n.Message, n.Elapsed, n.Origin,
			canon.CanonicalString(n.Parents), canon.CanonicalString(n.Tags), n.Seq,
		); err != nil {
			return fmt.Errorf("archive: write node: %w", err)
		}
	}

	for _, e := range g.Edges() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO edges (src, dst, kind, note)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(src, dst, kind, note) DO NOTHING
		`, e.Src, e.Dst, e.Kind, e.Note); err != nil {
			return fmt.Errorf("archive: write edge: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES ('schema', ?), ('active_node_id', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, canon.LedgerSchema, g.ActiveID()); err != nil {
		return fmt.Errorf("archive: write meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive: commit: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
