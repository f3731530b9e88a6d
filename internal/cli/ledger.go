package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/afshin-arj/shams-core/internal/ledger"
	"github.com/afshin-arj/shams-core/internal/store"
)

// NewInspectCommand summarizes a persisted ledger document.
func NewInspectCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <ledger-file>",
		Short: "Summarize a design-state ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := ledger.Load(args[0])
			if err != nil {
				return err
			}
			rec := map[string]any{
				"active_node_id": g.ActiveID(),
				"n_nodes":        g.Len(),
				"n_edges":        len(g.Edges()),
			}
			if opts.Verbose {
				nodes := g.Nodes()
				nodeRecs := make([]any, len(nodes))
				for i, n := range nodes {
					nodeRecs[i] = map[string]any{
						"node_id": n.ID,
						"origin":  n.Origin,
						"ok":      n.OK,
						"seq":     n.Seq,
						"tags":    n.Tags,
					}
				}
				rec["nodes"] = nodeRecs
			}
			return writeResult(cmd.OutOrStdout(), opts, rec)
		},
	}
}

// NewLineageCommand resolves the ancestry chain of a ledger node.
func NewLineageCommand(opts *RootOptions) *cobra.Command {
	var maxHops int

	cmd := &cobra.Command{
		Use:   "lineage <ledger-file> <node-id>",
		Short: "Resolve a node's deterministic ancestry chain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := ledger.Load(args[0])
			if err != nil {
				return err
			}
			nodeID := args[1]
			if g.GetNode(nodeID) == nil {
				return fmt.Errorf("node %s not found in ledger", nodeID)
			}
			chain := g.Lineage(nodeID, maxHops)
			chainRecs := make([]any, len(chain))
			for i, id := range chain {
				chainRecs[i] = id
			}
			return writeResult(cmd.OutOrStdout(), opts, map[string]any{
				"node_id": nodeID,
				"n_hops":  len(chain) - 1,
				"lineage": chainRecs,
			})
		},
	}

	cmd.Flags().IntVar(&maxHops, "max-hops", ledger.DefaultMaxHops, "maximum ancestry hops")
	return cmd
}

// NewArchiveCommand exports a JSON ledger into the SQLite archive.
func NewArchiveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <ledger-file> <archive-db>",
		Short: "Archive a JSON ledger into SQLite",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := ledger.Load(args[0])
			if err != nil {
				return err
			}
			st, err := store.Open(args[1])
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Archive(cmd.Context(), g); err != nil {
				return err
			}
			count, err := st.NodeCount(cmd.Context())
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts, map[string]any{
				"archived_nodes":      g.Len(),
				"archived_edges":      len(g.Edges()),
				"archive_nodes_total": count,
				"archive":             args[1],
			})
		},
	}
}
