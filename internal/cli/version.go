package cli

import (
	"github.com/spf13/cobra"

	"github.com/afshin-arj/shams-core/internal/canon"
)

// NewVersionCommand reports engine and schema versions.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print engine and schema versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeResult(cmd.OutOrStdout(), opts, map[string]any{
				"engine_version":  canon.EngineVersion,
				"ledger_schema":   canon.LedgerSchema,
				"contract_schema": canon.ContractSchema,
			})
		},
	}
}
