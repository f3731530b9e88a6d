package cli

import (
	"github.com/spf13/cobra"

	"github.com/afshin-arj/shams-core/internal/contract"
)

// NewCornersCommand enumerates a contract's corner assignments.
func NewCornersCommand(opts *RootOptions) *cobra.Command {
	var maxDims int

	cmd := &cobra.Command{
		Use:   "corners <contract-file>",
		Short: "Enumerate a contract's deterministic corner assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := ValidateContractFile(args[0])
			if err != nil {
				return err
			}
			corners, err := contract.EnumerateCorners(spec.Intervals, maxDims)
			if err != nil {
				return err
			}

			cornerRecs := make([]any, len(corners))
			for i, c := range corners {
				cornerRecs[i] = c
			}
			return writeResult(cmd.OutOrStdout(), opts, map[string]any{
				"name":      spec.Name,
				"n_dims":    len(spec.Intervals),
				"n_corners": len(corners),
				"corners":   cornerRecs,
			})
		},
	}

	cmd.Flags().IntVar(&maxDims, "max-dims", contract.DefaultMaxDims, "uncertain-dimension cap (guards the 2^N blow-up)")
	return cmd
}
