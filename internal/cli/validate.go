package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/afshin-arj/shams-core/internal/contract"
)

// contractSchema constrains the contract wire format. Validation runs
// before decoding so shape errors surface with CUE's field-level
// positions instead of a bare schema mismatch.
const contractSchema = `
#Interval: {
	lo: number
	hi: number
}

#Contract: {
	schema_version: "uncertainty_contract_spec.v1"
	name:           string & != ""
	intervals: {[string]: #Interval}
	policy_overrides?: {...}
	notes?: string
}
`

// NewValidateCommand validates a contract file against the wire schema.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <contract-file>",
		Short: "Validate an uncertainty-contract file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := ValidateContractFile(args[0])
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts, map[string]any{
				"ok":       true,
				"name":     spec.Name,
				"n_dims":   len(spec.Intervals),
				"digest":   spec.Digest(),
				"contract": args[0],
			})
		},
	}
}

// ValidateContractFile checks a YAML/JSON contract document against the
// CUE schema, then decodes it.
func ValidateContractFile(path string) (*contract.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(contractSchema).LookupPath(cue.ParsePath("#Contract"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("validate: schema: %w", err)
	}

	val := ctx.Encode(doc)
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	unified := schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	return contract.FromRecord(doc)
}
