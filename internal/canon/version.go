package canon

// Schema and engine version constants.
const (
	// LedgerSchema is the persisted design-state ledger schema tag.
	LedgerSchema = "shams.dsg.v1"

	// ContractSchema is the interval-contract wire schema tag.
	ContractSchema = "uncertainty_contract_spec.v1"

	// ContractSummarySchema is the per-point contract-run summary tag.
	ContractSummarySchema = "uncertainty_contract_summary.v1"

	// ContractRunSchema is the full contract-run artifact tag.
	ContractRunSchema = "uncertainty_contract.v1"

	// CertificationSchema is the robust-envelope report schema tag.
	CertificationSchema = "robust_envelope_certification.v1"

	// EngineVersion is the shams-core engine version.
	EngineVersion = "0.1.0"
)
