package runner

// Oracle is the external point-evaluation function. It must be a pure,
// deterministic function of its argument with no declared error channel:
// invalid physics states are represented as non-finite output values,
// never as failures.
type Oracle interface {
	Evaluate(inputs map[string]any) map[string]any
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(inputs map[string]any) map[string]any

// Evaluate implements Oracle.
func (f OracleFunc) Evaluate(inputs map[string]any) map[string]any {
	return f(inputs)
}

// MarginSummary is the margin-summary verdict for one outputs record.
type MarginSummary struct {
	// Feasible is the constraint-system verdict for the point.
	Feasible bool

	// WorstName names the binding worst constraint margin, if any.
	WorstName string

	// WorstFrac is the worst hard margin as a fraction (negative means
	// violated). Meaningful only when HasWorst is true.
	WorstFrac float64

	// HasWorst reports whether the summarizer produced a margin at all.
	// Absent margins aggregate as 0.0, matching the constraint
	// bookkeeping's neutral reading.
	HasWorst bool
}

// MarginFn is the external constraint-margin summarizer.
type MarginFn func(outputs map[string]any) MarginSummary
