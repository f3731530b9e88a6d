// Package faults defines the fatal error taxonomy shared by the contract,
// ledger, and certification packages.
//
// Only three conditions are fatal: schema mismatch on load, corner-count
// budget overflow, and empty required input. Everything else (bad tag
// types, non-numeric interval bounds, dangling edge endpoints) degrades
// by documented coercion, filtering, or no-op, because the ledger's core
// guarantee is "never corrupt, never crash" for an append-only audit
// trail. Fatal errors are raised at the boundary of the call that
// detected them and never swallowed internally.
package faults

import (
	"errors"
	"fmt"
)

// SchemaError reports a version or shape mismatch on a persisted contract
// or ledger document. Loaders must refuse rather than guess.
type SchemaError struct {
	// Want is the supported schema tag.
	Want string

	// Got is the tag found in the document.
	Got string

	// Source names the document kind ("ledger", "contract", ...).
	Source string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("SCHEMA_MISMATCH: %s schema %q not supported (want %q)", e.Source, e.Got, e.Want)
}

// TooManyDimensionsError reports a contract whose 2^N corner count exceeds
// the caller-supplied cap. This is a configuration error: narrow the
// contract or raise the cap explicitly.
type TooManyDimensionsError struct {
	Dims int
	Max  int
}

func (e *TooManyDimensionsError) Error() string {
	return fmt.Sprintf("TOO_MANY_DIMENSIONS: %d uncertain dimensions > max %d; reduce dimensions or raise the cap explicitly", e.Dims, e.Max)
}

// EmptyInputError reports an empty candidate list or interval map passed
// to an operation that requires at least one element.
type EmptyInputError struct {
	// What names the missing input ("points", "intervals", ...).
	What string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("EMPTY_INPUT: %s must be non-empty", e.What)
}

// IsSchemaError reports whether err is (or wraps) a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsTooManyDimensions reports whether err is (or wraps) a TooManyDimensionsError.
func IsTooManyDimensions(err error) bool {
	var te *TooManyDimensionsError
	return errors.As(err, &te)
}

// IsEmptyInput reports whether err is (or wraps) an EmptyInputError.
func IsEmptyInput(err error) bool {
	var ee *EmptyInputError
	return errors.As(err, &ee)
}
