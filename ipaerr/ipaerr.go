// Package ipaerr defines the error kinds surfaced by the attribution core to
// its query driver. Every kind carries its underlying cause so a caller can
// unwrap to the original error without the core needing bespoke wrapping at
// every call site.
package ipaerr

import "fmt"

// UnknownFieldError is returned when an input byte sequence decodes to a
// value outside the valid range of the target field or bit array.
type UnknownFieldError struct {
	Value uint64
	Cause error
}

func (e *UnknownFieldError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ipaerr: value %d is outside the field: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("ipaerr: value %d is outside the field", e.Value)
}

func (e *UnknownFieldError) Unwrap() error { return e.Cause }

// ProtocolFailureError covers a peer message going missing, a deserialization
// mismatch, or a record id being reused within a step path.
type ProtocolFailureError struct {
	Step  string
	Cause error
}

func (e *ProtocolFailureError) Error() string {
	return fmt.Sprintf("ipaerr: protocol execution failed at step %q: %v", e.Step, e.Cause)
}

func (e *ProtocolFailureError) Unwrap() error { return e.Cause }

// ConfigInvalidError reports a query configuration that the core refuses to
// run, such as a credit cap outside the supported set.
type ConfigInvalidError struct {
	Reason string
	Cause  error
}

func (e *ConfigInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ipaerr: invalid config: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("ipaerr: invalid config: %s", e.Reason)
}

func (e *ConfigInvalidError) Unwrap() error { return e.Cause }

// InputInvariantViolatedError reports input rows that were not grouped and
// sorted as the scheduler requires (§3: "rows sharing a prf_of_match_key are
// contiguous and ordered oldest-first"). This is detected indirectly, by the
// record-id assignment desynchronizing, so the cause is usually a
// ProtocolFailureError or a direct description of the row index at fault.
type InputInvariantViolatedError struct {
	Reason string
	Cause  error
}

func (e *InputInvariantViolatedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ipaerr: input invariant violated: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("ipaerr: input invariant violated: %s", e.Reason)
}

func (e *InputInvariantViolatedError) Unwrap() error { return e.Cause }
