// Package config holds the per-query configuration the driver validates
// before dispatching any rows (§6), and the small closed mapping from a
// credit cap to the generic bit-width tuple the rest of the core is
// monomorphized over (§9: "enumerate the supported tuples explicitly").
package config

import (
	"fmt"

	"github.com/private-attribution/ipa-helper/ipaerr"
)

// QueryConfig is the configuration a query driver receives from its
// collaborator (§6's "Configuration" external interface).
type QueryConfig struct {
	PerUserCreditCap         uint32
	AttributionWindowSeconds *uint32
	PlaintextMatchKeys       bool
	BreakdownKeyBits         int
	TriggerValueBits         int
	TimestampBits            int
}

var supportedCaps = map[uint32]int{
	8:   3,
	16:  4,
	32:  5,
	64:  6,
	128: 7,
}

var supportedBreakdownKeyBits = map[int]bool{5: true, 8: true}

// Validate enforces §6's cap enumeration, §9's closed set of supported
// (BK, TV, TS) tuples, and the Open Question decision (DESIGN.md): rather
// than silently mis-initializing difference_to_cap, a cap too small for
// the widest representable trigger value is rejected here.
func (c QueryConfig) Validate() error {
	if _, ok := supportedCaps[c.PerUserCreditCap]; !ok {
		return &ipaerr.ConfigInvalidError{Reason: fmt.Sprintf("per_user_credit_cap %d is not one of 8, 16, 32, 64, 128", c.PerUserCreditCap)}
	}
	if !supportedBreakdownKeyBits[c.BreakdownKeyBits] {
		return &ipaerr.ConfigInvalidError{Reason: fmt.Sprintf("breakdown_key_bits %d is not one of 5, 8", c.BreakdownKeyBits)}
	}
	if c.TriggerValueBits != 3 {
		return &ipaerr.ConfigInvalidError{Reason: fmt.Sprintf("trigger_value_bits %d must be 3 (BA3)", c.TriggerValueBits)}
	}
	if c.TimestampBits != 20 {
		return &ipaerr.ConfigInvalidError{Reason: fmt.Sprintf("timestamp_bits %d must be 20 (BA20)", c.TimestampBits)}
	}
	if c.AttributionWindowSeconds != nil && *c.AttributionWindowSeconds == 0 {
		return &ipaerr.ConfigInvalidError{Reason: "attribution_window_seconds must be positive when set"}
	}

	maxTriggerValue := uint32(1)<<uint(c.TriggerValueBits) - 1
	if c.PerUserCreditCap < maxTriggerValue {
		return &ipaerr.ConfigInvalidError{Reason: fmt.Sprintf("per_user_credit_cap %d is smaller than the largest representable trigger value %d; difference_to_cap's initial 0 would be wrong for such a row (§9 open question)", c.PerUserCreditCap, maxTriggerValue)}
	}
	return nil
}

// SaturatingSumBits returns the BA_SS width the configured cap selects
// (§6: "The cap selects the bit-width of the saturating-sum type"). Callers
// must call Validate first; SaturatingSumBits panics on an unrecognized cap.
func (c QueryConfig) SaturatingSumBits() int {
	bits, ok := supportedCaps[c.PerUserCreditCap]
	if !ok {
		panic(fmt.Sprintf("config: SaturatingSumBits called with unvalidated cap %d", c.PerUserCreditCap))
	}
	return bits
}
