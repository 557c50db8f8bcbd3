// Package step implements the step-path and execution-context discipline
// described in §4.3: an immutable handle to (current step path,
// total-records-at-this-step, PRSS accessor, channel-sender factory).
//
// The re-architecture follows spec §9's "step path as compile-time enum":
// step labels are drawn from a fixed enumeration with a stable string
// encoding, and the dynamic templates (Row(d), Depth(b), Bit(i)) are
// string-formatted from a documented template rather than left open-ended.
// The context-cloning idiom (narrow allocates a new small immutable record
// sharing the PRSS/channel table by reference) follows the teacher's own
// practice of cheap, frequent context/struct cloning at every protocol
// round (e.g. drlwe's *Protocol structs being copied-by-value into each
// round's helper functions).
package step

import (
	"fmt"
	"sync/atomic"

	"github.com/private-attribution/ipa-helper/helper"
	"github.com/private-attribution/ipa-helper/internal/prss"
	"github.com/private-attribution/ipa-helper/transport"
)

// RecordID is a within-step monotone index pairing a send with its matching
// receive at the peer (§4.2).
type RecordID uint64

// Label is one of the fixed step labels enumerated in §4.3's table, or a
// label built from one of the dynamic templates below: Row(d) for the
// scheduler (§4.5), Depth(b) for bucket routing, and Bit(i) for per-bit
// sub-steps.
type Label string

// Step labels visited once per row by the attribution circuit (§4.3's
// table, in visitation order).
const (
	LabelEverEncounteredSourceEvent                          Label = "ever-encountered-source-event"
	LabelAttributedBreakdownKey                              Label = "attributed-breakdown-key"
	LabelSourceEventTimestamp                                Label = "source-event-timestamp"
	LabelDidTriggerGetAttributed                             Label = "did-trigger-get-attributed"
	LabelCheckAttributionWindow                              Label = "check-attribution-window"
	LabelComputeTimeDelta                                    Label = "compute-time-delta"
	LabelCompareTimeDeltaToAttributionWindow                 Label = "compare-time-delta-to-attribution-window"
	LabelAttributedEventCheckFlag                            Label = "attributed-event-check-flag"
	LabelAttributedTriggerValue                              Label = "attributed-trigger-value"
	LabelComputeSaturatingSum                                Label = "compute-saturating-sum"
	LabelIsSaturatedAndPrevRowNotSaturated                   Label = "is-saturated-and-prev-row-not-saturated"
	LabelComputeDifferenceToCap                              Label = "compute-difference-to-cap"
	LabelCappedAttributedTriggerValueNotSaturatedCase        Label = "capped-attributed-trigger-value-not-saturated-case"
	LabelCappedAttributedTriggerValueJustSaturatedCase       Label = "capped-attributed-trigger-value-just-saturated-case"
	LabelModulusConvertBreakdownKey                          Label = "modulus-convert-breakdown-key"
	LabelModulusConvertTriggerValue                          Label = "modulus-convert-trigger-value"
	LabelBucketRouting                                       Label = "bucket-routing"
)

// Row formats the depth-indexed outer step label driving the scheduler
// (§4.3: "Row(d) for depth d ∈ [1, max_depth)").
func Row(depth int) Label { return Label(fmt.Sprintf("row/%d", depth)) }

// Depth formats the comparator-tree depth label used by bucket routing
// (§4.3: "Depth(b) for comparator tree depth").
func Depth(level int) Label { return Label(fmt.Sprintf("depth/%d", level)) }

// Bit formats a per-bit-position sub-label for the ripple-carry adder, so
// each bit of the carry chain gets its own step path.
func Bit(i int) Label { return Label(fmt.Sprintf("bit/%d", i)) }

// Context is an immutable handle to a step path plus the resources a
// primitive needs to execute at that step: the PRSS accessor and the
// transport channel. Narrowing never mutates a Context; it returns a new
// one whose path has the label appended.
type Context struct {
	role  helper.Role
	path  string
	prss  *prss.PRSS
	chan_ transport.Channel

	// totalRecords is monotone: Set once via SetTotalRecords, read many
	// times. -1 means unset.
	totalRecords *int64
}

// Root constructs the root context for one query, narrowed no further than
// the query id itself.
func Root(role helper.Role, queryID string, p *prss.PRSS, ch transport.Channel) Context {
	total := int64(-1)
	return Context{role: role, path: queryID, prss: p, chan_: ch, totalRecords: &total}
}

// Narrow returns a child context whose step path has label appended. Pure:
// it allocates a new Context value but shares the underlying PRSS and
// channel table by reference, exactly as the teacher clones its protocol
// structs cheaply at every round.
func (c Context) Narrow(label Label) Context {
	total := int64(-1)
	return Context{
		role:         c.role,
		path:         c.path + "/" + string(label),
		prss:         c.prss,
		chan_:        c.chan_,
		totalRecords: &total,
	}
}

// SetTotalRecords annotates the context so the transport layer knows when a
// step is exhausted (§4.3). It is monotone: once set, later calls are
// no-ops — matching the teacher's TODO(600) treatment of repeated
// "required" setup calls as invariants rather than data errors (§9).
func (c Context) SetTotalRecords(n int) {
	atomic.CompareAndSwapInt64(c.totalRecords, -1, int64(n))
}

// TotalRecords returns the count set by SetTotalRecords, or -1 if unset.
func (c Context) TotalRecords() int {
	return int(atomic.LoadInt64(c.totalRecords))
}

// Path returns the full step path, used as the PRSS/channel routing key.
func (c Context) Path() string { return c.path }

// Role returns the helper role driving this context.
func (c Context) Role() helper.Role { return c.role }

// PRSS returns the pseudorandom-secret-sharing accessor for this context.
// Every narrowed child shares the same underlying generators; domain
// separation between steps comes from the step path being hashed into the
// pad, not from distinct generator instances (internal/prss).
func (c Context) PRSS() *prss.PRSS { return c.prss }

// Channel returns the per-(peer, step path) transport channel.
func (c Context) Channel() transport.Channel { return c.chan_ }

// Validator upgrades the context into the hook a future malicious-security
// validator would attach a MAC-tag accumulator to (§4.3, §9's
// "TODO(600)"). In the semi-honest path implemented here it is a
// transparent pass-through.
func (c Context) Validator() ValidatedContext { return ValidatedContext{Context: c} }

// ValidatedContext is the (currently transparent) malicious-security hook.
// It embeds Context so every primitive that accepts a Context also accepts
// a ValidatedContext without change.
type ValidatedContext struct {
	Context
}
