// Package attribution implements the per-user attribution circuit (§4.4):
// given a user's first row (to build initial state) and its remaining rows
// in timestamp order, it folds a small secret-shared state across the rows
// and emits one output row per subsequent input row.
//
// The fold itself is a straight line of protocol.Multiply-based primitives,
// each narrowed to its own step.Label from the table in §4.3 — the same
// "one struct, one method per protocol round, narrow-then-call" shape the
// teacher's multiparty round implementations use (e.g. drlwe/ckg.go's
// GenShare narrowing a fresh CRP per call).
package attribution

import (
	"github.com/private-attribution/ipa-helper/gf2"
	"github.com/private-attribution/ipa-helper/helper"
	"github.com/private-attribution/ipa-helper/share"
)

// Row is one secret-shared input record (§3's "Input row"), generic over
// the configured breakdown-key, trigger-value, and timestamp widths.
type Row[BK, TV, TS gf2.Width] struct {
	IsTrigger    share.Replicated[gf2.Bit]
	BreakdownKey share.Replicated[gf2.BitArray[BK]]
	TriggerValue share.Replicated[gf2.BitArray[TV]]
	Timestamp    share.Replicated[gf2.BitArray[TS]]
}

// State is the per-user state carried across the fold (§3's "Per-user
// state"), additionally generic over the saturating-sum width (derived from
// the configured credit cap, §6).
type State[BK, TV, TS, SS gf2.Width] struct {
	EverSawSource   share.Replicated[gf2.Bit]
	AttributedBK    share.Replicated[gf2.BitArray[BK]]
	SaturatingSum   share.Replicated[gf2.BitArray[SS]]
	IsSaturated     share.Replicated[gf2.Bit]
	DifferenceToCap share.Replicated[gf2.BitArray[TV]]
	LastSourceTS    share.Replicated[gf2.BitArray[TS]]
}

// Output is one emitted attribution result (§3's "Output row").
type Output[BK, TV gf2.Width] struct {
	AttributedBK       share.Replicated[gf2.BitArray[BK]]
	CappedTriggerValue share.Replicated[gf2.BitArray[TV]]
}

// Init builds the initial per-user state from a user's first row (§4.4
// "Initial state from first row"). The Open Question about an incorrect
// initial difference_to_cap is resolved by config.Validate rejecting any
// cap smaller than the widest representable trigger value, rather than by
// initializing difference_to_cap to anything other than 0 (DESIGN.md "Open
// Question decisions").
func Init[BK, TV, TS, SS gf2.Width](role helper.Role, first Row[BK, TV, TS]) State[BK, TV, TS, SS] {
	notTrigger := first.IsTrigger.Add(share.ShareKnownValue[gf2.Bit](role, gf2.One))
	return State[BK, TV, TS, SS]{
		EverSawSource:   notTrigger,
		AttributedBK:    first.BreakdownKey,
		SaturatingSum:   share.ShareKnownValue[gf2.BitArray[SS]](role, gf2.BitArray[SS]{}),
		IsSaturated:     share.ShareKnownValue[gf2.Bit](role, gf2.Zero),
		DifferenceToCap: share.ShareKnownValue[gf2.BitArray[TV]](role, gf2.BitArray[TV]{}),
		LastSourceTS:    first.Timestamp,
	}
}
