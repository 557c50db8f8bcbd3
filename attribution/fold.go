package attribution

import (
	"github.com/private-attribution/ipa-helper/gf2"
	"github.com/private-attribution/ipa-helper/protocol"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

// Fold advances state by one subsequent row, implementing §4.4's
// thirteen-step per-row fold, and returns the new state plus the row's
// output. ctx must already be narrowed to this row's record (the scheduler
// owns Narrow(step.Row(d))); rid is the record id the scheduler assigned
// this user at this depth. window is the configured attribution window in
// seconds, or nil when unset (§4.4 step 3, step 5, step 6: three separate
// places the window-unset case skips a multiplication entirely rather than
// running one against a publicly-known 1).
func Fold[BK, TV, TS, SS gf2.Width](ctx step.Context, rid step.RecordID, state State[BK, TV, TS, SS], row Row[BK, TV, TS], window *uint32) (State[BK, TV, TS, SS], Output[BK, TV], error) {
	role := ctx.Role()
	one := share.ShareKnownValue[gf2.Bit](role, gf2.One)

	// 1. ever_saw_source ← or(¬is_trigger, ever_saw_source)
	notTrigger := row.IsTrigger.Add(one)
	newEverSawSource, err := protocol.Or(ctx.Narrow(step.LabelEverEncounteredSourceEvent), rid, notTrigger, state.EverSawSource)
	if err != nil {
		return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
	}

	// 2. attributed_bk ← if_else(expand(is_trigger), attributed_bk, row.breakdown_key)
	triggerBK := gf2.Expand[BK](row.IsTrigger)
	newAttributedBK, err := protocol.IfElse(ctx.Narrow(step.LabelAttributedBreakdownKey), rid, triggerBK, state.AttributedBK, row.BreakdownKey)
	if err != nil {
		return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
	}

	// 3. last_source_ts ← if_else(expand(is_trigger), last_source_ts, row.timestamp)
	// Skipped entirely (no protocol round spent) when no attribution window
	// is configured, since within_window is then a publicly-known 1 and
	// last_source_ts is never read again.
	newLastSourceTS := state.LastSourceTS
	if window != nil {
		triggerTS := gf2.Expand[TS](row.IsTrigger)
		newLastSourceTS, err = protocol.IfElse(ctx.Narrow(step.LabelSourceEventTimestamp), rid, triggerTS, state.LastSourceTS, row.Timestamp)
		if err != nil {
			return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
		}
	}

	// 4. did_trigger_get_attributed ← is_trigger · ever_saw_source
	didTriggerGetAttributed, err := protocol.Multiply(ctx.Narrow(step.LabelDidTriggerGetAttributed), rid, row.IsTrigger, newEverSawSource)
	if err != nil {
		return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
	}

	// 5. within_window ← ¬compare_gt(integer_sub(row.ts, last_source_ts), W), or 1 if W is unset.
	withinWindow := share.ShareKnownValue[gf2.Bit](role, gf2.One)
	if window != nil {
		windowCtx := ctx.Narrow(step.LabelCheckAttributionWindow)
		delta, _, err := protocol.IntegerSub(windowCtx.Narrow(step.LabelComputeTimeDelta), rid, row.Timestamp, newLastSourceTS)
		if err != nil {
			return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
		}
		windowBound := share.ShareKnownValue[gf2.BitArray[TS]](role, gf2.TruncateFrom[TS](uint64(*window)))
		pastWindow, err := protocol.CompareGT(windowCtx.Narrow(step.LabelCompareTimeDeltaToAttributionWindow), rid, delta, windowBound)
		if err != nil {
			return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
		}
		withinWindow = pastWindow.Add(one)
	}

	// 6. zero_out_flag ← did_trigger_get_attributed · within_window. Skipped
	// when W is unset: multiplying by a publicly-known 1 is a no-op.
	zeroOutFlag := didTriggerGetAttributed
	if window != nil {
		zeroOutFlag, err = protocol.Multiply(ctx.Narrow(step.LabelAttributedEventCheckFlag), rid, didTriggerGetAttributed, withinWindow)
		if err != nil {
			return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
		}
	}

	// 7. attributed_tv ← if_else(expand(zero_out_flag), row.trigger_value, 0)
	zeroTV := share.ShareKnownValue[gf2.BitArray[TV]](role, gf2.BitArray[TV]{})
	attributedTV, err := protocol.IfElse(ctx.Narrow(step.LabelAttributedTriggerValue), rid, gf2.Expand[TV](zeroOutFlag), row.TriggerValue, zeroTV)
	if err != nil {
		return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
	}

	// 8. (updated_sum, overflow) ← integer_add(saturating_sum, attributed_tv)
	updatedSum, overflow, err := protocol.IntegerAdd(ctx.Narrow(step.LabelComputeSaturatingSum), rid, state.SaturatingSum, gf2.Widen[TV, SS](attributedTV), share.ShareKnownValue[gf2.Bit](role, gf2.Zero))
	if err != nil {
		return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
	}

	// 9. just_saturated ← overflow · ¬is_saturated
	notPrevSaturated := state.IsSaturated.Add(one)
	justSaturated, err := protocol.Multiply(ctx.Narrow(step.LabelIsSaturatedAndPrevRowNotSaturated), rid, overflow, notPrevSaturated)
	if err != nil {
		return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
	}

	// 10. difference_to_cap_new ← integer_sub(0, updated_sum), narrowed to
	// BA_TV's width (§3's data model types difference_to_cap as BA_TV; the
	// narrowing is sound because the saturating-sum width is always at
	// least the trigger-value width for every supported cap, §9).
	differenceToCapNew, _, err := protocol.IntegerSub(ctx.Narrow(step.LabelComputeDifferenceToCap), rid, zeroTV, gf2.NarrowLanes[SS, TV](updatedSum))
	if err != nil {
		return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
	}

	// 11. is_saturated_new ← is_saturated + just_saturated (plain add, no multiplication)
	newIsSaturated := state.IsSaturated.Add(justSaturated)

	// 12. capped trigger value: a ← if_else(expand(is_saturated_new), 0, attributed_tv);
	//     capped ← if_else(expand(just_saturated), difference_to_cap_prev, a)
	a, err := protocol.IfElse(ctx.Narrow(step.LabelCappedAttributedTriggerValueNotSaturatedCase), rid, gf2.Expand[TV](newIsSaturated), zeroTV, attributedTV)
	if err != nil {
		return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
	}
	capped, err := protocol.IfElse(ctx.Narrow(step.LabelCappedAttributedTriggerValueJustSaturatedCase), rid, gf2.Expand[TV](justSaturated), state.DifferenceToCap, a)
	if err != nil {
		return State[BK, TV, TS, SS]{}, Output[BK, TV]{}, err
	}

	newState := State[BK, TV, TS, SS]{
		EverSawSource:   newEverSawSource,
		AttributedBK:    newAttributedBK,
		SaturatingSum:   updatedSum,
		IsSaturated:     newIsSaturated,
		DifferenceToCap: differenceToCapNew,
		LastSourceTS:    newLastSourceTS,
	}
	output := Output[BK, TV]{AttributedBK: newAttributedBK, CappedTriggerValue: capped}
	return newState, output, nil
}
