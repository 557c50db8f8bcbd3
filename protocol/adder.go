package protocol

import (
	"github.com/private-attribution/ipa-helper/gf2"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

// IntegerAdd is the ripple-carry adder over k bits (§4.2). Output width
// equals x's width; any carry past bit k−1 is discarded. Per bit:
//
//	sum_i = x_i ⊕ y_i ⊕ c_{i−1}
//	c_i   = c_{i−1} ⊕ ((x_i ⊕ c_{i−1}) · (y_i ⊕ c_{i−1}))
//
// One multiplication per bit; bits are serial (the carry chain), but a
// caller driving many rows concurrently at the same bit index uses
// distinct record ids under the shared per-bit step, so those rows'
// multiplications proceed in parallel.
func IntegerAdd[W gf2.Width](ctx step.Context, rid step.RecordID, x, y share.Replicated[gf2.BitArray[W]], carryIn share.Replicated[gf2.Bit]) (share.Replicated[gf2.BitArray[W]], share.Replicated[gf2.Bit], error) {
	width := gf2.BitArray[W]{}.Width()
	var sum share.Replicated[gf2.BitArray[W]]
	carry := carryIn

	for i := 0; i < width; i++ {
		xi := gf2.GetLane(x, i)
		yi := gf2.GetLane(y, i)

		sumI := xi.Add(yi).Add(carry)

		xc := xi.Add(carry)
		yc := yi.Add(carry)
		prod, err := Multiply(ctx.Narrow(step.Bit(i)), rid, xc, yc)
		if err != nil {
			return share.Replicated[gf2.BitArray[W]]{}, share.Replicated[gf2.Bit]{}, err
		}
		carry = carry.Add(prod)
		sum = gf2.SetLane(sum, i, sumI)
	}

	return sum, carry, nil
}

// IntegerSub computes x − y as x + (~y) + 1, via the same adder (§4.2).
func IntegerSub[W gf2.Width](ctx step.Context, rid step.RecordID, x, y share.Replicated[gf2.BitArray[W]]) (share.Replicated[gf2.BitArray[W]], share.Replicated[gf2.Bit], error) {
	notY := y.Add(share.ShareKnownValue[gf2.BitArray[W]](ctx.Role(), gf2.AllOnes[W]()))
	one := share.ShareKnownValue[gf2.Bit](ctx.Role(), gf2.One)
	return IntegerAdd(ctx, rid, x, notY, one)
}

// CompareGT returns a share of 1 iff x > y. It is derived from the final
// borrow of y − x: computing x − y's own borrow directly conflates x > y
// with x == y (both leave no borrow), so CompareGT instead subtracts the
// other way and complements the carry-out, which is exact at the boundary
// (§4.2: "derived from the final borrow of x − y").
func CompareGT[W gf2.Width](ctx step.Context, rid step.RecordID, x, y share.Replicated[gf2.BitArray[W]]) (share.Replicated[gf2.Bit], error) {
	_, carryOut, err := IntegerSub(ctx, rid, y, x)
	if err != nil {
		return share.Replicated[gf2.Bit]{}, err
	}
	one := share.ShareKnownValue[gf2.Bit](ctx.Role(), gf2.One)
	return carryOut.Add(one), nil
}

// saturateStep is the internal sub-step IntegerSatAdd narrows to for its
// extra if_else multiplication (§4.2: "one extra multiplication using
// Expand of the carry"). It is not one of the row-level labels enumerated
// in §4.3's table because it belongs entirely inside ComputeSaturatingSum.
const saturateStep step.Label = "saturate-clamp"

// IntegerSatAdd is integer_add followed by, if the carry-out is 1,
// substituting an all-ones array for the sum (§4.2).
func IntegerSatAdd[W gf2.Width](ctx step.Context, rid step.RecordID, x, y share.Replicated[gf2.BitArray[W]]) (share.Replicated[gf2.BitArray[W]], share.Replicated[gf2.Bit], error) {
	zero := share.ShareKnownValue[gf2.Bit](ctx.Role(), gf2.Zero)
	sum, carry, err := IntegerAdd(ctx, rid, x, y, zero)
	if err != nil {
		return share.Replicated[gf2.BitArray[W]]{}, share.Replicated[gf2.Bit]{}, err
	}
	allOnes := share.ShareKnownValue[gf2.BitArray[W]](ctx.Role(), gf2.AllOnes[W]())
	saturated, err := IfElse(ctx.Narrow(saturateStep), rid, gf2.Expand[W](carry), allOnes, sum)
	if err != nil {
		return share.Replicated[gf2.BitArray[W]]{}, share.Replicated[gf2.Bit]{}, err
	}
	return saturated, carry, nil
}
