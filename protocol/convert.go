package protocol

import (
	"github.com/private-attribution/ipa-helper/gf2"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

// FieldValue is Value plus the ability to embed a small integer (a 0/1
// GF(2) bit) into the field — the capability ModulusConvertBit needs.
type FieldValue[T any] interface {
	Value[T]
	FromUint64(uint64) T
}

// ModulusConvertBit converts a replicated GF(2) bit share into a replicated
// share of the same 0/1 value in the prime field T, using one multiplication
// and PRSS (§4.6).
//
// This is a design-level construction, as the spec itself treats §4.6's
// conversion and bucket-routing steps (unlike §4.2's fully-specified
// primitives): it applies the standard two-share bit-injection identity
// b = s0 XOR s1 = s0 + s1 − 2·s0·s1 to the replicated share's own two known
// lanes, computing the cross term s0·s1 with one secure Multiply so that
// the result is a fresh, correctly re-randomized replicated share rather
// than a local recombination of already-known values.
func ModulusConvertBit[T FieldValue[T]](ctx step.Context, rid step.RecordID, bit share.Replicated[gf2.Bit]) (share.Replicated[T], error) {
	var zeroT T
	zero := zeroT.Zero()
	two := zeroT.FromUint64(2)

	left := zeroT.FromUint64(uint64(bit.Left))
	right := zeroT.FromUint64(uint64(bit.Right))

	a := share.Replicated[T]{Left: left, Right: zero}
	b := share.Replicated[T]{Left: zero, Right: right}
	prod, err := Multiply(ctx, rid, a, b)
	if err != nil {
		return share.Replicated[T]{}, err
	}

	sum := share.Replicated[T]{Left: left, Right: right}
	return sum.Sub(prod.ScalarMul(two)), nil
}
