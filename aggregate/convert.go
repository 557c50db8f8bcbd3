// Package aggregate implements modulus conversion and oblivious bucket
// routing (§4.6): converting an attribution output's GF(2)-shared
// breakdown key and trigger value into prime-field shares, routing each
// row's trigger value into a one-hot bucket vector, and accumulating those
// vectors by local field addition.
package aggregate

import (
	"github.com/private-attribution/ipa-helper/gf2"
	"github.com/private-attribution/ipa-helper/protocol"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

// convertBits modulus-converts every bit of x (§4.6: "applied to each bit of
// (bk || tv)"), returning one field share per bit, index 0 = least
// significant. label narrows the step so breakdown-key and trigger-value
// conversions occupy distinct step paths.
func convertBits[W gf2.Width, F protocol.FieldValue[F]](ctx step.Context, rid step.RecordID, label step.Label, x share.Replicated[gf2.BitArray[W]]) ([]share.Replicated[F], error) {
	width := gf2.BitArray[W]{}.Width()
	bits := make([]share.Replicated[F], width)
	base := ctx.Narrow(label)
	for i := 0; i < width; i++ {
		bit := gf2.GetLane(x, i)
		converted, err := protocol.ModulusConvertBit[F](base.Narrow(step.Bit(i)), rid, bit)
		if err != nil {
			return nil, err
		}
		bits[i] = converted
	}
	return bits, nil
}

// recompose folds bits (index 0 = least significant) into a single field
// element via public powers-of-two scalar multiplication — local, no
// protocol round, since the weights 1,2,4,... are public constants.
func recompose[F protocol.FieldValue[F]](bits []share.Replicated[F]) share.Replicated[F] {
	var zeroF F
	sum := share.Replicated[F]{Left: zeroF.Zero(), Right: zeroF.Zero()}
	weight := uint64(1)
	for _, b := range bits {
		sum = sum.Add(b.ScalarMul(zeroF.FromUint64(weight)))
		weight <<= 1
	}
	return sum
}

// ConvertBreakdownKeyBits modulus-converts a row's breakdown key, bit by
// bit (§4.6), for use as the bucket-routing selector (§4.6's binary tree
// reads one bit of the key per level).
func ConvertBreakdownKeyBits[BK gf2.Width, F protocol.FieldValue[F]](ctx step.Context, rid step.RecordID, bk share.Replicated[gf2.BitArray[BK]]) ([]share.Replicated[F], error) {
	return convertBits[BK, F](ctx, rid, step.LabelModulusConvertBreakdownKey, bk)
}

// ConvertTriggerValue modulus-converts a row's capped trigger value bit by
// bit and recomposes the bits into one field element (§4.6).
func ConvertTriggerValue[TV gf2.Width, F protocol.FieldValue[F]](ctx step.Context, rid step.RecordID, tv share.Replicated[gf2.BitArray[TV]]) (share.Replicated[F], error) {
	bits, err := convertBits[TV, F](ctx, rid, step.LabelModulusConvertTriggerValue, tv)
	if err != nil {
		return share.Replicated[F]{}, err
	}
	return recompose(bits), nil
}
