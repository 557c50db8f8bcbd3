package aggregate

import (
	"github.com/private-attribution/ipa-helper/protocol"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

// bucketRecordIDStride upper-bounds the number of multiplications any one
// row performs at a single bucket-routing tree level (2 per node, at most
// 2^|BK| nodes for the supported widths, §6: BK ∈ {BA5, BA8}). Scaling a
// row's own record id by this stride before adding a node's local index
// keeps every row's multiplications at a given (step, tree level) under
// distinct record ids, as §4.6 requires.
const bucketRecordIDStride = 1 << 16

// RouteToBucket obliviously routes a single field value into a one-hot
// vector of length 2^len(bkBits) using a binary tree of depth len(bkBits)
// (§4.6's "move_single_value_to_bucket", design-level): at level ℓ each
// live node is split into a left child (multiplied by the complement of
// the ℓ-th breakdown-key bit, most significant first) and a right child
// (multiplied by the bit itself), so the final leaf index equals the
// breakdown key's numeric value.
func RouteToBucket[F protocol.FieldValue[F]](ctx step.Context, rowRid step.RecordID, bkBits []share.Replicated[F], tv share.Replicated[F]) ([]share.Replicated[F], error) {
	one := share.ShareKnownValue(ctx.Role(), oneOf[F]())

	vec := []share.Replicated[F]{tv}
	routingCtx := ctx.Narrow(step.LabelBucketRouting)

	width := len(bkBits)
	for level := 0; level < width; level++ {
		bit := bkBits[width-1-level] // most-significant bit first
		notBit := one.Sub(bit)

		levelCtx := routingCtx.Narrow(step.Depth(level))
		next := make([]share.Replicated[F], len(vec)*2)
		for i, v := range vec {
			base := step.RecordID(uint64(rowRid)*bucketRecordIDStride + uint64(i*2))
			left, err := protocol.Multiply(levelCtx, base, v, notBit)
			if err != nil {
				return nil, err
			}
			right, err := protocol.Multiply(levelCtx, base+1, v, bit)
			if err != nil {
				return nil, err
			}
			next[i*2] = left
			next[i*2+1] = right
		}
		vec = next
	}
	return vec, nil
}

func oneOf[F protocol.FieldValue[F]]() F {
	var zeroF F
	return zeroF.FromUint64(1)
}
