package protocol

import (
	"github.com/private-attribution/ipa-helper/ipaerr"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

// Multiply is the one-round secret-shared multiplication primitive (§4.2).
// Each helper locally computes the cross terms of a·b it can see from its
// two-of-three shares, masks the result with a PRSS-derived pad, sends the
// masked value to its right neighbor, and receives the matching value from
// its left neighbor. The received value and the masked value together form
// a fresh replicated share of a·b.
//
// All three helpers must call Multiply with the same (ctx.Path(), rid) in
// the same order; a divergence desynchronizes the computation (§4.2).
func Multiply[T Value[T]](ctx step.Context, rid step.RecordID, a, b share.Replicated[T]) (share.Replicated[T], error) {
	local := a.Left.Mul(b.Left).Add(a.Left.Mul(b.Right)).Add(a.Right.Mul(b.Left))

	n := len(local.Bytes())
	leftPad := local.FromBytes(ctx.PRSS().Left(ctx.Path(), uint64(rid), n))
	rightPad := local.FromBytes(ctx.PRSS().Right(ctx.Path(), uint64(rid), n))
	masked := local.Add(leftPad.Sub(rightPad))

	if err := ctx.Channel().Send(ctx.Role().Right(), ctx.Path(), uint64(rid), masked.Bytes()); err != nil {
		return share.Replicated[T]{}, &ipaerr.ProtocolFailureError{Step: ctx.Path(), Cause: err}
	}
	recvBytes, err := ctx.Channel().Receive(ctx.Role().Left(), ctx.Path(), uint64(rid))
	if err != nil {
		return share.Replicated[T]{}, &ipaerr.ProtocolFailureError{Step: ctx.Path(), Cause: err}
	}
	received := local.FromBytes(recvBytes)

	return share.Replicated[T]{Left: received, Right: masked}, nil
}
