package protocol

import (
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

// IfElse returns cond·a + (1−cond)·b, computed as b + cond·(a−b) — one
// multiplication (§4.2).
func IfElse[T Value[T]](ctx step.Context, rid step.RecordID, cond, a, b share.Replicated[T]) (share.Replicated[T], error) {
	diff := a.Sub(b)
	prod, err := Multiply(ctx, rid, cond, diff)
	if err != nil {
		return share.Replicated[T]{}, err
	}
	return b.Add(prod), nil
}

// Or returns a + b − a·b — one multiplication (§4.2).
func Or[T Value[T]](ctx step.Context, rid step.RecordID, a, b share.Replicated[T]) (share.Replicated[T], error) {
	prod, err := Multiply(ctx, rid, a, b)
	if err != nil {
		return share.Replicated[T]{}, err
	}
	return a.Add(b).Sub(prod), nil
}
