package gf2

import "github.com/private-attribution/ipa-helper/share"

// GetLane extracts the i-th bit of a replicated BitArray share as a
// replicated single-bit share — a local operation (no protocol round).
func GetLane[W Width](x share.Replicated[BitArray[W]], i int) share.Replicated[Bit] {
	return share.Replicated[Bit]{Left: x.Left.Get(i), Right: x.Right.Get(i)}
}

// SetLane returns a copy of x with its i-th bit replaced by v — local.
func SetLane[W Width](x share.Replicated[BitArray[W]], i int, v share.Replicated[Bit]) share.Replicated[BitArray[W]] {
	return share.Replicated[BitArray[W]]{Left: x.Left.Set(i, v.Left), Right: x.Right.Set(i, v.Right)}
}
