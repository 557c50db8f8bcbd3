package gf2

import "github.com/private-attribution/ipa-helper/share"

// NarrowLanes drops the high bits of a wider replicated bit array down to a
// narrower width, keeping only the low toWidth lanes. This is a local,
// non-interactive operation: for additive XOR sharing, each bit lane's
// value depends only on that lane across the three helpers' shares, so
// restricting to a prefix of lanes and restricting to a prefix of helpers'
// shares commute.
func NarrowLanes[From, To Width](x share.Replicated[BitArray[From]]) share.Replicated[BitArray[To]] {
	return share.Replicated[BitArray[To]]{
		Left:  TruncateFrom[To](x.Left.Uint64()),
		Right: TruncateFrom[To](x.Right.Uint64()),
	}
}

// Widen zero-extends a narrower replicated bit array up to a wider width.
// Like NarrowLanes, this is local: the high lanes introduced are all-zero
// for every one of the three helpers' shares, so they XOR-reconstruct to 0.
func Widen[From, To Width](x share.Replicated[BitArray[From]]) share.Replicated[BitArray[To]] {
	return share.Replicated[BitArray[To]]{
		Left:  TruncateFrom[To](x.Left.Uint64()),
		Right: TruncateFrom[To](x.Right.Uint64()),
	}
}
