package gf2

import "github.com/private-attribution/ipa-helper/share"

// Expand gates a k-bit value by a single secret bit without k separate
// multiplications (§4.1): it returns a replicated share of a BitArray[W]
// where every bit position equals the input bit share. Each helper computes
// this locally — Expand never suspends for a protocol round.
func Expand[W Width](bit share.Replicated[Bit]) share.Replicated[BitArray[W]] {
	expandOne := func(b Bit) BitArray[W] {
		if b == One {
			return AllOnes[W]()
		}
		return BitArray[W]{}
	}
	return share.Replicated[BitArray[W]]{
		Left:  expandOne(bit.Left),
		Right: expandOne(bit.Right),
	}
}
