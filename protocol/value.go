// Package protocol implements the secure primitives of §4.2: multiply,
// if_else, or, integer add/sub, the greater-than comparator, and saturating
// add, plus the modulus-conversion bit injection of §4.6. Every primitive
// takes a step.Context naming the step path and a step.RecordID, per §4.2's
// "two helpers exchanging a message during multiplication use (step path,
// record id) to match the send with the receive at the peer".
package protocol

import "github.com/private-attribution/ipa-helper/share"

// Value is the capability bundle a type needs to flow through the secure
// primitives in this package: the local ring arithmetic of
// share.Arithmetic, plus a fixed-width byte encoding used both for wire
// framing (§6) and to decode a PRSS pad into a value of the same type
// (§4.2, §5). field.Fp31, field.Fp32, gf2.Bit, and every gf2.BitArray[W]
// satisfy this.
type Value[T any] interface {
	share.Arithmetic[T]
	Bytes() []byte
	FromBytes([]byte) T
}
