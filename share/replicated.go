// Package share implements the replicated secret-sharing container (§4.1):
// a pair (left, right) of additive shares held by one helper, such that any
// two helpers together reconstruct the value (§3: "summing the three 'left'
// components reconstructs the value").
//
// Replicated is generic over any value type that supplies the three ring
// operations a protocol primitive needs locally (Add, Sub, Mul) — the same
// shape the teacher's drlwe share types (CKGShare, ShamirSecretShare) wrap
// around a concrete ring element, generalized here to a type parameter so
// Replicated works uniformly over field.Fp31, field.Fp32, gf2.Bit, and
// gf2.BitArray[W].
package share

import "github.com/private-attribution/ipa-helper/helper"

// Arithmetic is the capability bundle a value type needs to be carried in a
// Replicated share: local (non-interactive) ring addition, subtraction, and
// multiplication. Sub and Add coincide (both XOR) for gf2.Bit and
// gf2.BitArray[W]; they differ for field.Fp31/Fp32.
type Arithmetic[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Zero() T
}

// Replicated is a replicated share of a value of type T, as held by one
// helper: Left and Right are two of the value's three additive shares.
type Replicated[T Arithmetic[T]] struct {
	Left  T
	Right T
}

// New builds a replicated share directly from its two components. Used by
// transport deserialization and by tests constructing known shares.
func New[T Arithmetic[T]](left, right T) Replicated[T] {
	return Replicated[T]{Left: left, Right: right}
}

// Add returns a fresh share of the sum, computed locally (no protocol
// round): the defining property of additive replicated sharing.
func (r Replicated[T]) Add(o Replicated[T]) Replicated[T] {
	return Replicated[T]{Left: r.Left.Add(o.Left), Right: r.Right.Add(o.Right)}
}

// Sub returns a fresh share of the difference, computed locally.
func (r Replicated[T]) Sub(o Replicated[T]) Replicated[T] {
	return Replicated[T]{Left: r.Left.Sub(o.Left), Right: r.Right.Sub(o.Right)}
}

// ScalarMul multiplies by a public (non-secret-shared) value of the same
// type, computed locally — §4.1's "scalar multiply by a public V".
func (r Replicated[T]) ScalarMul(pub T) Replicated[T] {
	return Replicated[T]{Left: r.Left.Mul(pub), Right: r.Right.Mul(pub)}
}

// ShareKnownValue deterministically constructs the replicated sharing of a
// public constant v, so the three helpers cooperatively encode it without
// any communication (§4.1): left = v for H1, 0 otherwise; right = 0 for H1
// and H3, v for H2.
func ShareKnownValue[T Arithmetic[T]](self helper.Role, v T) Replicated[T] {
	zero := v.Zero()
	out := Replicated[T]{Left: zero, Right: zero}
	switch self {
	case helper.H1:
		out.Left = v
	case helper.H2:
		out.Right = v
	}
	return out
}

// Reconstruct sums every helper's Left component, matching §3's soundness
// invariant. It exists for tests and end-to-end scenarios that run all
// three helpers in-process and check the plaintext result; a deployed
// helper never reconstructs a share of secret data on its own.
func Reconstruct[T Arithmetic[T]](shares [3]Replicated[T]) T {
	sum := shares[0].Left
	sum = sum.Add(shares[1].Left)
	sum = sum.Add(shares[2].Left)
	return sum
}
