// Package field implements the prime-field substrate (§4.1): Fp31, used by
// tests and small end-to-end scenarios, and Fp32, the 32-bit production
// field used by the bucket aggregator (§4.6).
//
// The reduction style (store the residue as a fixed-width unsigned integer,
// reduce mod p after every add/sub/mul) follows the teacher's ring package
// (ring/operations.go's AddVec/SubVec/MulVec over a modulus table), scaled
// down from a vector-of-moduli ring to a single scalar field element.
package field

import (
	"encoding/binary"
	"fmt"
)

// Fp31 is the small prime field used for unit tests and worked examples
// (§4.1: "Fp31 for tests").
type Fp31 struct {
	v uint8
}

const fp31Modulus = 31

// NewFp31 reduces v mod 31.
func NewFp31(v uint64) Fp31 {
	return Fp31{v: uint8(v % fp31Modulus)}
}

// TryFp31 rejects v >= 31, matching §4.1's try_from semantics.
func TryFp31(v uint64) (Fp31, error) {
	if v >= fp31Modulus {
		return Fp31{}, fmt.Errorf("field: %d is not a valid Fp31 residue", v)
	}
	return Fp31{v: uint8(v)}, nil
}

func (a Fp31) Add(b Fp31) Fp31 { return Fp31{v: uint8((uint16(a.v) + uint16(b.v)) % fp31Modulus)} }

func (a Fp31) Sub(b Fp31) Fp31 {
	return Fp31{v: uint8((uint16(a.v) + fp31Modulus - uint16(b.v)) % fp31Modulus)}
}

func (a Fp31) Mul(b Fp31) Fp31 { return Fp31{v: uint8((uint16(a.v) * uint16(b.v)) % fp31Modulus)} }

func (a Fp31) Neg() Fp31 { return Fp31{}.Sub(a) }

// Zero is the additive identity; One is the multiplicative identity. Both
// are defined as methods (rather than package-level constants) so generic
// code constrained on share.Arithmetic[T] can obtain them from any value.
func (Fp31) Zero() Fp31 { return Fp31{v: 0} }
func (Fp31) One() Fp31  { return Fp31{v: 1} }

// FromUint64 embeds a small integer (e.g. a 0/1 GF(2) bit) into the field,
// reducing mod p. Used by the modulus-conversion bit injection (§4.6).
func (Fp31) FromUint64(v uint64) Fp31 { return NewFp31(v) }

// ScalarMul multiplies by a small public integer scalar, reducing mod p.
// It is local (no protocol round).
func (a Fp31) ScalarMul(n uint64) Fp31 { return NewFp31(uint64(a.v) * n) }

func (a Fp31) Uint64() uint64 { return uint64(a.v) }

func (a Fp31) IsZero() bool { return a.v == 0 }

// Equal lets go-cmp compare Fp31 values without needing
// cmp.AllowUnexported, since v is unexported.
func (a Fp31) Equal(b Fp31) bool { return a.v == b.v }

// Bytes serializes to the fixed 1-byte width ⌈log2(31)/8⌉ = 1.
func (a Fp31) Bytes() []byte { return []byte{a.v} }

// FromBytes is the companion of Bytes; it also doubles as the PRSS-pad
// decoder (§4.2), taking the low byte of a pseudorandom stream mod 31.
func (Fp31) FromBytes(b []byte) Fp31 {
	if len(b) == 0 {
		return Fp31{}
	}
	return NewFp31(uint64(b[0]))
}

// Fp32 is the production field: 32-bit values reduced modulo the largest
// prime below 2^32, 4294967291 (§4.1: "a 32-bit prime for production").
type Fp32 struct {
	v uint32
}

const fp32Modulus uint64 = 4294967291

// NewFp32 reduces v mod the field's modulus.
func NewFp32(v uint64) Fp32 { return Fp32{v: uint32(v % fp32Modulus)} }

// TryFp32 rejects v >= the modulus.
func TryFp32(v uint64) (Fp32, error) {
	if v >= fp32Modulus {
		return Fp32{}, fmt.Errorf("field: %d is not a valid Fp32 residue", v)
	}
	return Fp32{v: uint32(v)}, nil
}

func (a Fp32) Add(b Fp32) Fp32 {
	return Fp32{v: uint32((uint64(a.v) + uint64(b.v)) % fp32Modulus)}
}

func (a Fp32) Sub(b Fp32) Fp32 {
	return Fp32{v: uint32((uint64(a.v) + fp32Modulus - uint64(b.v)) % fp32Modulus)}
}

func (a Fp32) Mul(b Fp32) Fp32 {
	return Fp32{v: uint32((uint64(a.v) * uint64(b.v)) % fp32Modulus)}
}

func (a Fp32) Neg() Fp32 { return Fp32{}.Sub(a) }

func (Fp32) Zero() Fp32 { return Fp32{v: 0} }
func (Fp32) One() Fp32  { return Fp32{v: 1} }

// FromUint64 embeds a small integer into the field, reducing mod p.
func (Fp32) FromUint64(v uint64) Fp32 { return NewFp32(v) }

func (a Fp32) ScalarMul(n uint64) Fp32 { return NewFp32(uint64(a.v) * n) }

func (a Fp32) Uint64() uint64 { return uint64(a.v) }

func (a Fp32) IsZero() bool { return a.v == 0 }

// Equal lets go-cmp compare Fp32 values without needing
// cmp.AllowUnexported, since v is unexported.
func (a Fp32) Equal(b Fp32) bool { return a.v == b.v }

// Bytes serializes to the fixed 4-byte width ⌈log2(4294967291)/8⌉ = 4,
// little-endian to match the wire framing described in spec §6.
func (a Fp32) Bytes() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, a.v)
	return b
}

// FromBytes decodes a 4-byte little-endian buffer, reducing mod p so it
// doubles as the PRSS-pad decoder.
func (Fp32) FromBytes(b []byte) Fp32 {
	var buf [4]byte
	copy(buf[:], b)
	return NewFp32(uint64(binary.LittleEndian.Uint32(buf[:])))
}
