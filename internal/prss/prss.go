// Package prss implements pseudorandom secret sharing: the correlated
// randomness two neighboring helpers use to mask a secret-shared
// multiplication's output (§4.2, §5).
//
// The design follows the teacher's dbfv/collective_CRS.go PRNG — a
// deterministic, seeded generator built on golang.org/x/crypto/blake2b —
// generalized in two ways: (1) a helper keeps one generator per neighbor
// (left and right) instead of one shared by all parties, matching §4.1's
// pairwise replicated-share structure, and (2) each generator is a keyed
// BLAKE3 hash of the (step path, record id) pair rather than a
// clock-advancing stream, so concurrent callers at the same step draw
// independent pads with no shared mutable state and no locking — the
// concurrency requirement in §5 ("concurrent users at the same step draw
// distinct record-indexed pads without locking").
package prss

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// seedSize is the BLAKE3 keyed-hash key width.
const seedSize = 32

// PRSS is one helper's pair of pseudorandom generators, one shared with its
// left neighbor and one with its right neighbor (§4.1: "a replicated share
// of value v held by helper i is the pair (v_i, v_{i+1 mod 3})"). The two
// master secrets are provisioned out of band by the (out of scope) key
// agreement that happens during helper handshake; PRSS only consumes them.
type PRSS struct {
	leftSeed  [seedSize]byte
	rightSeed [seedSize]byte
}

// New derives a PRSS from two raw shared secrets (one per neighbor) using a
// keyed BLAKE2b-512 hash to whiten them into fixed-width BLAKE3 keys. Using
// blake2b here (rather than truncating the raw secret directly) mirrors the
// teacher's own blake2b.New512(key)-backed PRNG constructor.
//
// Both secrets are whitened with the same info string. This matters: the
// secret shared between two neighboring helpers out of band is symmetric
// (neither helper is privileged), so helper i's rightSecret and helper
// i+1's leftSecret must be the identical raw bytes, and they must derive to
// the identical seed regardless of which side calls it "left" or "right" —
// a per-direction info string would make the two helpers derive different
// seeds from the same shared secret and silently break every masked
// multiplication between them.
func New(leftSecret, rightSecret []byte) (*PRSS, error) {
	left, err := deriveSeed(leftSecret)
	if err != nil {
		return nil, err
	}
	right, err := deriveSeed(rightSecret)
	if err != nil {
		return nil, err
	}
	return &PRSS{leftSeed: left, rightSeed: right}, nil
}

const seedInfo = "ipa-helper/prss"

func deriveSeed(secret []byte) ([seedSize]byte, error) {
	var out [seedSize]byte
	h, err := blake2b.New512([]byte(seedInfo))
	if err != nil {
		return out, err
	}
	h.Write(secret)
	copy(out[:], h.Sum(nil)[:seedSize])
	return out, nil
}

// padBytes deterministically derives n pseudorandom bytes for the given
// neighbor seed, step path, and record id, via a keyed BLAKE3 hash. Distinct
// (step, record id) pairs are independent: no counter, no lock.
func padBytes(seed [seedSize]byte, stepPath string, recordID uint64, n int) []byte {
	h, err := blake3.NewKeyed(seed[:])
	if err != nil {
		// Only fails for a key of the wrong length, which seedSize rules out.
		panic(err)
	}
	h.Write([]byte(stepPath))
	var ridBuf [8]byte
	binary.LittleEndian.PutUint64(ridBuf[:], recordID)
	h.Write(ridBuf[:])
	out := make([]byte, n)
	d := h.Digest()
	_, _ = d.Read(out)
	return out
}

// Left returns n pseudorandom bytes shared with the left neighbor for the
// given step path and record id.
func (p *PRSS) Left(stepPath string, recordID uint64, n int) []byte {
	return padBytes(p.leftSeed, stepPath, recordID, n)
}

// Right returns n pseudorandom bytes shared with the right neighbor for the
// given step path and record id.
func (p *PRSS) Right(stepPath string, recordID uint64, n int) []byte {
	return padBytes(p.rightSeed, stepPath, recordID, n)
}
