// Package testhelper3pc wires up three in-process helpers — PRSS, inmemory
// transport, and root step.Context — the way every end-to-end test in this
// module needs to, so each package's own tests only write the scenario, not
// the plumbing. Grounded on the teacher's own convention of a single-process
// multiparty harness for examples/tests (examples/multiparty/int_pir).
package testhelper3pc

import (
	"fmt"

	"github.com/private-attribution/ipa-helper/helper"
	"github.com/private-attribution/ipa-helper/internal/prss"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
	"github.com/private-attribution/ipa-helper/transport/inmemory"
)

// Split builds the three helpers' replicated shares of v the way honest
// helpers would hold them: H1=(s0,s1), H2=(s1,s2), H3=(s2,s0), given two
// arbitrary components s0 and s1 (the third is derived so the shares
// reconstruct to v). Works uniformly for field.Fp31/Fp32 (Sub is true
// subtraction) and gf2.Bit/BitArray[W] (Sub coincides with Add, i.e. XOR).
func Split[T share.Arithmetic[T]](v, s0, s1 T) [3]share.Replicated[T] {
	s2 := v.Sub(s0).Sub(s1)
	return [3]share.Replicated[T]{
		share.New(s0, s1),
		share.New(s1, s2),
		share.New(s2, s0),
	}
}

// Roots returns three root step.Context values, one per helper, sharing an
// in-process Network and consistent pairwise PRSS secrets, ready for
// Narrow() and immediate use in a protocol-level test.
func Roots(queryID string) [3]step.Context {
	net := inmemory.NewNetwork()

	// One secret per unordered pair of helpers: {H1,H2}, {H2,H3}, {H1,H3}.
	// Deterministic from queryID so repeated test runs are reproducible.
	pairSecret := [3][]byte{
		[]byte(queryID + "/pair/h1h2"),
		[]byte(queryID + "/pair/h2h3"),
		[]byte(queryID + "/pair/h1h3"),
	}
	secretBetween := func(a, b helper.Role) []byte {
		switch {
		case (a == helper.H1 && b == helper.H2) || (a == helper.H2 && b == helper.H1):
			return pairSecret[0]
		case (a == helper.H2 && b == helper.H3) || (a == helper.H3 && b == helper.H2):
			return pairSecret[1]
		default:
			return pairSecret[2]
		}
	}

	var ctxs [3]step.Context
	for i := 0; i < 3; i++ {
		r := helper.Role(i)
		p, err := prss.New(secretBetween(r, r.Left()), secretBetween(r, r.Right()))
		if err != nil {
			panic(fmt.Sprintf("testhelper3pc: %v", err))
		}
		ctxs[i] = step.Root(r, queryID, p, net.ForRole(r))
	}
	return ctxs
}

// Run calls fn once per helper role concurrently, collecting each helper's
// error (nil on success). It blocks until every call returns, matching the
// fact that a protocol round only completes once all three helpers reach
// their matching Send/Receive.
func Run(fn func(role helper.Role) error) [3]error {
	var errs [3]error
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		go func(r helper.Role) {
			errs[r] = fn(r)
			done <- struct{}{}
		}(helper.Role(i))
	}
	for i := 0; i < 3; i++ {
		<-done
	}
	return errs
}
