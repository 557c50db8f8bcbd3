package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/private-attribution/ipa-helper/gf2"
	"github.com/private-attribution/ipa-helper/helper"
	"github.com/private-attribution/ipa-helper/internal/testhelper3pc"
	"github.com/private-attribution/ipa-helper/protocol"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

func TestIfElsePicksCorrectBranch(t *testing.T) {
	for _, cond := range []gf2.Bit{gf2.Zero, gf2.One} {
		condShares := testhelper3pc.Split(cond, gf2.One, gf2.Zero)
		aShares := testhelper3pc.Split(gf2.One, gf2.One, gf2.Zero)
		bShares := testhelper3pc.Split(gf2.Zero, gf2.Zero, gf2.Zero)

		roots := testhelper3pc.Roots("if-else-query")
		var results [3]share.Replicated[gf2.Bit]
		errs := testhelper3pc.Run(func(role helper.Role) error {
			ctx := roots[role].Narrow("test-if-else")
			out, err := protocol.IfElse(ctx, step.RecordID(0), condShares[role], aShares[role], bShares[role])
			results[role] = out
			return err
		})
		for _, err := range errs {
			require.NoError(t, err)
		}

		want := gf2.One
		if cond == gf2.Zero {
			want = gf2.Zero
		}
		assert.Equal(t, want, share.Reconstruct(results), "cond=%v", cond)
	}
}

func TestOrTruthTable(t *testing.T) {
	cases := []struct{ a, b, want gf2.Bit }{
		{gf2.Zero, gf2.Zero, gf2.Zero},
		{gf2.Zero, gf2.One, gf2.One},
		{gf2.One, gf2.Zero, gf2.One},
		{gf2.One, gf2.One, gf2.One},
	}
	for _, c := range cases {
		aShares := testhelper3pc.Split(c.a, gf2.One, gf2.One)
		bShares := testhelper3pc.Split(c.b, gf2.One, gf2.Zero)

		roots := testhelper3pc.Roots("or-query")
		var results [3]share.Replicated[gf2.Bit]
		errs := testhelper3pc.Run(func(role helper.Role) error {
			ctx := roots[role].Narrow("test-or")
			out, err := protocol.Or(ctx, step.RecordID(0), aShares[role], bShares[role])
			results[role] = out
			return err
		})
		for _, err := range errs {
			require.NoError(t, err)
		}
		assert.Equal(t, c.want, share.Reconstruct(results), "a=%v b=%v", c.a, c.b)
	}
}
