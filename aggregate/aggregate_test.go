package aggregate_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/private-attribution/ipa-helper/aggregate"
	"github.com/private-attribution/ipa-helper/attribution"
	"github.com/private-attribution/ipa-helper/field"
	"github.com/private-attribution/ipa-helper/gf2"
	"github.com/private-attribution/ipa-helper/helper"
	"github.com/private-attribution/ipa-helper/internal/testhelper3pc"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

func fp31Vec(vals ...uint64) []field.Fp31 {
	out := make([]field.Fp31, len(vals))
	for i, v := range vals {
		out[i] = field.NewFp31(v)
	}
	return out
}

type bk = gf2.W3
type tv = gf2.W3

func splitOutput(bkVal, tvVal uint64) [3]attribution.Output[bk, tv] {
	bkShares := testhelper3pc.Split(gf2.TruncateFrom[bk](bkVal), gf2.TruncateFrom[bk](1), gf2.TruncateFrom[bk](1))
	tvShares := testhelper3pc.Split(gf2.TruncateFrom[tv](tvVal), gf2.TruncateFrom[tv](2), gf2.TruncateFrom[tv](2))
	var out [3]attribution.Output[bk, tv]
	for i := 0; i < 3; i++ {
		out[i] = attribution.Output[bk, tv]{AttributedBK: bkShares[i], CappedTriggerValue: tvShares[i]}
	}
	return out
}

func reconstructBuckets(perRole [3][]share.Replicated[field.Fp31]) []field.Fp31 {
	n := len(perRole[0])
	out := make([]field.Fp31, n)
	for i := 0; i < n; i++ {
		out[i] = share.Reconstruct([3]share.Replicated[field.Fp31]{perRole[0][i], perRole[1][i], perRole[2][i]})
	}
	return out
}

func TestAggregateRowProducesOneHotBucket(t *testing.T) {
	out := splitOutput(5, 3) // breakdown key 5, trigger value 3

	roots := testhelper3pc.Roots("aggregate-row-query")
	var buckets [3][]share.Replicated[field.Fp31]
	errs := testhelper3pc.Run(func(role helper.Role) error {
		ctx := roots[role].Narrow("test-aggregate-row")
		vec, err := aggregate.AggregateRow[bk, tv, field.Fp31](ctx, step.RecordID(0), out[role])
		buckets[role] = vec
		return err
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	plaintext := reconstructBuckets(buckets)
	require.Len(t, plaintext, 8) // 2^3 buckets

	want := fp31Vec(0, 0, 0, 0, 0, 3, 0, 0)
	if diff := cmp.Diff(want, plaintext); diff != "" {
		t.Errorf("bucket vector mismatch (-want +got):\n%s", diff)
	}
}

func TestAccumulateSumsAcrossRows(t *testing.T) {
	rowA := splitOutput(2, 4)
	rowB := splitOutput(2, 3)
	rowC := splitOutput(6, 1)

	roots := testhelper3pc.Roots("aggregate-accumulate-query")
	var totals [3][]share.Replicated[field.Fp31]
	errs := testhelper3pc.Run(func(role helper.Role) error {
		ctx := roots[role].Narrow("test-accumulate")
		ch := make(chan []share.Replicated[field.Fp31], 3)
		for i, row := range []attribution.Output[bk, tv]{rowA[role], rowB[role], rowC[role]} {
			vec, err := aggregate.AggregateRow[bk, tv, field.Fp31](ctx, step.RecordID(i), row)
			if err != nil {
				return err
			}
			ch <- vec
		}
		close(ch)
		totals[role] = aggregate.Accumulate[field.Fp31](8, ch)
		return nil
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	plaintext := reconstructBuckets(totals)
	assert.Equal(t, uint64(7), plaintext[2].Uint64()) // 4 + 3
	assert.Equal(t, uint64(1), plaintext[6].Uint64())
	for i, v := range plaintext {
		if i != 2 && i != 6 {
			assert.True(t, v.IsZero(), "bucket %d should be zero", i)
		}
	}
}

func TestAccumulateEmptyYieldsAllZero(t *testing.T) {
	ch := make(chan []share.Replicated[field.Fp31])
	close(ch)
	total := aggregate.Accumulate[field.Fp31](8, ch)
	require.Len(t, total, 8)
	for _, v := range total {
		assert.True(t, v.Left.IsZero())
		assert.True(t, v.Right.IsZero())
	}
}
