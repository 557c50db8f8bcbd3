package aggregate

import (
	"github.com/private-attribution/ipa-helper/attribution"
	"github.com/private-attribution/ipa-helper/gf2"
	"github.com/private-attribution/ipa-helper/protocol"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

// AggregateRow converts one attribution output row into a one-hot bucket
// vector of length 2^|BK| (§4.6). rid must be the same record id the
// attribution circuit used to produce row, reused here so modulus
// conversion and bucket routing get their own step paths.
func AggregateRow[BK, TV gf2.Width, F protocol.FieldValue[F]](ctx step.Context, rid step.RecordID, row attribution.Output[BK, TV]) ([]share.Replicated[F], error) {
	bkBits, err := ConvertBreakdownKeyBits[BK, F](ctx, rid, row.AttributedBK)
	if err != nil {
		return nil, err
	}
	tvField, err := ConvertTriggerValue[TV, F](ctx, rid, row.CappedTriggerValue)
	if err != nil {
		return nil, err
	}
	return RouteToBucket(ctx, rid, bkBits, tvField)
}

// Accumulate folds a stream of one-hot bucket vectors into a single running
// total by component-wise field addition — local, no communication (§4.6).
// An empty stream of the expected bucket count yields all-zero shares,
// matching §8's idempotence property for an empty input.
func Accumulate[F protocol.FieldValue[F]](numBuckets int, rows <-chan []share.Replicated[F]) []share.Replicated[F] {
	var zeroF F
	total := make([]share.Replicated[F], numBuckets)
	for i := range total {
		total[i] = share.Replicated[F]{Left: zeroF.Zero(), Right: zeroF.Zero()}
	}
	for vec := range rows {
		for i, v := range vec {
			total[i] = total[i].Add(v)
		}
	}
	return total
}
