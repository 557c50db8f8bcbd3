// Package query wires the core's layers — config validation, scheduling,
// per-user attribution, and bucket aggregation — into one end-to-end run
// per helper (§4's overall pipeline, §6's external driver boundary).
//
// BK, TV, TS, SS, F are fixed at compile time because Go generics are
// monomorphized, not dynamically dispatched (§9: "enumerate the supported
// tuples explicitly"): a caller whose configuration selects, say,
// BreakdownKeyBits=8 and PerUserCreditCap=32 instantiates Run with
// [gf2.W8, gf2.W3, gf2.W20, gf2.W5, field.Fp32] — picking the right
// instantiation for a runtime config value is the caller's job, typically
// a small switch over config.QueryConfig at the process entry point.
package query

import (
	"github.com/private-attribution/ipa-helper/aggregate"
	"github.com/private-attribution/ipa-helper/attribution"
	"github.com/private-attribution/ipa-helper/config"
	"github.com/private-attribution/ipa-helper/gf2"
	"github.com/private-attribution/ipa-helper/internal/mpclog"
	"github.com/private-attribution/ipa-helper/protocol"
	"github.com/private-attribution/ipa-helper/scheduler"
	"github.com/private-attribution/ipa-helper/share"
	"github.com/private-attribution/ipa-helper/step"
)

// Row is one helper's view of a single input row: the cleartext grouping
// key (the revealed PRF of the match key, §3's "rows sharing a
// prf_of_match_key are contiguous and ordered oldest-first") plus that
// helper's secret shares of the row's attribution-relevant fields.
type Row[BK, TV, TS gf2.Width] struct {
	MatchKey uint64
	Shares   attribution.Row[BK, TV, TS]
}

// Run executes one complete query: schedule rows into per-user chunks,
// fold each user's per-user attribution state across its subsequent rows,
// route and accumulate the resulting capped trigger values into a
// breakdown-key histogram (§4.4, §4.5, §4.6 in sequence). The returned
// slice has 2^|BK| entries, one replicated share per bucket.
func Run[BK, TV, TS, SS gf2.Width, F protocol.FieldValue[F]](
	ctx step.Context,
	cfg config.QueryConfig,
	log *mpclog.Logger,
	sched scheduler.Config,
	rows []Row[BK, TV, TS],
) ([]share.Replicated[F], error) {
	if err := cfg.Validate(); err != nil {
		log.Error("query rejected", "err", err)
		return nil, err
	}
	log.Info("query accepted", "rows", len(rows))

	chunks := scheduler.Chunk(rows, func(r Row[BK, TV, TS]) uint64 { return r.MatchKey })
	log.Info("scheduled users", "users", len(chunks))

	hist := scheduler.Histogram(chunks)
	depthCtxs := scheduler.DepthContexts(ctx, hist)
	dispatches := scheduler.AssignRecordIDs(chunks)

	var window *uint32
	if cfg.AttributionWindowSeconds != nil {
		window = cfg.AttributionWindowSeconds
	}

	var bk BK
	numBuckets := 1 << uint(bk.Bits())
	numOutputs := 0
	for _, d := range dispatches {
		numOutputs += len(d.Chunk) - 1
	}
	bucketCh := make(chan []share.Replicated[F], numOutputs)

	err := scheduler.Run(sched, dispatches, func(d scheduler.Dispatch[Row[BK, TV, TS]]) error {
		state := attribution.Init[BK, TV, TS, SS](ctx.Role(), d.Chunk[0].Shares)
		for i := 1; i < len(d.Chunk); i++ {
			depth := i
			dctx := depthCtxs[depth-1]
			rid := d.RecordIDs[depth-1]

			var out attribution.Output[BK, TV]
			var err error
			state, out, err = attribution.Fold[BK, TV, TS, SS](dctx, rid, state, d.Chunk[i].Shares, window)
			if err != nil {
				log.Error("attribution fold failed", "depth", depth, "err", err)
				return err
			}

			// Reusing rid here is deliberate: AggregateRow narrows its own
			// step labels (distinct from Fold's), and this fold output has
			// exactly the same per-depth cardinality as the fold step that
			// produced it, so dctx/rid already identifies it uniquely.
			vec, err := aggregate.AggregateRow[BK, TV, F](dctx, rid, out)
			if err != nil {
				log.Error("bucket aggregation failed", "depth", depth, "err", err)
				return err
			}
			bucketCh <- vec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	close(bucketCh)

	total := aggregate.Accumulate[F](numBuckets, bucketCh)
	log.Info("query completed", "buckets", numBuckets)
	return total, nil
}
