// Package scheduler implements the histogram-based row-depth dispatcher
// (§4.5): grouping a sorted row stream into per-user chunks, computing the
// per-depth user count, assigning deterministic record ids, and driving
// the resulting per-user work with bounded concurrency.
package scheduler

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/private-attribution/ipa-helper/step"
)

// Config tunes the dispatcher. ActiveWork bounds how many per-user circuits
// run concurrently (§4.5 step 6's active_work()); the original parameterizes
// this from the gateway configuration rather than hardcoding it, a behavior
// this module carries forward (SPEC_FULL.md "Supplemented features").
type Config struct {
	ActiveWork int
}

// DefaultActiveWork matches the original implementation's default
// concurrency bound.
const DefaultActiveWork = 2048

// DefaultConfig returns the scheduler configuration used when a caller
// doesn't need to tune concurrency.
func DefaultConfig() Config { return Config{ActiveWork: DefaultActiveWork} }

// Chunk groups a time-ordered, grouping-key-sorted row stream into
// per-user vectors (§4.5 step 2), dropping users with exactly one row —
// per §4.4's boundary behavior, such a user has no subsequent row and so
// emits no attribution output.
func Chunk[T any](rows []T, key func(T) uint64) [][]T {
	var chunks [][]T
	var current []T
	var currentKey uint64
	haveKey := false

	flush := func() {
		if len(current) > 1 {
			chunks = append(chunks, current)
		}
		current = nil
	}

	for _, r := range rows {
		k := key(r)
		if haveKey && k == currentKey {
			current = append(current, r)
			continue
		}
		flush()
		current = []T{r}
		currentKey = k
		haveKey = true
	}
	flush()

	// Sort by length descending (§4.5 step 3): longer users occupy more
	// depths, so scheduling them first maximizes overlap of later depths
	// with earlier users' final depths.
	sort.SliceStable(chunks, func(i, j int) bool { return len(chunks[i]) > len(chunks[j]) })
	return chunks
}

// Histogram computes, for each fold depth d ≥ 1, the number of users whose
// chunk has a row at that depth (§4.5 step 1, step 4: "exactly the number
// of users that have a row at depth d"). The returned slice is 0-indexed
// by depth-1: Histogram(chunks)[d-1] is the count for depth d. A user with
// n rows has rows at depths 1..n-1 (one subsequent-row fold per row after
// the first, which only initializes state).
func Histogram[T any](chunks [][]T) []int {
	maxDepth := 0
	for _, c := range chunks {
		if d := len(c) - 1; d > maxDepth {
			maxDepth = d
		}
	}
	hist := make([]int, maxDepth)
	for _, c := range chunks {
		for d := 1; d <= len(c)-1; d++ {
			hist[d-1]++
		}
	}
	return hist
}

// Dispatch pairs one user's chunk with the record id it was assigned at
// each depth it participates in: RecordIDs[d-1] is this user's record id
// for step.Row(d).
type Dispatch[T any] struct {
	Chunk     []T
	RecordIDs []step.RecordID
}

// AssignRecordIDs walks chunks in their given order — which must already be
// the length-descending order Chunk produces — handing out a monotonically
// increasing record id per depth to every user that has a row there (§4.5
// step 5: "Record-id assignment is deterministic and identical across all
// three helpers because chunk ordering is derived from the cleartext
// grouping key and the histogram"). The per-depth counter is owned entirely
// by this pass, incremented once per qualifying user before that user's
// own work is dispatched, so it is never concurrently mutated (§5).
func AssignRecordIDs[T any](chunks [][]T) []Dispatch[T] {
	maxDepth := 0
	for _, c := range chunks {
		if d := len(c) - 1; d > maxDepth {
			maxDepth = d
		}
	}
	counters := make([]uint64, maxDepth)

	out := make([]Dispatch[T], len(chunks))
	for i, c := range chunks {
		n := len(c) - 1
		ids := make([]step.RecordID, n)
		for d := 1; d <= n; d++ {
			ids[d-1] = step.RecordID(counters[d-1])
			counters[d-1]++
		}
		out[i] = Dispatch[T]{Chunk: c, RecordIDs: ids}
	}
	return out
}

// DepthContexts narrows root once per depth present in hist and sets each
// narrowed context's total record count (§4.5 step 4). The returned slice
// is 0-indexed by depth-1, matching Histogram's indexing.
func DepthContexts(root step.Context, hist []int) []step.Context {
	ctxs := make([]step.Context, len(hist))
	for i, count := range hist {
		ctx := root.Narrow(step.Row(i + 1))
		ctx.SetTotalRecords(count)
		ctxs[i] = ctx
	}
	return ctxs
}

// Run drives one per-user function per dispatch with bounded concurrency
// (§4.5 step 6), waiting for every dispatch it started to complete before
// returning. The first error encountered is returned; per §4.4's failure
// semantics ("any underlying multiplication failure aborts the whole
// query"), Run does not retry or continue past a failed user: once a
// dispatch has failed, no further dispatch is started.
func Run[T any](cfg Config, dispatches []Dispatch[T], process func(Dispatch[T]) error) error {
	bound := cfg.ActiveWork
	if bound <= 0 {
		bound = DefaultActiveWork
	}

	sem := make(chan struct{}, bound)
	errs := make(chan error, len(dispatches))
	var wg sync.WaitGroup
	var failed atomic.Bool

	for _, d := range dispatches {
		d := d
		sem <- struct{}{}
		if failed.Load() {
			<-sem
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := process(d); err != nil {
				failed.Store(true)
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
