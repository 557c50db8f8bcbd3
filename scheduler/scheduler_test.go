package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/private-attribution/ipa-helper/scheduler"
	"github.com/private-attribution/ipa-helper/step"
)

type row struct {
	user uint64
	val  int
}

func byUser(r row) uint64 { return r.user }

func rowsFor(user uint64, n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{user: user, val: i}
	}
	return rows
}

func TestChunkGroupsContiguousRunsAndDropsSingleRowUsers(t *testing.T) {
	var rows []row
	rows = append(rows, rowsFor(1, 3)...)
	rows = append(rows, rowsFor(2, 1)...) // dropped: only one row
	rows = append(rows, rowsFor(3, 7)...)

	chunks := scheduler.Chunk(rows, byUser)

	require.Len(t, chunks, 2)
	// Sorted length-descending: user 3 (7 rows) before user 1 (3 rows).
	assert.Len(t, chunks[0], 7)
	assert.Equal(t, uint64(3), chunks[0][0].user)
	assert.Len(t, chunks[1], 3)
	assert.Equal(t, uint64(1), chunks[1][0].user)
}

func TestChunkKeepsNonContiguousRunsOfTheSameKeySeparate(t *testing.T) {
	rows := []row{
		{user: 1, val: 0}, {user: 1, val: 1},
		{user: 2, val: 0}, {user: 2, val: 1},
		{user: 1, val: 2}, {user: 1, val: 3}, // a second, non-adjacent run of user 1
	}
	chunks := scheduler.Chunk(rows, byUser)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.Len(t, c, 2)
	}
}

func TestHistogramCountsUsersReachingEachDepth(t *testing.T) {
	var rows []row
	rows = append(rows, rowsFor(1, 3)...)
	rows = append(rows, rowsFor(2, 7)...)
	chunks := scheduler.Chunk(rows, byUser)

	hist := scheduler.Histogram(chunks)

	// User 1 (3 rows) reaches depths 1,2. User 2 (7 rows) reaches depths 1..6.
	require.Len(t, hist, 6)
	assert.Equal(t, []int{2, 2, 1, 1, 1, 1}, hist)
}

func TestAssignRecordIDsAreDenseAndDeterministicPerDepth(t *testing.T) {
	var rows []row
	rows = append(rows, rowsFor(1, 3)...)
	rows = append(rows, rowsFor(2, 7)...)
	chunks := scheduler.Chunk(rows, byUser)

	dispatches := scheduler.AssignRecordIDs(chunks)
	require.Len(t, dispatches, 2)

	// Longer user (7 rows) scheduled first, gets record id 0 at every depth
	// it reaches.
	long := dispatches[0]
	assert.Len(t, long.RecordIDs, 6)
	for _, id := range long.RecordIDs {
		assert.Equal(t, step.RecordID(0), id)
	}

	// Shorter user (3 rows) reaches depths 1,2 and gets record id 1 at each,
	// since the long user was assigned id 0 there first.
	short := dispatches[1]
	require.Len(t, short.RecordIDs, 2)
	assert.Equal(t, step.RecordID(1), short.RecordIDs[0])
	assert.Equal(t, step.RecordID(1), short.RecordIDs[1])
}

func TestDepthContextsSetTotalRecordsFromHistogram(t *testing.T) {
	root := step.Root(0, "sched-test", nil, nil)
	hist := []int{2, 2, 1, 1, 1, 1}

	ctxs := scheduler.DepthContexts(root, hist)

	require.Len(t, ctxs, 6)
	for i, ctx := range ctxs {
		assert.Equal(t, hist[i], ctx.TotalRecords())
		assert.Contains(t, ctx.Path(), string(step.Row(i+1)))
	}
}

func TestRunProcessesEveryDispatchAndPropagatesFirstError(t *testing.T) {
	var rows []row
	rows = append(rows, rowsFor(1, 2)...)
	rows = append(rows, rowsFor(2, 2)...)
	rows = append(rows, rowsFor(3, 2)...)
	chunks := scheduler.Chunk(rows, byUser)
	dispatches := scheduler.AssignRecordIDs(chunks)

	processed := make(chan uint64, len(dispatches))
	err := scheduler.Run(scheduler.Config{ActiveWork: 2}, dispatches, func(d scheduler.Dispatch[row]) error {
		processed <- d.Chunk[0].user
		return nil
	})
	require.NoError(t, err)
	close(processed)

	var got []uint64
	for u := range processed {
		got = append(got, u)
	}
	assert.Len(t, got, 3)
}

func TestRunStopsAtFirstErrorWithoutHidingIt(t *testing.T) {
	var rows []row
	rows = append(rows, rowsFor(1, 2)...)
	rows = append(rows, rowsFor(2, 2)...)
	chunks := scheduler.Chunk(rows, byUser)
	dispatches := scheduler.AssignRecordIDs(chunks)

	boom := assert.AnError
	err := scheduler.Run(scheduler.DefaultConfig(), dispatches, func(d scheduler.Dispatch[row]) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
