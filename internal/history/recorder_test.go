package history

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/holdem/internal/game"
)

func newTestRecorder(t *testing.T, keep int) *RedisRecorder {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rec := NewRedisRecorder(client, keep)
	rec.nowFunc = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return rec
}

func sampleResult(table string, hand int) *game.HandResult {
	return &game.HandResult{
		TableID:    table,
		HandNumber: hand,
		WinnerIDs:  []string{"p1"},
		Pots:       []game.PotResult{{Amount: 100, WinnerIDs: []string{"p1"}}},
	}
}

func TestRecordAndRecent(t *testing.T) {
	rec := newTestRecorder(t, 10)
	ctx := context.Background()

	require.NoError(t, rec.Record(ctx, sampleResult("tbl-1", 1)))
	require.NoError(t, rec.Record(ctx, sampleResult("tbl-1", 2)))

	records, err := rec.Recent(ctx, "tbl-1", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, 2, records[0].Result.HandNumber)
	assert.Equal(t, 1, records[1].Result.HandNumber)
	assert.False(t, records[0].RecordedAt.IsZero())
}

func TestRecordTrimsToRetentionLimit(t *testing.T) {
	rec := newTestRecorder(t, 3)
	ctx := context.Background()

	for hand := 1; hand <= 5; hand++ {
		require.NoError(t, rec.Record(ctx, sampleResult("tbl-1", hand)))
	}

	records, err := rec.Recent(ctx, "tbl-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 5, records[0].Result.HandNumber)
	assert.Equal(t, 3, records[2].Result.HandNumber)
}

func TestRecentIsolatedPerTable(t *testing.T) {
	rec := newTestRecorder(t, 10)
	ctx := context.Background()

	require.NoError(t, rec.Record(ctx, sampleResult("tbl-1", 1)))
	require.NoError(t, rec.Record(ctx, sampleResult("tbl-2", 7)))

	records, err := rec.Recent(ctx, "tbl-2", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].Result.HandNumber)
}

func TestRecordUpdatesBalances(t *testing.T) {
	rec := newTestRecorder(t, 10)
	ctx := context.Background()

	res := sampleResult("tbl-1", 1)
	res.Players = []game.PlayerResult{
		{ID: "p1", ChipsAfter: 1100},
		{ID: "p2", ChipsAfter: 900},
	}
	require.NoError(t, rec.Record(ctx, res))

	balances, err := rec.Balances(ctx, "tbl-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 1100, "p2": 900}, balances)
}

func TestNopRecorder(t *testing.T) {
	assert.NoError(t, NopRecorder{}.Record(context.Background(), sampleResult("tbl-1", 1)))
}
