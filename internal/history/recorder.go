// Package history persists completed hand results for later review.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cardroom/holdem/internal/game"
)

// Recorder receives each completed hand
type Recorder interface {
	Record(ctx context.Context, result *game.HandResult) error
}

// NopRecorder discards hand results. Used when history is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, *game.HandResult) error { return nil }

// Record is one persisted hand history entry
type Record struct {
	RecordedAt time.Time        `json:"recordedAt"`
	Result     *game.HandResult `json:"result"`
}

// RedisRecorder keeps a capped per-table list of hand results in
// Redis, newest first
type RedisRecorder struct {
	client  redis.UniversalClient
	keep    int64
	nowFunc func() time.Time
}

// NewRedisRecorder creates a recorder that retains the most recent
// keep hands per table
func NewRedisRecorder(client redis.UniversalClient, keep int) *RedisRecorder {
	if keep <= 0 {
		keep = 100
	}
	return &RedisRecorder{client: client, keep: int64(keep), nowFunc: time.Now}
}

func historyKey(tableID string) string {
	return "hand:history:" + tableID
}

func balancesKey(tableID string) string {
	return "player:balances:" + tableID
}

// Record pushes the result onto the table's history list and trims it
// to the retention limit
func (r *RedisRecorder) Record(ctx context.Context, result *game.HandResult) error {
	entry, err := json.Marshal(Record{RecordedAt: r.nowFunc().UTC(), Result: result})
	if err != nil {
		return fmt.Errorf("marshaling hand result: %w", err)
	}

	key := historyKey(result.TableID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, entry)
	pipe.LTrim(ctx, key, 0, r.keep-1)
	for _, p := range result.Players {
		pipe.HSet(ctx, balancesKey(result.TableID), p.ID, p.ChipsAfter)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording hand %d for table %s: %w", result.HandNumber, result.TableID, err)
	}
	return nil
}

// Balances returns the last recorded stack for every player at the
// table
func (r *RedisRecorder) Balances(ctx context.Context, tableID string) (map[string]int, error) {
	raw, err := r.client.HGetAll(ctx, balancesKey(tableID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading balances for table %s: %w", tableID, err)
	}
	balances := make(map[string]int, len(raw))
	for player, value := range raw {
		var chips int
		if _, err := fmt.Sscanf(value, "%d", &chips); err != nil {
			return nil, fmt.Errorf("decoding balance for %s: %w", player, err)
		}
		balances[player] = chips
	}
	return balances, nil
}

// Recent returns up to n of the table's most recent hands, newest first
func (r *RedisRecorder) Recent(ctx context.Context, tableID string, n int) ([]Record, error) {
	if n <= 0 {
		n = int(r.keep)
	}
	raw, err := r.client.LRange(ctx, historyKey(tableID), 0, int64(n)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading history for table %s: %w", tableID, err)
	}
	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decoding history entry: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
