package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// StatsCache holds the last good aggregate snapshot as a single JSON
// row.
type StatsCache struct {
	store *Store
}

// NewStatsCache creates a new stats cache.
func NewStatsCache(store *Store) *StatsCache {
	return &StatsCache{store: store}
}

// Put replaces the cached aggregate.
func (c *StatsCache) Put(ctx context.Context, stats *models.Stats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	const query = `
		INSERT INTO cached_stats (id, payload, fetched_at_epoch)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload,
			fetched_at_epoch = excluded.fetched_at_epoch
	`
	_, err = c.store.ExecContext(ctx, query, string(payload), time.Now().UnixMilli())
	return err
}

// Get returns the cached aggregate and when it was fetched, or
// (nil, zero time, nil) when no snapshot exists.
func (c *StatsCache) Get(ctx context.Context) (*models.Stats, time.Time, error) {
	const query = `SELECT payload, fetched_at_epoch FROM cached_stats WHERE id = 1`

	var (
		payload string
		epoch   int64
	)
	err := c.store.QueryRowContext(ctx, query).Scan(&payload, &epoch)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query stats: %w", err)
	}

	var stats models.Stats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		return nil, time.Time{}, fmt.Errorf("unmarshal stats: %w", err)
	}
	stats.Normalize()

	return &stats, time.UnixMilli(epoch), nil
}
