package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// SessionCache persists the last-known session list so a fetch failure
// after a restart can still fall back to cached data.
type SessionCache struct {
	store *Store
}

// NewSessionCache creates a new session cache.
func NewSessionCache(store *Store) *SessionCache {
	return &SessionCache{store: store}
}

// Replace atomically swaps the cached list for the given sessions,
// preserving their order. Provisional records are skipped: only
// server-confirmed sessions are durable enough to cache.
func (c *SessionCache) Replace(ctx context.Context, sessions []models.Session) error {
	tx, err := c.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM cached_sessions`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	const insert = `
		INSERT INTO cached_sessions
		(id, duration, task, completed, created_at, start_time, end_time, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	pos := 0
	for _, sess := range sessions {
		if sess.Provisional() {
			continue
		}
		_, err := tx.ExecContext(ctx, insert,
			sess.ID, sess.Duration, sess.Task, boolToInt(sess.Completed),
			sess.CreatedAt, nullString(sess.StartTime), nullString(sess.EndTime), pos,
		)
		if err != nil {
			return fmt.Errorf("insert session %d: %w", sess.ID, err)
		}
		pos++
	}

	return tx.Commit()
}

// List returns the cached sessions in their stored order.
func (c *SessionCache) List(ctx context.Context) ([]models.Session, error) {
	const query = `
		SELECT id, duration, task, completed, created_at, start_time, end_time
		FROM cached_sessions
		ORDER BY position ASC
	`

	rows, err := c.store.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var (
			sess      models.Session
			completed int
			start     sql.NullString
			end       sql.NullString
		)
		if err := rows.Scan(&sess.ID, &sess.Duration, &sess.Task, &completed,
			&sess.CreatedAt, &start, &end); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.Completed = completed != 0
		sess.StartTime = start.String
		sess.EndTime = end.String
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
