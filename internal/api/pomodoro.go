package api

import (
	"context"
	"fmt"

	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// GetStats fetches the aggregate statistics for the current user.
// Transient failures are retried with backoff; the returned aggregate
// always has all three activity maps present.
func (c *Client) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	err := c.retry.Do(ctx, "get stats", func() error {
		stats = models.Stats{}
		return c.Get(ctx, "/pomodoro/stats", &stats)
	})
	if err != nil {
		return nil, err
	}

	stats.Normalize()
	return &stats, nil
}

// ListSessions fetches the user's session history, newest first.
// Transient failures are retried with backoff.
func (c *Client) ListSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	err := c.retry.Do(ctx, "list sessions", func() error {
		sessions = nil
		return c.Get(ctx, "/pomodoro/sessions", &sessions)
	})
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// CreateSession records a completed focus interval and returns the
// server-confirmed record.
func (c *Client) CreateSession(ctx context.Context, input models.SessionInput) (*models.Session, error) {
	var created models.Session
	if err := c.Post(ctx, "/pomodoro/sessions", input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSession modifies an existing session.
func (c *Client) UpdateSession(ctx context.Context, id int64, input models.SessionInput) (*models.Session, error) {
	var updated models.Session
	if err := c.Put(ctx, fmt.Sprintf("/pomodoro/sessions/%d", id), input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/pomodoro/sessions/%d", id))
}
