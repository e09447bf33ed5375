// Package models contains domain models for the VibeFlo client.
package models

import "time"

// PlaceholderID marks a locally-created session that has not been
// confirmed by the server. A session carrying this ID must never be
// treated as durable.
const PlaceholderID int64 = -1

// Session represents a single completed or in-progress focus interval.
type Session struct {
	ID        int64  `json:"id"`
	Duration  int    `json:"duration"` // minutes
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	// ClientID correlates a provisional local record with its
	// server-confirmed replacement. Never sent to the server.
	ClientID string `json:"-"`

	// Unsaved is set when the recording attempt for this session
	// failed. The record stays visible but cannot be trusted to have
	// persisted.
	Unsaved bool `json:"-"`
}

// Provisional reports whether the session is a local record awaiting
// server confirmation.
func (s *Session) Provisional() bool {
	return s.ID == PlaceholderID
}

// SessionInput is the payload for creating a session.
type SessionInput struct {
	Duration  int    `json:"duration"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// NewProvisionalSession builds a local session record from user input,
// stamped with the placeholder ID and the given correlation id.
func NewProvisionalSession(in SessionInput, clientID string, now time.Time) Session {
	return Session{
		ID:        PlaceholderID,
		Duration:  in.Duration,
		Task:      in.Task,
		Completed: in.Completed,
		CreatedAt: now.Format(time.RFC3339),
		ClientID:  clientID,
	}
}
