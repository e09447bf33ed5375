package tracker

import (
	"context"

	"github.com/google/uuid"

	"github.com/vibeflo/vibeflo-go/internal/api"
	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// AddSession records a focus session optimistically: the provisional
// record is visible (and the aggregate bumped) before the network call
// is issued. On confirmation the provisional record is replaced by the
// server record matched by correlation id; on failure it is flagged
// unsaved but never removed.
func (t *Tracker) AddSession(ctx context.Context, input models.SessionInput) {
	t.mu.Lock()
	if !t.authenticated() {
		t.errMsg = MsgLoginToSaveSession
		t.notifyLocked()
		t.mu.Unlock()
		return
	}

	// Phase 1: provisional insert, newest first, plus the optimistic
	// aggregate bump. Both are applied synchronously so a render
	// between here and the network call always shows them.
	clientID := uuid.NewString()
	provisional := models.NewProvisionalSession(input, clientID, t.now())
	t.sessions = append([]models.Session{provisional}, t.sessions...)

	if t.stats != nil {
		t.stats.TotalSessions++
		if input.Completed {
			t.stats.CompletedSessions++
		}
		t.stats.TotalFocusTime += input.Duration
	}
	t.errMsg = ""
	t.notifyLocked()
	t.mu.Unlock()

	created, err := t.gateway.CreateSession(ctx, input)
	if err != nil {
		t.recordFailed(clientID, err)
		return
	}

	// Phase 2: swap the provisional record for the server-confirmed
	// one, then reconcile aggregates with a forced refresh.
	t.confirm(clientID, created)
	t.refresh(ctx, true)
}

// confirm replaces the provisional record matching clientID with the
// server record.
func (t *Tracker) confirm(clientID string, created *models.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	for i := range t.sessions {
		if t.sessions[i].ClientID == clientID {
			confirmed := *created
			confirmed.ClientID = clientID
			t.sessions[i] = confirmed
			break
		}
	}
	t.notifyLocked()
}

// recordFailed marks the provisional record unsaved and surfaces the
// failure. The record stays in the list: the user's work remains
// visible even though it may not have persisted. A 401 is logged but
// not surfaced; the gateway has already handled it.
func (t *Tracker) recordFailed(clientID string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	for i := range t.sessions {
		if t.sessions[i].ClientID == clientID {
			t.sessions[i].Unsaved = true
			break
		}
	}

	if api.IsUnauthorized(err) {
		t.log.Debug().Err(err).Msg("Session create unauthorized; suppressing from error state")
	} else {
		t.errMsg = "Failed to save your session: " + err.Error()
	}
	t.notifyLocked()
}
