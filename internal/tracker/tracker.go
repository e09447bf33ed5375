// Package tracker maintains a consistent, continuously-renderable view
// of a user's session history and aggregate statistics. It degrades
// gracefully when either backing resource is temporarily unavailable
// and supports optimistic session creation with correlation-id
// reconciliation.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vibeflo/vibeflo-go/internal/api"
	"github.com/vibeflo/vibeflo-go/internal/credentials"
	"github.com/vibeflo/vibeflo-go/internal/localdb"
	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// DefaultMinRefreshInterval throttles non-forced refreshes.
const DefaultMinRefreshInterval = 5 * time.Second

// Fixed messages for operations attempted without a session.
const (
	MsgLoginToViewStats   = "Please log in to view your stats."
	MsgLoginToSaveSession = "Please log in to save your sessions."
)

// Gateway is the slice of the API client the tracker depends on.
type Gateway interface {
	GetStats(ctx context.Context) (*models.Stats, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
	CreateSession(ctx context.Context, input models.SessionInput) (*models.Session, error)
}

// Config holds tracker construction parameters.
type Config struct {
	Gateway     Gateway
	Credentials credentials.Store

	// SessionCache and StatsCache, when set, persist the last good
	// values so stale-if-error survives restarts. Optional.
	SessionCache *localdb.SessionCache
	StatsCache   *localdb.StatsCache

	// MinRefreshInterval throttles non-forced refreshes. Defaults to
	// DefaultMinRefreshInterval.
	MinRefreshInterval time.Duration

	// Now is the clock, injectable for tests.
	Now func() time.Time

	Logger *zerolog.Logger
}

// State is a point-in-time snapshot of the tracker for rendering.
// Stats and Sessions are copies; mutating them does not affect the
// tracker.
type State struct {
	Stats    *models.Stats
	Sessions []models.Session
	Loading  bool
	Err      string
}

// Tracker is the stats reconciliation state holder. All mutation
// happens under a single mutex; the two backing fetches of a refresh
// run concurrently and apply their results independently.
type Tracker struct {
	gateway      Gateway
	creds        credentials.Store
	sessionCache *localdb.SessionCache
	statsCache   *localdb.StatsCache
	minInterval  time.Duration
	now          func() time.Time
	log          zerolog.Logger

	mu          sync.Mutex
	stats       *models.Stats
	sessions    []models.Session
	errMsg      string
	inFlight    int
	lastRefresh time.Time
	closed      bool

	subs    map[int]chan struct{}
	nextSub int
}

// New creates a Tracker.
func New(cfg Config) *Tracker {
	minInterval := cfg.MinRefreshInterval
	if minInterval <= 0 {
		minInterval = DefaultMinRefreshInterval
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	creds := cfg.Credentials
	if creds == nil {
		creds = credentials.NewMemory("")
	}

	return &Tracker{
		gateway:      cfg.Gateway,
		creds:        creds,
		sessionCache: cfg.SessionCache,
		statsCache:   cfg.StatsCache,
		minInterval:  minInterval,
		now:          now,
		log:          logger,
		subs:         make(map[int]chan struct{}),
	}
}

// Snapshot returns the current state for rendering.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	sessions := make([]models.Session, len(t.sessions))
	copy(sessions, t.sessions)

	return State{
		Stats:    t.stats.Clone(),
		Sessions: sessions,
		Loading:  t.inFlight > 0,
		Err:      t.errMsg,
	}
}

// Subscribe registers for change notification. Each state change sends
// a non-blocking signal on the returned channel. The second return
// value unregisters.
func (t *Tracker) Subscribe() (<-chan struct{}, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	ch := make(chan struct{}, 1)
	t.subs[id] = ch

	return ch, func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// notifyLocked signals all subscribers. Callers hold t.mu.
func (t *Tracker) notifyLocked() {
	for _, ch := range t.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close stops the tracker. Late fetch results are discarded.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

// AuthChanged informs the tracker of an authentication flip. Turning
// unauthenticated clears all cached data immediately so nothing stale
// is displayed after logout.
func (t *Tracker) AuthChanged(authenticated bool) {
	if authenticated {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = nil
	t.sessions = nil
	t.errMsg = MsgLoginToViewStats
	t.notifyLocked()
}

func (t *Tracker) authenticated() bool {
	return t.creds.Token() != ""
}

// Refresh reloads stats and session history. It is always forced:
// throttling never applies to the public path.
func (t *Tracker) Refresh(ctx context.Context) {
	t.refresh(ctx, true)
}

// RefreshIfStale reloads only when no refresh is running and the last
// one finished more than the minimum interval ago. Suited to periodic
// background polling.
func (t *Tracker) RefreshIfStale(ctx context.Context) {
	t.refresh(ctx, false)
}

// refresh fetches the two backing resources concurrently. Failure of
// one never prevents the other from being applied; each result lands
// in state as soon as its fetch settles.
func (t *Tracker) refresh(ctx context.Context, forced bool) {
	t.mu.Lock()
	if !t.authenticated() {
		t.errMsg = MsgLoginToViewStats
		t.stats = nil
		t.sessions = nil
		t.notifyLocked()
		t.mu.Unlock()
		return
	}
	// Both throttles apply only to non-forced refreshes: a forced
	// refresh runs even while another is in flight. Overlap is safe
	// because each fetch result is applied under the mutex as it
	// settles.
	if !forced {
		if t.inFlight > 0 {
			t.log.Debug().Msg("Refresh already in progress; dropping request")
			t.mu.Unlock()
			return
		}
		if elapsed := t.now().Sub(t.lastRefresh); elapsed < t.minInterval {
			t.log.Debug().
				Dur("elapsed", elapsed).
				Dur("minInterval", t.minInterval).
				Msg("Refreshed too recently; dropping request")
			t.mu.Unlock()
			return
		}
	}
	t.inFlight++
	t.lastRefresh = t.now()
	t.notifyLocked()
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.inFlight--
		t.notifyLocked()
		t.mu.Unlock()
	}()

	var (
		statsErr    error
		sessionsErr error
	)

	// Independent error slots: the group never cancels, it only waits.
	var g errgroup.Group
	g.Go(func() error {
		stats, err := t.gateway.GetStats(ctx)
		if err != nil {
			statsErr = err
			t.fallBackStats(ctx)
			return nil
		}
		t.applyStats(ctx, stats)
		return nil
	})
	g.Go(func() error {
		sessions, err := t.gateway.ListSessions(ctx)
		if err != nil {
			sessionsErr = err
			t.fallBackSessions(ctx)
			return nil
		}
		t.applySessions(ctx, sessions)
		return nil
	})
	_ = g.Wait()

	t.mu.Lock()
	t.errMsg = t.composeError(statsErr, sessionsErr)
	t.mu.Unlock()
}

// applyStats installs a fresh aggregate and persists it to the local
// cache.
func (t *Tracker) applyStats(ctx context.Context, stats *models.Stats) {
	stats.Normalize()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.stats = stats
	t.notifyLocked()
	t.mu.Unlock()

	if t.statsCache != nil {
		if err := t.statsCache.Put(ctx, stats); err != nil {
			t.log.Warn().Err(err).Msg("Failed to cache stats")
		}
	}
}

// applySessions installs a fresh session list, carrying forward any
// provisional records still awaiting confirmation, and persists the
// confirmed records.
func (t *Tracker) applySessions(ctx context.Context, sessions []models.Session) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	var provisional []models.Session
	for _, sess := range t.sessions {
		if sess.Provisional() {
			provisional = append(provisional, sess)
		}
	}
	t.sessions = append(provisional, sessions...)
	t.notifyLocked()
	t.mu.Unlock()

	if t.sessionCache != nil {
		if err := t.sessionCache.Replace(ctx, sessions); err != nil {
			t.log.Warn().Err(err).Msg("Failed to cache sessions")
		}
	}
}

// fallBackStats keeps the in-memory aggregate on failure, loading the
// persisted snapshot when memory holds nothing.
func (t *Tracker) fallBackStats(ctx context.Context) {
	t.mu.Lock()
	hasValue := t.stats != nil
	t.mu.Unlock()
	if hasValue || t.statsCache == nil {
		return
	}

	cached, _, err := t.statsCache.Get(ctx)
	if err != nil || cached == nil {
		return
	}

	t.mu.Lock()
	if !t.closed && t.stats == nil {
		t.stats = cached
		t.notifyLocked()
	}
	t.mu.Unlock()
}

// fallBackSessions mirrors fallBackStats for the session list.
func (t *Tracker) fallBackSessions(ctx context.Context) {
	t.mu.Lock()
	hasValue := t.sessions != nil
	t.mu.Unlock()
	if hasValue || t.sessionCache == nil {
		return
	}

	cached, err := t.sessionCache.List(ctx)
	if err != nil || len(cached) == 0 {
		return
	}

	t.mu.Lock()
	if !t.closed && t.sessions == nil {
		t.sessions = cached
		t.notifyLocked()
	}
	t.mu.Unlock()
}

// composeError builds the user-facing error for a refresh outcome. A
// 401 from either fetch is suppressed: the gateway already cleared
// credentials and notified the host, so repeating it here would just
// double the noise.
func (t *Tracker) composeError(statsErr, sessionsErr error) string {
	if api.IsUnauthorized(statsErr) {
		t.log.Debug().Err(statsErr).Msg("Stats fetch unauthorized; suppressing from error state")
		statsErr = nil
	}
	if api.IsUnauthorized(sessionsErr) {
		t.log.Debug().Err(sessionsErr).Msg("Sessions fetch unauthorized; suppressing from error state")
		sessionsErr = nil
	}

	statsMsg := ""
	if statsErr != nil {
		statsMsg = fmt.Sprintf("statistics may be incomplete: %v", statsErr)
	}
	sessionsMsg := ""
	if sessionsErr != nil {
		sessionsMsg = fmt.Sprintf("session history may be incomplete: %v", sessionsErr)
	}

	switch {
	case statsMsg != "" && sessionsMsg != "":
		return "Your " + statsMsg + " and " + sessionsMsg
	case statsMsg != "":
		return "Your " + statsMsg
	case sessionsMsg != "":
		return "Your " + sessionsMsg
	default:
		return ""
	}
}
