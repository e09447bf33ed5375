// Package credentials stores the bearer token the Gateway Client
// attaches to requests. Reads are synchronous so request assembly
// never blocks on I/O.
package credentials

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vibeflo/vibeflo-go/internal/localdb"
)

// TokenKey is the fixed key the token is persisted under.
const TokenKey = "auth_token"

// Store is the credential interface the Gateway Client depends on.
type Store interface {
	// Token returns the current bearer token, or "" when absent.
	Token() string
	// SetToken persists a new token.
	SetToken(token string)
	// Clear removes the token.
	Clear()
}

// Memory is an in-process Store, used in tests and for callers that
// manage persistence themselves.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory creates an in-memory credential store.
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Memory) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *Memory) Clear() {
	m.SetToken("")
}

// DB is a Store backed by the local database's kv table. The token is
// cached in memory for synchronous reads and written through on
// mutation.
type DB struct {
	kv *localdb.KV

	mu    sync.RWMutex
	token string
}

// NewDB creates a database-backed credential store, loading any
// persisted token.
func NewDB(ctx context.Context, kv *localdb.KV) (*DB, error) {
	token, err := kv.Get(ctx, TokenKey)
	if err != nil {
		return nil, err
	}
	return &DB{kv: kv, token: token}, nil
}

func (d *DB) Token() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.token
}

func (d *DB) SetToken(token string) {
	d.mu.Lock()
	d.token = token
	d.mu.Unlock()

	if err := d.kv.Set(context.Background(), TokenKey, token); err != nil {
		log.Warn().Err(err).Msg("Failed to persist token")
	}
}

func (d *DB) Clear() {
	d.mu.Lock()
	d.token = ""
	d.mu.Unlock()

	if err := d.kv.Delete(context.Background(), TokenKey); err != nil {
		log.Warn().Err(err).Msg("Failed to clear persisted token")
	}
}
