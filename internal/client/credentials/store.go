// Package credentials keeps the access/refresh token pair between runs.
//
// The Store is the only process-wide mutable auth state. Writes are
// last-writer-wins; implementations are safe for concurrent use. A store
// that cannot reach its backing storage reports tokens as absent rather
// than failing, so unauthenticated flows still work.
package credentials

import (
	"context"
	"sync"
)

// Kind selects one of the two stored tokens.
type Kind string

const (
	Access  Kind = "access_token"
	Refresh Kind = "refresh_token"
)

// Pair is the credential pair issued by the backend on login.
type Pair struct {
	Access  string
	Refresh string
}

type Store interface {
	// Get returns the token of the given kind; ok is false when it is absent
	// or the storage is unavailable.
	Get(ctx context.Context, kind Kind) (token string, ok bool)
	Set(ctx context.Context, kind Kind, token string) error
	// SetPair stores both tokens at once.
	SetPair(ctx context.Context, p Pair) error
	// Clear removes both tokens. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// MemoryStore keeps tokens in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[Kind]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[Kind]string, 2)}
}

func (m *MemoryStore) Get(_ context.Context, kind Kind) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tokens[kind]
	return t, ok && t != ""
}

func (m *MemoryStore) Set(_ context.Context, kind Kind, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[kind] = token
	return nil
}

func (m *MemoryStore) SetPair(_ context.Context, p Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[Access] = p.Access
	m.tokens[Refresh] = p.Refresh
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.tokens)
	return nil
}
