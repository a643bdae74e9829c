// internal/store/memory.go
//
// In-memory session store mapping a game identifier to its engine.
//
// Characteristics:
//   - Engines are created on first reference and live for the process
//     lifetime unless an eviction Policy says otherwise.
//   - The map is guarded by a mutex that is never held while an engine runs;
//     each engine serializes its own mutations.
//   - Nothing survives a restart.
//
// With the zero Policy nothing is ever evicted, so memory grows with the
// number of distinct identifiers seen. Set MaxSessions and/or IdleTTL to
// bound it.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/pegsolitaire/internal/game"
)

// ErrInvalidID is returned for an empty game identifier.
var ErrInvalidID = errors.New("invalid game id")

// Store resolves game identifiers to engines.
type Store interface {
	// GetOrCreate returns the engine for id, creating a fresh game if absent.
	GetOrCreate(ctx context.Context, id string) (*game.Engine, error)

	// Delete forgets id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live sessions.
	Len() int
}

// Policy bounds how many sessions are kept. Zero fields disable the bound.
type Policy struct {
	MaxSessions int           // evict least recently used beyond this many
	IdleTTL     time.Duration // Sweep drops sessions idle longer than this
}

// Evicts reports whether the policy ever drops sessions.
func (p Policy) Evicts() bool { return p.MaxSessions > 0 || p.IdleTTL > 0 }

// EvictReason says why a session was dropped.
type EvictReason string

const (
	EvictCapacity EvictReason = "capacity"
	EvictIdle     EvictReason = "idle"
)

// Option configures a Memory store.
type Option func(*Memory)

// WithPolicy sets the eviction policy.
func WithPolicy(p Policy) Option { return func(m *Memory) { m.policy = p } }

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(m *Memory) { m.now = now } }

// WithEvictHook registers fn to be called (outside the store lock) for every
// evicted session.
func WithEvictHook(fn func(id string, reason EvictReason)) Option {
	return func(m *Memory) { m.onEvict = fn }
}

type entry struct {
	engine   *game.Engine
	lastSeen time.Time
	touched  uint64 // value of Memory.clock at last access
}

// Memory is a map-backed Store.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]*entry
	clock    uint64
	policy   Policy
	now      func() time.Time
	onEvict  func(id string, reason EvictReason)
}

var _ Store = (*Memory)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *Memory {
	m := &Memory{sessions: make(map[string]*entry), now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Policy returns the configured eviction policy.
func (m *Memory) Policy() Policy { return m.policy }

// GetOrCreate implements Store.
func (m *Memory) GetOrCreate(ctx context.Context, id string) (*game.Engine, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	m.mu.Lock()
	now := m.now()
	m.clock++
	if e, ok := m.sessions[id]; ok {
		e.lastSeen, e.touched = now, m.clock
		m.mu.Unlock()
		return e.engine, nil
	}

	var evicted []string
	if limit := m.policy.MaxSessions; limit > 0 {
		for len(m.sessions) >= limit {
			victim := m.oldestLocked()
			delete(m.sessions, victim)
			evicted = append(evicted, victim)
		}
	}
	e := &entry{engine: game.New(), lastSeen: now, touched: m.clock}
	m.sessions[id] = e
	m.mu.Unlock()

	m.notify(evicted, EvictCapacity)
	return e.engine, nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len implements Store.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the policy's IdleTTL and returns
// how many it removed. It is a no-op when IdleTTL is zero.
func (m *Memory) Sweep(now time.Time) int {
	ttl := m.policy.IdleTTL
	if ttl <= 0 {
		return 0
	}

	var evicted []string
	m.mu.Lock()
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > ttl {
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	m.mu.Unlock()

	m.notify(evicted, EvictIdle)
	return len(evicted)
}

// oldestLocked returns the least recently used id. m.mu must be held and the
// map must be non-empty.
func (m *Memory) oldestLocked() string {
	var (
		victim string
		oldest uint64
		first  = true
	)
	for id, e := range m.sessions {
		if first || e.touched < oldest {
			victim, oldest, first = id, e.touched, false
		}
	}
	return victim
}

func (m *Memory) notify(ids []string, reason EvictReason) {
	if m.onEvict == nil {
		return
	}
	for _, id := range ids {
		m.onEvict(id, reason)
	}
}
