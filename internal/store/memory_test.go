package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pegsolitaire/internal/board"
	"github.com/robalobadob/pegsolitaire/internal/game"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestGetOrCreateReturnsSameEngine(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	a, err := m.GetOrCreate(ctx, "default")
	require.NoError(t, err)
	b, err := m.GetOrCreate(ctx, "default")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, m.Len())
}

func TestGetOrCreateRejectsEmptyID(t *testing.T) {
	_, err := NewMemoryStore().GetOrCreate(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	a, _ := m.GetOrCreate(ctx, "a")
	b, _ := m.GetOrCreate(ctx, "b")

	a.Click(3)
	s, out := a.Click(0)
	require.Equal(t, game.OutcomeJumped, out)
	assert.Equal(t, 13, s.PegCount)

	other := b.Snapshot()
	assert.Equal(t, 14, other.PegCount)
	assert.False(t, other.HasSelection())
	assert.False(t, other.Pegs[0].HasPeg)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	a, _ := m.GetOrCreate(ctx, "a")
	a.Click(3)
	a.Click(0)

	require.NoError(t, m.Delete(ctx, "a"))
	require.NoError(t, m.Delete(ctx, "missing"))
	assert.Zero(t, m.Len())

	fresh, _ := m.GetOrCreate(ctx, "a")
	assert.NotSame(t, a, fresh)
	assert.Equal(t, 14, fresh.Snapshot().PegCount)
}

func TestZeroPolicyNeverEvicts(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(0, 0)}
	m := NewMemoryStore(WithClock(clock.Now))
	assert.False(t, m.Policy().Evicts())

	for i := 0; i < 500; i++ {
		_, err := m.GetOrCreate(ctx, fmt.Sprintf("g%d", i))
		require.NoError(t, err)
	}
	clock.Advance(24 * time.Hour)
	assert.Zero(t, m.Sweep(clock.Now()))
	assert.Equal(t, 500, m.Len())
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	var evicted []string
	m := NewMemoryStore(
		WithPolicy(Policy{MaxSessions: 2}),
		WithEvictHook(func(id string, reason EvictReason) {
			assert.Equal(t, EvictCapacity, reason)
			evicted = append(evicted, id)
		}),
	)

	a, _ := m.GetOrCreate(ctx, "a")
	_, _ = m.GetOrCreate(ctx, "b")
	again, _ := m.GetOrCreate(ctx, "a") // a is now more recent than b
	assert.Same(t, a, again)

	_, _ = m.GetOrCreate(ctx, "c")
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, 2, m.Len())

	kept, _ := m.GetOrCreate(ctx, "a")
	assert.Same(t, a, kept)
}

func TestSweepDropsIdleSessions(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	reasons := map[string]EvictReason{}
	m := NewMemoryStore(
		WithPolicy(Policy{IdleTTL: time.Minute}),
		WithClock(clock.Now),
		WithEvictHook(func(id string, reason EvictReason) { reasons[id] = reason }),
	)

	_, _ = m.GetOrCreate(ctx, "old")
	clock.Advance(45 * time.Second)
	_, _ = m.GetOrCreate(ctx, "new")
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, m.Sweep(clock.Now()))
	assert.Equal(t, map[string]EvictReason{"old": EvictIdle}, reasons)
	assert.Equal(t, 1, m.Len())
}

func TestConcurrentGetOrCreateSharesOneEngine(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	const n = 32
	engines := make([]*game.Engine, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := m.GetOrCreate(ctx, "shared")
			if err == nil {
				engines[i] = e
				e.Click(board.Position(i % board.Size))
			}
		}(i)
	}
	wg.Wait()

	for _, e := range engines {
		assert.Same(t, engines[0], e)
	}
	s := engines[0].Snapshot()
	assert.Equal(t, 14-s.Jumps, s.PegCount)
	assert.Equal(t, 1, m.Len())
}
