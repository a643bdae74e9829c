package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pegsolitaire/internal/store"
)

func TestSweepIdleStopsWithContext(t *testing.T) {
	m := store.NewMemoryStore(store.WithPolicy(store.Policy{IdleTTL: time.Nanosecond}))
	_, err := m.GetOrCreate(context.Background(), "idle")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweepIdle(ctx, m, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweepIdle did not return after cancel")
	}
}
