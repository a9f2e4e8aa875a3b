package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBlacklistSweeperPurgesOnlyPastRetention(t *testing.T) {
	ctx := context.Background()
	blacklist := newFakeBlacklist()

	require.NoError(t, blacklist.Add(ctx, "stale-token", time.Now().Add(-time.Hour)))
	require.NoError(t, blacklist.Add(ctx, "fresh-token", time.Now().Add(time.Hour)))

	sweeper := NewBlacklistSweeper(blacklist, time.Hour, zap.NewNop().Sugar())

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		sweeper.Run(runCtx)
		close(done)
	}()

	// the sweeper runs once immediately on start
	assert.Eventually(t, func() bool {
		stale, _ := blacklist.IsBlacklisted(ctx, "stale-token")
		return !stale
	}, 2*time.Second, 10*time.Millisecond)

	fresh, err := blacklist.IsBlacklisted(ctx, "fresh-token")
	require.NoError(t, err)
	assert.True(t, fresh, "entry within retention must survive a sweep")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
