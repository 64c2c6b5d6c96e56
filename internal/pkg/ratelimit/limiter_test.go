package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.Equal(t, want, ok, "request %d", i)
	}

	ok, _ := l.Allow(ctx, "5.6.7.8")
	require.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	require.True(t, ok)
}

func TestWindowKey(t *testing.T) {
	at := time.Unix(120, 0)
	require.Equal(t, "ratelimit:ip:2", windowKey("ip", time.Minute, at))
	require.Equal(t, windowKey("ip", time.Minute, at), windowKey("ip", time.Minute, at.Add(59*time.Second)))
}
