package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymate/moneymate-backend/internal/cache"
	"github.com/moneymate/moneymate-backend/internal/testutil"
)

func TestCacheJanitor_Sweep(t *testing.T) {
	clock := testutil.NewFakeClock(april15)
	c := cache.New(time.Minute, clock)
	c.Set(cache.NewKey("analytics:report", uuid.New()), 1)
	clock.Advance(2 * time.Minute)
	c.Set(cache.NewKey("analytics:report", uuid.New()), 2)

	janitor := NewCacheJanitor(c, zerolog.Nop(), "")
	janitor.Sweep()

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, DefaultSweepSchedule, janitor.schedule)
}

func TestCacheJanitor_StartStop(t *testing.T) {
	janitor := NewCacheJanitor(cache.New(time.Minute, nil), zerolog.Nop(), "@every 1h")

	require.NoError(t, janitor.Start(context.Background()))
	require.NoError(t, janitor.Start(context.Background()))
	assert.True(t, janitor.IsRunning())

	janitor.Stop()
	assert.False(t, janitor.IsRunning())

	// Stopping twice is a no-op
	janitor.Stop()
}

func TestCacheJanitor_StopsWithContext(t *testing.T) {
	janitor := NewCacheJanitor(cache.New(time.Minute, nil), zerolog.Nop(), "@every 1h")
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, janitor.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !janitor.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestCacheJanitor_InvalidSchedule(t *testing.T) {
	janitor := NewCacheJanitor(cache.New(time.Minute, nil), zerolog.Nop(), "not a schedule")

	err := janitor.Start(context.Background())

	assert.Error(t, err)
	assert.False(t, janitor.IsRunning())
}
