package service

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/moneymate/moneymate-backend/internal/cache"
)

// DefaultSweepSchedule runs the sweep once a minute
const DefaultSweepSchedule = "@every 1m"

// CacheJanitor periodically removes expired entries from the result cache.
// Reads already skip expired entries; the sweep only bounds memory.
type CacheJanitor struct {
	cache    *cache.Cache
	logger   zerolog.Logger
	schedule string
	cron     *cron.Cron
	stopCh   chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewCacheJanitor creates a janitor for c. An empty schedule uses DefaultSweepSchedule.
func NewCacheJanitor(c *cache.Cache, logger zerolog.Logger, schedule string) *CacheJanitor {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &CacheJanitor{
		cache:    c,
		logger:   logger.With().Str("component", "cache_janitor").Logger(),
		schedule: schedule,
	}
}

// Start schedules the sweep. The janitor stops on its own when ctx is done.
func (j *CacheJanitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(j.schedule, j.Sweep); err != nil {
		return err
	}
	c.Start()

	j.cron = c
	j.stopCh = make(chan struct{})
	j.running = true
	j.logger.Info().Str("schedule", j.schedule).Msg("Starting cache janitor")

	go func(stopCh chan struct{}) {
		select {
		case <-ctx.Done():
			j.Stop()
		case <-stopCh:
		}
	}(j.stopCh)
	return nil
}

// Stop cancels the schedule and waits for a running sweep to finish
func (j *CacheJanitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	c := j.cron
	close(j.stopCh)
	j.mu.Unlock()

	j.logger.Info().Msg("Stopping cache janitor")
	<-c.Stop().Done()
	j.logger.Info().Msg("Cache janitor stopped")
}

// Sweep removes expired entries now
func (j *CacheJanitor) Sweep() {
	start := time.Now()
	removed := j.cache.Sweep()
	j.logger.Debug().
		Int("removed", removed).
		Int("remaining", j.cache.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Swept expired cache entries")
}

// IsRunning returns whether the sweep is scheduled
func (j *CacheJanitor) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}
