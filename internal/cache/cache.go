// Package cache is a small in-memory TTL cache for per-user analytics results.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/moneymate/moneymate-backend/internal/util"
)

// DefaultTTL is how long an entry stays valid when no TTL is configured
const DefaultTTL = 120 * time.Second

// Key identifies a cached result. It carries the owning user so that all of a
// user's entries can be dropped when their transactions change.
type Key struct {
	UserID uuid.UUID
	name   string
}

// NewKey builds a key from a namespace such as "analytics:report" and every
// parameter that affects the cached result.
func NewKey(namespace string, userID uuid.UUID, params ...string) Key {
	parts := append([]string{namespace, userID.String()}, params...)
	return Key{UserID: userID, name: strings.Join(parts, ":")}
}

func (k Key) String() string {
	return k.name
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache maps keys to values that expire after a fixed TTL. Expired entries are
// never returned; they are removed on read or by Sweep.
//
// Each user also has a generation that InvalidateUser bumps. A result computed
// from data read before an invalidation is stored with SetIfGeneration, which
// drops it once the generation has moved.
type Cache struct {
	entries     map[Key]entry
	generations map[uuid.UUID]uint64
	mu          sync.RWMutex
	ttl         time.Duration
	clock       util.Clock
}

// New creates a cache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration, clock util.Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &Cache{
		entries:     make(map[Key]entry),
		generations: make(map[uuid.UUID]uint64),
		ttl:         ttl,
		clock:       clock,
	}
}

// Get returns the value stored under key if it has not expired
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !c.clock.Now().Before(e.expiresAt) {
		c.mu.Lock()
		// re-check, a concurrent Set may have refreshed it
		if cur, ok := c.entries[key]; ok && !c.clock.Now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key for the cache TTL
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: c.clock.Now().Add(c.ttl)}
}

// Generation returns userID's current generation. Read it before fetching the
// data a cached value is built from.
func (c *Cache) Generation(userID uuid.UUID) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.generations[userID]
}

// SetIfGeneration stores value only if key's user is still at generation gen.
// It reports whether the value was stored.
func (c *Cache) SetIfGeneration(key Key, gen uint64, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[key.UserID] != gen {
		return false
	}
	c.entries[key] = entry{value: value, expiresAt: c.clock.Now().Add(c.ttl)}
	return true
}

// Invalidate removes a single key
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// InvalidateUser removes every entry owned by userID, advances the user's
// generation and returns how many entries were removed
func (c *Cache) InvalidateUser(userID uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generations[userID]++

	removed := 0
	for key := range c.entries {
		if key.UserID == userID {
			delete(c.entries, key)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Str("user_id", userID.String()).Int("removed", removed).Msg("Invalidated cached analytics")
	}
	return removed
}

// Sweep removes all expired entries and returns how many were removed
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, including expired ones not yet swept
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
