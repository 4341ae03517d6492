package application

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// StatsCache caches dashboard statistics per admin user. The cache is an
// explicit store with a defined key and explicit invalidation on sign-out,
// rather than state that lives for as long as the process happens to.
type StatsCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uuid.UUID]statsEntry
	now     func() time.Time
}

type statsEntry struct {
	stats     *BookingStatsDTO
	expiresAt time.Time
}

// NewStatsCache creates a StatsCache with the given entry TTL.
func NewStatsCache(ttl time.Duration) *StatsCache {
	return &StatsCache{
		ttl:     ttl,
		entries: make(map[uuid.UUID]statsEntry),
		now:     time.Now,
	}
}

// Get returns the cached stats for the admin, if present and not expired.
func (c *StatsCache) Get(adminID uuid.UUID) (*BookingStatsDTO, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[adminID]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, adminID)
		return nil, false
	}
	return entry.stats, true
}

// Put stores the stats for the admin.
func (c *StatsCache) Put(adminID uuid.UUID, stats *BookingStatsDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[adminID] = statsEntry{
		stats:     stats,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops the cached stats for the admin. Called on sign-out.
func (c *StatsCache) Invalidate(adminID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, adminID)
}
