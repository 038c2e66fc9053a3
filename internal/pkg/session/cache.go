// Package session implements the bounded, single-use, time-evicted
// ASN->token cache that bridges /login/ and the protected /peer/*
// endpoints (spec.md §4.2).
package session

import (
	"sync"
	"time"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// Cache is a process-local, lock-guarded ASN->token map with a bounded
// capacity and a per-entry TTL, generalized from pabotesu-valon's
// sync.RWMutex-guarded PeerCache to add TTL eviction and single-use
// consumption.
type Cache struct {
	mu       sync.Mutex
	entries  map[int64]entry
	capacity int
	ttl      time.Duration

	stop chan struct{}
}

// NewCache returns a Cache bounded to capacity entries with the given
// per-entry TTL.
func NewCache(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		entries:  make(map[int64]entry, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Store records token as the live session for asn, evicting the
// soonest-to-expire entry first if the cache is at capacity.
func (c *Cache) Store(asn int64, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[asn]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}

	c.entries[asn] = entry{token: token, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

// Consume looks up asn, compares its live token against presented, and on
// an exact match removes the entry (single-use) and returns nil. A missing
// key or an expired entry returns ErrASNNotLoggedIn and a token mismatch
// returns ErrTokenInvalid, without mutating any other entry (an expired
// entry is itself dropped); lookup, compare, and delete form one atomic
// step under the cache's lock (spec.md §4.2 invariant).
func (c *Cache) Consume(asn int64, presented string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[asn]
	if !ok {
		return errors.WithCode(code.ErrASNNotLoggedIn, "ASN is not logged in")
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, asn)
		return errors.WithCode(code.ErrASNNotLoggedIn, "ASN is not logged in")
	}
	if e.token != presented {
		return errors.WithCode(code.ErrTokenInvalid, "token is invalid")
	}

	delete(c.entries, asn)
	return nil
}

// Clear removes every entry, the defense-in-depth sweep spec.md §4.2/§9
// runs every TTL interval alongside per-entry expiry (kept per DESIGN.md's
// Open Question decision: redundant but harmless).
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int64]entry, c.capacity)
}

// Len reports the number of live entries, for tests and metrics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldestLocked removes the soonest-to-expire entry. Callers must hold
// c.mu.
func (c *Cache) evictOldestLocked() {
	var oldestASN int64
	var oldestAt time.Time
	first := true
	for asn, e := range c.entries {
		if first || e.expiresAt.Before(oldestAt) {
			oldestASN, oldestAt, first = asn, e.expiresAt, false
		}
	}
	if !first {
		delete(c.entries, oldestASN)
	}
}

// RunPeriodicClear blocks, clearing the cache every interval, until Stop
// is called. Intended to run in its own goroutine.
func (c *Cache) RunPeriodicClear(interval time.Duration) {
	c.mu.Lock()
	if c.stop == nil {
		c.stop = make(chan struct{})
	}
	stop := c.stop
	c.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Clear()
		case <-stop:
			return
		}
	}
}

// Stop ends a running RunPeriodicClear loop.
func (c *Cache) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}
