/*-------------------------------------------------------------------------
 *
 * cache.go
 *    TTL cache for permission grants
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/auth/cache.go
 *
 *-------------------------------------------------------------------------
 */

package auth

import (
	"sync"
	"time"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

/* GrantCache holds per-actor grant lists for a bounded time. Entries are
 * invalidated eagerly whenever a grant for the actor changes, so the TTL
 * only bounds staleness across processes. */
type GrantCache struct {
	mu      sync.RWMutex
	entries map[int64]grantEntry
	ttl     time.Duration
}

type grantEntry struct {
	grants    []db.Permission
	expiresAt time.Time
}

func NewGrantCache(ttl time.Duration) *GrantCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &GrantCache{
		entries: make(map[int64]grantEntry),
		ttl:     ttl,
	}
}

func (c *GrantCache) Get(userID int64) ([]db.Permission, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.grants, true
}

func (c *GrantCache) Put(userID int64, grants []db.Permission) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = grantEntry{
		grants:    grants,
		expiresAt: time.Now().Add(c.ttl),
	}
}

/* Invalidate drops the cached grants for one actor */
func (c *GrantCache) Invalidate(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

/* Purge drops all cached grants */
func (c *GrantCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int64]grantEntry)
}
