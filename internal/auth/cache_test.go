/*-------------------------------------------------------------------------
 *
 * cache_test.go
 *    Tests for the grant cache
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/auth/cache_test.go
 *
 *-------------------------------------------------------------------------
 */

package auth

import (
	"testing"
	"time"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

func TestGrantCachePutGet(t *testing.T) {
	cache := NewGrantCache(time.Minute)

	if _, ok := cache.Get(1); ok {
		t.Fatal("expected miss on empty cache")
	}

	grants := []db.Permission{grant("items", "*", "read")}
	cache.Put(1, grants)

	got, ok := cache.Get(1)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if len(got) != 1 || got[0].Entity != "items" {
		t.Errorf("unexpected cached grants: %+v", got)
	}
}

func TestGrantCacheExpiry(t *testing.T) {
	cache := NewGrantCache(10 * time.Millisecond)
	cache.Put(1, []db.Permission{grant("items", "*", "read")})

	time.Sleep(25 * time.Millisecond)

	if _, ok := cache.Get(1); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestGrantCacheInvalidate(t *testing.T) {
	cache := NewGrantCache(time.Minute)
	cache.Put(1, []db.Permission{grant("items", "*", "read")})
	cache.Put(2, []db.Permission{grant("stocks", "*", "write")})

	cache.Invalidate(1)

	if _, ok := cache.Get(1); ok {
		t.Error("expected invalidated entry to miss")
	}
	if _, ok := cache.Get(2); !ok {
		t.Error("expected untouched entry to hit")
	}

	cache.Purge()
	if _, ok := cache.Get(2); ok {
		t.Error("expected purged cache to miss")
	}
}
