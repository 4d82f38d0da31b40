package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/endora-app/endoscope/internal/contract"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheMaxAge bounds how long a cached result stays servable. Snapshots
// are immutable between imports, but the anchor "today" moves, so entries
// cannot live forever.
const cacheMaxAge = 24 * time.Hour

// cachedResult wraps a computation with the result cache: hit when the
// stored entry matches the current version and is fresh, otherwise compute
// and store. A nil store degrades to direct computation.
func cachedResult[T any](mgr contract.CacheManager, key string, compute func() (*T, error)) (*T, error) {
	if mgr == nil {
		return compute()
	}
	store := mgr.GetResultStore()
	if store == nil {
		return compute()
	}

	if result := checkCacheHit[T](store, key); result != nil {
		return result, nil
	}

	return computeAndStore(store, key, compute)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit[T any](store contract.CacheStore, key string) *T {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= cacheMaxAge {
			var result T
			if err := json.Unmarshal(data, &result); err == nil {
				return &result // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// computeAndStore computes the result and stores it in cache
func computeAndStore[T any](store contract.CacheStore, key string, compute func() (*T, error)) (*T, error) {
	result, err := compute()
	if err != nil {
		return nil, err
	}

	// Store failures are non-fatal; the result is still good.
	if data, err := json.Marshal(result); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}

	return result, nil
}

// generateCacheKey creates a unique key from the operation name, the
// shared query parameters and any operation-specific parts. The anchor day
// is included so entries naturally roll over at midnight.
func generateCacheKey(op string, cfg *contract.Config, parts ...string) string {
	base := fmt.Sprintf("%s:%s:%s:%s:%s",
		op,
		cfg.RangeStart,
		cfg.RangeEnd,
		cfg.Zone,
		cfg.Now.Format("2006-01-02"),
	)
	if len(parts) > 0 {
		base += ":" + strings.Join(parts, ":")
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(base)))
}
