// Package iocache persists computed analytics results across runs.
package iocache

import (
	"sync"

	"github.com/endora-app/endoscope/internal/contract"
)

// CacheStoreManager manages the result CacheStore instance.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	result       contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetResultStore returns the result CacheStore.
func (mgr *CacheStoreManager) GetResultStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.result
}
