package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Cache keys are tracked per cache type so that a write to one entity family
// can clear every derived entry that depends on it (a transaction write
// invalidates both the cached listings and the cached reports).
var (
	Cache                *ristretto.Cache
	TransactionCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	ReportCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// Transaction listing cache

func SetTransactionCache(cacheKey string, value interface{}) {
	TransactionCacheKeys.Lock()
	TransactionCacheKeys.m[cacheKey] = struct{}{}
	TransactionCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearAllTransactionCaches() {
	TransactionCacheKeys.Lock()
	for key := range TransactionCacheKeys.m {
		Cache.Del(key)
	}
	TransactionCacheKeys.m = make(map[string]struct{})
	TransactionCacheKeys.Unlock()
}

// Report cache (net worth, savings rate, health score)

func SetReportCache(cacheKey string, value interface{}) {
	ReportCacheKeys.Lock()
	ReportCacheKeys.m[cacheKey] = struct{}{}
	ReportCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearAllReportCaches() {
	ReportCacheKeys.Lock()
	for key := range ReportCacheKeys.m {
		Cache.Del(key)
	}
	ReportCacheKeys.m = make(map[string]struct{})
	ReportCacheKeys.Unlock()
}
