package data

import (
	"path/filepath"
	"sync"

	"github.com/Nadirh/retirement-planning/internal/logger"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// MemoryCache implements DataCache using in-memory storage
type MemoryCache struct {
	cache map[string][]types.MonthlyObservation
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]types.MonthlyObservation),
	}
}

// Get retrieves data from cache if available
func (c *MemoryCache) Get(key string) ([]types.MonthlyObservation, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data, exists := c.cache[key]
	if exists {
		// Return a copy to prevent external modifications
		result := make([]types.MonthlyObservation, len(data))
		copy(result, data)
		return result, true
	}

	return nil, false
}

// Set stores data in cache
func (c *MemoryCache) Set(key string, data []types.MonthlyObservation) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.MonthlyObservation, len(data))
	copy(cached, data)
	c.cache[key] = cached
}

// Delete drops the entry for key
func (c *MemoryCache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.cache, key)
}

// CachedProvider wraps another DataProvider with caching functionality.
// Failed loads are never cached.
type CachedProvider struct {
	provider DataProvider
	cache    DataCache
}

// NewCachedProvider creates a new cached data provider
func NewCachedProvider(provider DataProvider) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    NewMemoryCache(),
	}
}

// GetName returns the name of the underlying provider with cache indication
func (p *CachedProvider) GetName() string {
	return "Cached " + p.provider.GetName()
}

// LoadData loads data with caching
func (p *CachedProvider) LoadData(source string) ([]types.MonthlyObservation, error) {
	if cachedData, exists := p.cache.Get(source); exists {
		return cachedData, nil
	}

	logger.Debug("Loading historical data from %s", filepath.Base(source))
	data, err := p.provider.LoadData(source)
	if err != nil {
		logger.Error("Failed to load data from %s: %v", filepath.Base(source), err)
		return nil, err
	}

	p.cache.Set(source, data)

	logger.Info("Loaded and cached data from %s (%d months)", filepath.Base(source), len(data))
	return data, nil
}

// Forget drops the cached rows of source so the next load reads it again.
// Used when rows parsed but the series built from them was rejected.
func (p *CachedProvider) Forget(source string) {
	p.cache.Delete(source)
}
