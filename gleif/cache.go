package gleif

import (
	"sync"
	"time"
)

// RecordCache кэш плоских записей точечных выборок по LEI.
// Только в памяти процесса: инструмент не хранит состояние между
// запусками. Повторные пакеты с теми же LEI не ходят в реестр, пока
// запись не протухла по TTL.
type RecordCache struct {
	config *CacheConfig
	data   map[string]*cacheEntry
	mutex  sync.RWMutex
	stats  CacheStats
}

type cacheEntry struct {
	record    FlatRecord
	timestamp time.Time
}

// CacheConfig конфигурация кэша
type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	TTL             time.Duration `json:"ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// CacheStats статистика кэша
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// NewRecordCache создает новый кэш записей
func NewRecordCache(config *CacheConfig) *RecordCache {
	cache := &RecordCache{
		config: config,
		data:   make(map[string]*cacheEntry),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go cache.startCleanup()
	}

	return cache
}

// Get возвращает запись из кэша по LEI
func (c *RecordCache) Get(lei string) (FlatRecord, bool) {
	if !c.config.Enabled {
		return nil, false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.data[lei]
	if !exists || time.Since(entry.timestamp) > c.config.TTL {
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	return entry.record, true
}

// Set сохраняет запись в кэш
func (c *RecordCache) Set(lei string, record FlatRecord) {
	if !c.config.Enabled || lei == "" || lei == Sentinel {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[lei] = &cacheEntry{
		record:    record,
		timestamp: time.Now(),
	}
}

// Stats возвращает текущую статистику кэша
func (c *RecordCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := c.stats
	stats.Size = len(c.data)
	return stats
}

// startCleanup периодически удаляет протухшие записи
func (c *RecordCache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		for lei, entry := range c.data {
			if time.Since(entry.timestamp) > c.config.TTL {
				delete(c.data, lei)
			}
		}
		c.mutex.Unlock()
	}
}
