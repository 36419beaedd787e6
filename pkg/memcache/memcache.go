package memcache

import (
	"sync"
	"time"
)

// Cache простой in-memory кэш с TTL и явной инвалидацией
// Используется клиентами внешних API (open-hours, access-code) вместо
// глобального process-wide кэша: экземпляр создается в main и явно
// передается клиенту
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// New создает пустой кэш
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get возвращает значение по ключу, если оно есть и не истекло
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set сохраняет значение с указанным TTL
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Invalidate удаляет значение по ключу
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Purge удаляет все истекшие записи
// Вызывается периодически из фоновой горутины в main
func (c *Cache) Purge() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
