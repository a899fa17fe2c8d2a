package cache

import (
	"sync"
	"time"
)

type ttlEntry struct {
	value     interface{}
	expiresAt time.Time
}

// TTLMap is a thread-safe in-process map with a fixed TTL per entry. It backs
// the local layer of the verdict cache so hot fingerprints skip redis.
type TTLMap struct {
	mu   sync.RWMutex
	data map[string]*ttlEntry
	ttl  time.Duration
}

func NewTTLMap(ttl time.Duration) *TTLMap {
	return &TTLMap{
		data: make(map[string]*ttlEntry),
		ttl:  ttl,
	}
}

func (m *TTLMap) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	entry, exists := m.data[key]
	if !exists {
		m.mu.RUnlock()
		return nil, false
	}
	expired := time.Now().After(entry.expiresAt)
	value := entry.value
	m.mu.RUnlock()

	if expired {
		m.mu.Lock()
		if current, ok := m.data[key]; ok && time.Now().After(current.expiresAt) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	return value, true
}

func (m *TTLMap) Set(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = &ttlEntry{
		value:     value,
		expiresAt: time.Now().Add(m.ttl),
	}
}

func (m *TTLMap) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *TTLMap) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]*ttlEntry)
}
