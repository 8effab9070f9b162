package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client sobre go-cache. El janitor de go-cache
// purga las entradas expiradas cada minuto.
type memoryClient struct {
	prefix   string
	maxItems int
	c        *gocache.Cache
	mu       sync.Mutex // serializa Set cuando hay que desalojar
	hits     atomic.Int64
	misses   atomic.Int64
}

// NewMemory crea un cliente de cache en memoria. maxItems > 0 limita el
// número de entradas; al llenarse se desaloja la que vence antes.
func NewMemory(prefix string, maxItems int) *memoryClient {
	return &memoryClient{
		prefix:   prefix,
		maxItems: maxItems,
		c:        gocache.New(gocache.NoExpiration, time.Minute),
	}
}

func (m *memoryClient) key(k string) string { return prefixed(m.prefix, k) }

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		m.misses.Add(1)
		return "", ErrNotFound
	}
	m.hits.Add(1)
	s, _ := v.(string)
	return s, nil
}

func (m *memoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	exp := gocache.NoExpiration
	if ttl > 0 {
		exp = ttl
	}
	k := m.key(key)

	if m.maxItems <= 0 {
		m.c.Set(k, value, exp)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, found := m.c.Get(k); !found && m.c.ItemCount() >= m.maxItems {
		m.evictOne()
	}
	m.c.Set(k, value, exp)
	return nil
}

// evictOne elimina la entrada con vencimiento más cercano; las que no
// expiran son las últimas candidatas.
func (m *memoryClient) evictOne() {
	var (
		victim string
		best   int64
		found  bool
	)
	for k, it := range m.c.Items() {
		exp := it.Expiration
		if exp == 0 {
			exp = 1<<63 - 1
		}
		if !found || exp < best {
			victim, best, found = k, exp, true
		}
	}
	if found {
		m.c.Delete(victim)
	}
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(m.key(key))
	return nil
}

func (m *memoryClient) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.c.Get(m.key(key))
	return ok, nil
}

func (m *memoryClient) Clear(_ context.Context) error {
	if m.prefix == "" {
		m.c.Flush()
		return nil
	}
	p := m.prefix + ":"
	for k := range m.c.Items() {
		if strings.HasPrefix(k, p) {
			m.c.Delete(k)
		}
	}
	return nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}

func (m *memoryClient) Stats(context.Context) (Stats, error) {
	return Stats{
		Driver: "memory",
		Keys:   int64(len(m.c.Items())),
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}, nil
}
