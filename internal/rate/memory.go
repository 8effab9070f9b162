package rate

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter es la variante in-process: mismo algoritmo, contadores en
// go-cache con expiración igual a la ventana.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   *gocache.Cache
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   gocache.New(window, 2*window),
		max:    int64(max),
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now().UTC()
	winStart := now.Truncate(l.window)
	k := key + ":" + strconv.FormatInt(winStart.Unix(), 10)

	l.mu.Lock()
	defer l.mu.Unlock()

	var hits int64 = 1
	if err := l.hits.Add(k, hits, l.window); err != nil {
		// ya existe en esta ventana
		n, err := l.hits.IncrementInt64(k, 1)
		if err != nil {
			return Result{}, err
		}
		hits = n
	}
	return newResult(hits, l.max, winStart.Add(l.window).Sub(now)), nil
}

func (l *MemoryLimiter) Close() error {
	l.hits.Flush()
	return nil
}
