// apps/handle-solver/internal/cache/cache.go
//
// Local cache for first-round candidate sets.
// Responsibilities:
//   - Wrap ristretto with a default TTL and byte-based cost.
//   - Put a session.Universe behind the cache so concurrent sessions that received the
//     same opening result share one read of the universe file.
package cache

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/session"
)

// GeneralCache is a TTL cache whose cost is counted in bytes.
type GeneralCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewGeneralCache creates a cache bounded by maxCost bytes (1<<30 is 1 GiB).
func NewGeneralCache(maxCost int64, ttl time.Duration) (*GeneralCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &GeneralCache{cache: c, ttl: ttl}, nil
}

// Set stores value under key with the default TTL.
func (c *GeneralCache) Set(key, value interface{}, cost int64) bool {
	return c.cache.SetWithTTL(key, value, cost, c.ttl)
}

func (c *GeneralCache) Get(key interface{}) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *GeneralCache) Delete(key interface{}) {
	c.cache.Del(key)
}

// Wait blocks until buffered writes are applied.
func (c *GeneralCache) Wait() {
	c.cache.Wait()
}

func (c *GeneralCache) Close() {
	c.cache.Close()
}

var handleSize = int64(unsafe.Sizeof(handle.Handle{}))

// FirstRound caches src's first-round candidate sets by result index.
type FirstRound struct {
	src   session.Universe
	cache *GeneralCache
}

func NewFirstRound(src session.Universe, c *GeneralCache) *FirstRound {
	return &FirstRound{src: src, cache: c}
}

func (f *FirstRound) All() ([]handle.Handle, error) { return f.src.All() }

func (f *FirstRound) FirstRound(result handle.Result) ([]handle.Handle, error) {
	key := result.Index()
	if v, ok := f.cache.Get(key); ok {
		if hs, ok := v.([]handle.Handle); ok {
			return hs, nil
		}
	}
	hs, err := f.src.FirstRound(result)
	if err != nil {
		return nil, err
	}
	if !f.cache.Set(key, hs, int64(len(hs))*handleSize+1) {
		log.Debug().Uint32("key", key).Int("records", len(hs)).Msg("first-round set not cached")
	}
	return hs, nil
}
