// Package cache implements the per-key TTL store that fronts every
// provider call. Fetch errors never escape it: a failed refresh serves
// the previous value (even stale) so a degraded snapshot beats a missing
// one.
package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"GoldWatch/internal/metrics"
)

type entry struct {
	value     any
	fetchedAt time.Time
}

// FetchFunc produces a fresh value for a key. A nil result is treated the
// same as an error.
type FetchFunc func() (any, error)

// Store is a per-key cache with an independent TTL per call. The zero
// value is not usable; construct with New.
type Store struct {
	mu  sync.RWMutex
	m   map[string]entry
	log zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New creates an empty store.
func New(log zerolog.Logger) *Store {
	return &Store{
		m:   make(map[string]entry),
		log: log.With().Str("component", "cache").Logger(),
		now: time.Now,
	}
}

// GetOrFetch returns the cached value for key if it is younger than ttl,
// otherwise invokes fn. On fetch failure the previous value is returned
// even when expired; nil only when the key has never been fetched
// successfully. Concurrent callers on the same cold key may each invoke
// fn; the last write wins.
func (s *Store) GetOrFetch(key string, ttl time.Duration, fn FetchFunc) any {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()

	if ok && s.now().Sub(e.fetchedAt) < ttl {
		metrics.CacheHits.Inc()
		return e.value
	}
	metrics.CacheMisses.Inc()

	// Fetch outside the lock so slow providers don't serialize unrelated
	// keys.
	v, err := fn()
	if err != nil || v == nil {
		if err != nil {
			s.log.Warn().Str("key", key).Err(err).Msg("fetch failed, serving cached value")
		}
		if ok {
			metrics.CacheStaleServes.Inc()
			return e.value
		}
		return nil
	}

	s.mu.Lock()
	s.m[key] = entry{value: v, fetchedAt: s.now()}
	s.mu.Unlock()
	return v
}

// Has reports whether any entry exists for key, fresh or stale. The
// orchestrator uses this to decide whether an actual provider call is
// imminent and a rate-limit delay is needed.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.m[key]
	return ok
}
