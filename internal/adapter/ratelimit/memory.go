// Package ratelimit implements rolling-window limiters keyed by an arbitrary string.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory keeps per-key timestamps in process.
type Memory struct {
	limit  int
	window time.Duration

	mu   sync.Mutex
	hits map[string][]time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{limit: limit, window: window, hits: make(map[string][]time.Time)}
}

// Allow drops timestamps older than window, then records now if under limit.
func (m *Memory) Allow(_ context.Context, key string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-m.window)
	kept := m.hits[key][:0]
	for _, ts := range m.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= m.limit {
		m.hits[key] = kept
		return false, nil
	}
	m.hits[key] = append(kept, now)
	return true, nil
}

// Count returns the hits inside the window ending at now.
func (m *Memory) Count(key string, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := now.Add(-m.window)
	n := 0
	for _, ts := range m.hits[key] {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}

// Purge removes keys with no hits inside the window ending at now.
func (m *Memory) Purge(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := now.Add(-m.window)
	removed := 0
	for k, ts := range m.hits {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(m.hits, k)
			removed++
		}
	}
	return removed
}
