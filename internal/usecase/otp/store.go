package otp

import (
	"sync"
	"time"

	domain "udyam-verification/internal/domain/otp"
)

// slot guards one key. refs counts goroutines holding or waiting for mu, so a
// slot is only dropped from the map once nobody can still observe it.
type slot struct {
	mu   sync.Mutex
	rec  *domain.Record
	refs int
}

// Store keeps one Record per aadhaar/mobile key. Operations on the same key
// are serialized; different keys never wait on each other's record lock.
type Store struct {
	mu    sync.Mutex
	slots map[string]*slot
}

func NewStore() *Store { return &Store{slots: make(map[string]*slot)} }

func (s *Store) acquire(key string) *slot {
	s.mu.Lock()
	sl, ok := s.slots[key]
	if !ok {
		sl = &slot{}
		s.slots[key] = sl
	}
	sl.refs++
	s.mu.Unlock()

	sl.mu.Lock()
	return sl
}

func (s *Store) release(key string, sl *slot) {
	s.mu.Lock()
	sl.refs--
	if sl.refs == 0 && sl.rec == nil {
		delete(s.slots, key)
	}
	s.mu.Unlock()
	sl.mu.Unlock()
}

// Update runs fn under the key lock. Whatever fn returns as next replaces the
// stored record, even alongside an error; a nil next removes it.
func (s *Store) Update(key string, fn func(cur *domain.Record) (*domain.Record, error)) error {
	sl := s.acquire(key)
	defer s.release(key, sl)

	var cur *domain.Record
	if sl.rec != nil {
		c := *sl.rec
		cur = &c
	}
	next, err := fn(cur)
	sl.rec = next
	return err
}

// Get returns a copy of the record, or nil.
func (s *Store) Get(key string) *domain.Record {
	sl := s.acquire(key)
	defer s.release(key, sl)
	if sl.rec == nil {
		return nil
	}
	c := *sl.rec
	return &c
}

// Purge removes records that expired before now and reports how many.
func (s *Store) Purge(now time.Time) int {
	s.mu.Lock()
	keys := make([]string, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	n := 0
	for _, k := range keys {
		sl := s.acquire(k)
		if sl.rec != nil && sl.rec.Expired(now) {
			sl.rec = nil
			n++
		}
		s.release(k, sl)
	}
	return n
}

// Len reports the number of keys currently tracked.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
