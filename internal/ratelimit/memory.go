package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow keeps admission timestamps per key in process memory. It is
// correct for a single instance only; use RedisSlidingWindow when several
// instances share a quota.
type SlidingWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clock   Clock
	prefix  string
	buckets map[string][]time.Time
}

func NewSlidingWindow(limit int, window time.Duration, opts ...Option) *SlidingWindow {
	o := buildOptions(opts)
	return &SlidingWindow{
		limit:   limit,
		window:  window,
		clock:   o.clock,
		prefix:  o.prefix,
		buckets: make(map[string][]time.Time),
	}
}

// Admit records an admission for key and reports true if the window had room.
func (s *SlidingWindow) Admit(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key = s.prefix + key

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	stamps := prune(s.buckets[key], now.Add(-s.window))

	if len(stamps) >= s.limit {
		s.buckets[key] = stamps
		return false, nil
	}

	s.buckets[key] = append(stamps, now)
	return true, nil
}

// Count returns the number of admissions for key inside the current window.
func (s *SlidingWindow) Count(key string) int {
	key = s.prefix + key

	s.mu.Lock()
	defer s.mu.Unlock()

	stamps := prune(s.buckets[key], s.clock().Add(-s.window))
	if len(stamps) == 0 {
		delete(s.buckets, key)
		return 0
	}
	s.buckets[key] = stamps
	return len(stamps)
}

// Reset forgets every admission recorded for key.
func (s *SlidingWindow) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, s.prefix+key)
}

// prune drops timestamps at or before cutoff. Timestamps are appended in
// clock order so the slice stays sorted.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}
