package ratelimit

import (
	"time"
)

// Tier names an operation class with its own limiter
type Tier string

const (
	TierRead  Tier = "read"
	TierWrite Tier = "write"
	TierBatch Tier = "batch"
)

// Clock abstracts time for deterministic tests
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock
var SystemClock Clock = systemClock{}

// Entry is the counter state of one identifier
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Store holds per-identifier counters. Update must apply fn atomically
// with respect to other calls for the same key.
type Store interface {
	Update(key string, fn func(entry Entry, exists bool) Entry) Entry
	Get(key string) (Entry, bool)
	DeleteExpired(now time.Time) int
	Len() int
}

// Limiter is a fixed-window request counter keyed by client identifier
type Limiter struct {
	tier   Tier
	window time.Duration
	max    int
	store  Store
	clock  Clock
}

// NewLimiter creates a limiter that allows max requests per window
func NewLimiter(tier Tier, window time.Duration, max int, store Store, clock Clock) *Limiter {
	if clock == nil {
		clock = SystemClock
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Limiter{
		tier:   tier,
		window: window,
		max:    max,
		store:  store,
		clock:  clock,
	}
}

// Tier returns the operation class of the limiter
func (l *Limiter) Tier() Tier { return l.tier }

// Max returns the number of requests allowed per window
func (l *Limiter) Max() int { return l.max }

// Check counts a request for identifier and reports whether it is allowed.
// The first request, and the first after the window has passed, opens a
// new window with count 1.
func (l *Limiter) Check(identifier string) bool {
	allowed := false
	l.store.Update(identifier, func(e Entry, exists bool) Entry {
		now := l.clock.Now()
		if !exists || !now.Before(e.ResetAt) {
			allowed = true
			return Entry{Count: 1, ResetAt: now.Add(l.window)}
		}
		if e.Count < l.max {
			allowed = true
			e.Count++
		}
		return e
	})
	return allowed
}

// ResetTime returns when the current window of identifier ends. With no
// open window it returns the current time.
func (l *Limiter) ResetTime(identifier string) time.Time {
	now := l.clock.Now()
	e, ok := l.store.Get(identifier)
	if !ok || !now.Before(e.ResetAt) {
		return now
	}
	return e.ResetAt
}

// Remaining returns how many more requests identifier may make in its window
func (l *Limiter) Remaining(identifier string) int {
	e, ok := l.store.Get(identifier)
	if !ok || !l.clock.Now().Before(e.ResetAt) {
		return l.max
	}
	if e.Count >= l.max {
		return 0
	}
	return l.max - e.Count
}

// Cleanup drops identifiers whose window has passed
func (l *Limiter) Cleanup() int {
	return l.store.DeleteExpired(l.clock.Now())
}

// Size returns the number of tracked identifiers
func (l *Limiter) Size() int {
	return l.store.Len()
}

// Limiters groups the three operation classes
type Limiters struct {
	Read  *Limiter
	Write *Limiter
	Batch *Limiter
}

// All returns the limiters in tier order
func (ls *Limiters) All() []*Limiter {
	return []*Limiter{ls.Read, ls.Write, ls.Batch}
}
