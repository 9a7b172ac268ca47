package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CleanupWorker periodically reclaims expired identifiers from limiters
type CleanupWorker struct {
	limiters []*Limiter
	interval time.Duration
	logger   zerolog.Logger

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewCleanupWorker creates a new cleanup worker
func NewCleanupWorker(interval time.Duration, logger zerolog.Logger, limiters ...*Limiter) *CleanupWorker {
	return &CleanupWorker{
		limiters: limiters,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start starts the cleanup loop
func (w *CleanupWorker) Start() {
	w.logger.Info().
		Dur("interval", w.interval).
		Int("limiters", len(w.limiters)).
		Msg("Starting rate limiter cleanup worker")

	w.wg.Add(1)
	go w.run()
}

// Stop stops the cleanup loop and waits for it to exit
func (w *CleanupWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
	w.wg.Wait()

	w.logger.Info().Msg("Rate limiter cleanup worker stopped")
}

func (w *CleanupWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one cleanup pass over every limiter
func (w *CleanupWorker) Sweep() int {
	total := 0
	for _, l := range w.limiters {
		removed := l.Cleanup()
		total += removed
		if removed > 0 {
			w.logger.Debug().
				Str("tier", string(l.Tier())).
				Int("removed", removed).
				Int("remaining", l.Size()).
				Msg("Expired rate limit entries reclaimed")
		}
	}
	return total
}
