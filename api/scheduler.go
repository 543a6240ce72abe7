/*
scheduler.go - Periodic calendar sync

PURPOSE:
  Several server processes can share one SQLite database. Each keeps its
  own in-memory registry, so calendars edited through one process must be
  picked up by the others. The scheduler reloads the custom calendars from
  the store on a fixed interval.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each run replaces the registry's custom calendars wholesale
    (Registry.Sync), so deletions propagate too
  - Holds the handler's write lock while syncing, so a sync never lands
    between a store write and the matching registry update

CONFIGURATION:
  - sync_interval in the config file (default: 0, disabled)

USAGE:
  scheduler := NewSyncScheduler(handler, time.Minute)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - calendar/registry.go: Registry.Sync
  - cmd/rolling/serve.go: Starts the scheduler
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SyncScheduler periodically reloads custom calendars from the store.
type SyncScheduler struct {
	Handler  *Handler
	Interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSyncScheduler creates a scheduler. It does nothing until Start.
func NewSyncScheduler(h *Handler, interval time.Duration) *SyncScheduler {
	return &SyncScheduler{
		Handler:  h,
		Interval: interval,
	}
}

// Start begins syncing. A non-positive interval disables the scheduler.
func (s *SyncScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.Handler.log
	if s.Interval <= 0 {
		log.Debug("calendar sync disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run()

	log.Info("calendar sync started", zap.Duration("interval", s.Interval))
}

// Stop stops the scheduler and waits for a running sync to finish.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	s.Handler.log.Info("calendar sync stopped")
}

func (s *SyncScheduler) run() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
			_ = s.SyncNow(ctx)
			cancel()
		case <-s.stop:
			return
		}
	}
}

// SyncNow reloads the custom calendars once.
func (s *SyncScheduler) SyncNow(ctx context.Context) error {
	h := s.Handler
	h.mu.Lock()
	defer h.mu.Unlock()

	n, err := h.Registry.Sync(ctx, h.Store)
	if err != nil {
		h.log.Warn("calendar sync failed", zap.Error(err), zap.Int("calendars", n))
		return err
	}
	h.log.Debug("calendars synced", zap.Int("calendars", n))
	return nil
}
