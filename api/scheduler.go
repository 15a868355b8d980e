/*
scheduler.go - Automated accrual scheduler

PURPOSE:
  Periodically applies PTO accrued since the last update, so the stored
  balance stays current even when nobody focuses the browser tab.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Delegates to pto.AccrualService.Refresh, which is a no-op when the
    balance was already brought up to today
  - Keeps the last result for the health/admin view

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewAccrualScheduler(handler.Accrual, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RefreshAccrual endpoint (manual refresh)
  - pto/autoaccrual.go: AccrualService
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/warp/pto-planner/pto"
)

// AccrualScheduler refreshes the accrued balance on a ticker.
type AccrualScheduler struct {
	Service       *pto.AccrualService
	CheckInterval time.Duration
	Enabled       bool
	Logger        *log.Logger

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	last    pto.RefreshResult
	lastErr error
	lastRun time.Time
}

// NewAccrualScheduler creates a new scheduler.
func NewAccrualScheduler(service *pto.AccrualService, logger *log.Logger) *AccrualScheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &AccrualScheduler{
		Service:       service,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		Logger:        logger.WithPrefix("scheduler"),
	}
}

// Start begins the scheduler. Calling Start on a running scheduler is a no-op.
func (s *AccrualScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Logger.Info("disabled, not starting")
		return
	}
	if s.running {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.running = true
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	s.Logger.Info("started", "interval", s.CheckInterval)
}

// Stop stops the scheduler and waits for an in-flight refresh to finish.
func (s *AccrualScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.Logger.Info("stopped")
}

func (s *AccrualScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	// Run immediately on start
	s.RunNow()

	for {
		select {
		case <-ticker.C:
			s.RunNow()
		case <-stop:
			return
		}
	}
}

// RunNow triggers an immediate refresh (for testing/admin).
func (s *AccrualScheduler) RunNow() {
	result, err := s.Service.Refresh(context.Background())

	s.mu.Lock()
	s.last, s.lastErr, s.lastRun = result, err, time.Now()
	s.mu.Unlock()

	switch {
	case err != nil:
		s.Logger.Error("accrual refresh failed", "err", err)
	case result.Changed:
		s.Logger.Info("accrual applied",
			"balance", result.Settings.CurrentPTO,
			"accrued", result.Update.AccruedHours,
			"used", result.Update.VacationHoursUsed)
	default:
		s.Logger.Debug("accrual up to date", "skipped", result.Skipped)
	}
}

// LastResult returns the outcome of the most recent refresh.
func (s *AccrualScheduler) LastResult() (pto.RefreshResult, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastRun, s.lastErr
}

// NextRunTime returns when the next scheduled check will occur.
func (s *AccrualScheduler) NextRunTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun.IsZero() {
		return time.Now()
	}
	return s.lastRun.Add(s.CheckInterval)
}
