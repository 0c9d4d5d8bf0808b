package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mwhitman/propedge/internal/models"
)

// ErrCycleInFlight is returned by TriggerNow when a cycle is already running.
var ErrCycleInFlight = errors.New("a pipeline cycle is already running")

// CycleRunner is the orchestration contract the scheduler drives.
type CycleRunner interface {
	RunCycle(ctx context.Context, seasonYear int) (*models.RunResult, error)
}

// Scheduler triggers one pipeline cycle on a cron spec. Runs are strictly
// serialized: a tick that arrives while a cycle is in flight is skipped,
// never queued, because overlapping runs would race on the snapshot files'
// last-writer-wins semantics.
type Scheduler struct {
	runner   CycleRunner
	logger   *logrus.Logger
	cron     *cron.Cron
	spec     string
	timeout  time.Duration
	mu       sync.Mutex
	running  bool
	inFlight bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(runner CycleRunner, spec string, timeout time.Duration, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		runner:  runner,
		logger:  logger,
		cron:    cron.New(),
		spec:    spec,
		timeout: timeout,
	}
}

// Start registers the cron entry and begins scheduling.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return fmt.Errorf("failed to schedule pipeline cycle: %w", err)
	}
	s.cron.Start()
	s.running = true
	s.logger.Infof("Scheduler started with spec %q", s.spec)
	return nil
}

// Stop halts scheduling and waits for a running tick to finish. The wait
// happens outside the lock: a finishing tick needs it to release the
// in-flight flag.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	ctx := s.cron.Stop()
	s.mu.Unlock()

	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// TriggerNow runs a cycle immediately unless one is already in flight.
func (s *Scheduler) TriggerNow(seasonYear int) (*models.RunResult, error) {
	if !s.tryAcquire() {
		return nil, ErrCycleInFlight
	}
	defer s.release()
	return s.run(seasonYear)
}

// Busy reports whether a cycle is currently in flight.
func (s *Scheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *Scheduler) tick() {
	if !s.tryAcquire() {
		s.logger.Warn("Skipping scheduled cycle: previous run still in flight")
		return
	}
	defer s.release()
	if _, err := s.run(time.Now().Year()); err != nil {
		s.logger.Errorf("Scheduled cycle failed: %v", err)
	}
}

func (s *Scheduler) run(seasonYear int) (*models.RunResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.runner.RunCycle(ctx, seasonYear)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Cycle %s completed in %.1fs (%d props, degraded=%v)",
		result.RunID, time.Since(start).Seconds(), result.PropCount, result.Degraded)
	return result, nil
}

func (s *Scheduler) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}
