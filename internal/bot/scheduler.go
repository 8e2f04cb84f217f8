package bot

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron for one-shot deferred tasks such as export
// file cleanup.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       *slog.Logger
	mu        sync.Mutex
	started   bool
}

// NewScheduler builds a stopped scheduler. Call Start before scheduling.
func NewScheduler(logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		log:       logger.With("component", "scheduler"),
	}, nil
}

// Start begins executing scheduled jobs. Safe to call more than once.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.scheduler.Start()
	s.started = true
	s.log.Debug("Scheduler started")
}

// ScheduleOnce runs task once after delay.
func (s *Scheduler) ScheduleOnce(name string, delay time.Duration, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(delay))),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.log.Debug("Scheduled one-time job", "name", name, "delay", delay)
	return nil
}

// Shutdown stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	s.log.Debug("Scheduler stopped")
	return nil
}
