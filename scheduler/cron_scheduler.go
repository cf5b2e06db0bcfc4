package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"weatherwise/logger"
)

// Task is a unit of scheduled work. The context is cancelled when the task
// exceeds the scheduler timeout or the scheduler stops.
type Task = func(ctx context.Context) error

// CronScheduler runs tasks at fixed intervals on a robfig/cron runner
type CronScheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	log     logger.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

var (
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrDuplicateTask   = errors.New("task already scheduled")
)

func NewCronScheduler(timeout time.Duration, log logger.Logger) *CronScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &CronScheduler{
		cron:    cron.New(cron.WithSeconds()),
		timeout: timeout,
		log:     log.WithField("component", "cron_scheduler"),
		entries: make(map[string]cron.EntryID),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Schedule registers task to run every interval. The runner starts with the
// first registered task.
func (s *CronScheduler) Schedule(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("schedule %s: %w", name, ErrInvalidInterval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("schedule %s: %w", name, ErrDuplicateTask)
	}

	spec := intervalToSpec(interval)
	id, err := s.cron.AddFunc(spec, s.wrapTask(name, task))
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.entries[name] = id
	s.log.Debugf("Task %s scheduled as %q (entry %d)", name, spec, id)

	if !s.started {
		s.cron.Start()
		s.started = true
		s.log.Info("Cron scheduler started")
	}

	return nil
}

func (s *CronScheduler) wrapTask(name string, task Task) func() {
	return func() {
		start := time.Now()

		ctx := s.ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		if err := task(ctx); err != nil {
			s.log.Errorf("Task %s failed: %v", name, err)
			return
		}

		s.log.Debugf("Task %s completed in %v", name, time.Since(start))
	}
}

// Remove unregisters the named task. A run already in progress finishes.
func (s *CronScheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return
	}
	s.cron.Remove(id)
	delete(s.entries, name)
	s.log.Debugf("Task %s removed", name)
}

// Entries reports how many tasks are registered
func (s *CronScheduler) Entries() int {
	return len(s.cron.Entries())
}

// Stop cancels running tasks and waits for them to return
func (s *CronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	<-s.cron.Stop().Done()
	s.started = false

	s.log.Info("Cron scheduler stopped")
}

func intervalToSpec(interval time.Duration) string {
	if interval < time.Second {
		interval = time.Second
	}
	return "@every " + interval.Truncate(time.Second).String()
}
