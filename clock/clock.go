package clock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"weatherwise/logger"
)

const (
	TaskName     = "clock"
	TickInterval = time.Second
)

// Scheduler is the part of the cron scheduler the clock needs
type Scheduler interface {
	Schedule(name string, interval time.Duration, task func(ctx context.Context) error) error
	Remove(name string)
}

// Clock keeps the displayed device date current. A scheduled job
// recomputes it once a second.
type Clock struct {
	now func() time.Time
	log logger.Logger

	mu      sync.RWMutex
	date    string
	stopped bool
	sched   Scheduler
}

func New(now func() time.Time, log logger.Logger) *Clock {
	if now == nil {
		now = time.Now
	}
	c := &Clock{now: now, log: log.WithField("component", "clock")}
	c.date = FormatDate(c.now())
	return c
}

// Start registers the one-second tick on s
func (c *Clock) Start(s Scheduler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := s.Schedule(TaskName, TickInterval, c.Tick); err != nil {
		return fmt.Errorf("start clock: %w", err)
	}
	c.sched = s
	c.stopped = false
	return nil
}

// Tick recomputes the date. It is a no-op once the clock is stopped.
func (c *Clock) Tick(ctx context.Context) error {
	date := FormatDate(c.now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil
	}
	if date != c.date {
		c.log.Debugf("Date rolled over to %s", date)
	}
	c.date = date
	return nil
}

// Date returns the most recently computed device date
func (c *Clock) Date() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.date
}

// Now exposes the clock's time source
func (c *Clock) Now() time.Time {
	return c.now()
}

// Stop cancels the tick
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.sched != nil {
		c.sched.Remove(TaskName)
		c.sched = nil
	}
}

// FormatDate renders t as "19th October, 2026"
func FormatDate(t time.Time) string {
	day := t.Day()
	return fmt.Sprintf("%d%s %s, %d", day, OrdinalSuffix(day), t.Month(), t.Year())
}

// CityDate renders the calendar date at a location offsetSeconds from UTC
func CityDate(now time.Time, offsetSeconds int) string {
	return FormatDate(now.UTC().Add(time.Duration(offsetSeconds) * time.Second))
}

func OrdinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
