// Package schedule runs the recurring poll, daily report, and month-end
// check on cron expressions evaluated in the configured fixed timezone.
package schedule

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Jobs are the recurring entry points. Each invocation runs to completion
// independently; a failure aborts that invocation only and the next tick is
// the retry.
type Jobs struct {
	Poll        func(ctx context.Context) error
	DailyReport func(ctx context.Context) error
	MonthEnd    func(ctx context.Context) error
}

// Specs holds the cron expressions for each job.
type Specs struct {
	Poll        string
	DailyReport string
	MonthEnd    string
}

// Scheduler wraps a cron runner with the three occupancy jobs.
type Scheduler struct {
	cron *cron.Cron
}

// New builds a scheduler. The month-end check deliberately runs every day of
// the week: the last day of a month can fall on a weekend even when polls and
// reports are weekday-only.
func New(loc *time.Location, specs Specs, jobs Jobs) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(loc))

	entries := []struct {
		name string
		spec string
		run  func(ctx context.Context) error
	}{
		{"poll", specs.Poll, jobs.Poll},
		{"daily-report", specs.DailyReport, jobs.DailyReport},
		{"month-end", specs.MonthEnd, jobs.MonthEnd},
	}
	for _, e := range entries {
		name, run := e.name, e.run
		if _, err := c.AddFunc(e.spec, func() {
			if err := run(context.Background()); err != nil {
				log.Printf("[scheduler] %s: %v", name, err)
			}
		}); err != nil {
			return nil, fmt.Errorf("add %s cron %q: %w", e.name, e.spec, err)
		}
	}
	return &Scheduler{cron: c}, nil
}

// Start begins firing jobs on schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[scheduler] started")
}

// Stop halts the schedule and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[scheduler] stopped")
}
