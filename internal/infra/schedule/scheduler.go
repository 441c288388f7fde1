// Package schedule runs jobs on cron schedules.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// Job is one scheduled unit of work. Its error is logged, never retried.
type Job func(ctx context.Context) error

// Scheduler runs jobs on standard five-field cron expressions in a fixed location.
type Scheduler struct {
	cron   *cron.Cron
	logger domain.Logger
	loc    *time.Location
}

// New creates a Scheduler. loc defaults to time.Local.
func New(loc *time.Location, logger domain.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
		loc:    loc,
	}
}

// Add registers job under name on spec.
func (s *Scheduler) Add(ctx context.Context, name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Debug("schedule", fmt.Sprintf("running %s", name))
		if err := job(ctx); err != nil {
			s.logger.Error("schedule", fmt.Sprintf("%s: %v", name, err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	return nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

// Next returns the first activation of spec strictly after t, in loc.
func Next(spec string, t time.Time, loc *time.Location) (time.Time, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if loc != nil {
		t = t.In(loc)
	}
	return sched.Next(t), nil
}

// Validate checks that spec parses.
func Validate(spec string) error {
	_, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return nil
}
