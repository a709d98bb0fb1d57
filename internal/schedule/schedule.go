// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule runs registered jobs from a single control loop. Each
// job owns a trigger and its next fire time; the loop wakes on a fixed
// tick, runs every due job synchronously in registration order, and then
// reschedules it. Jobs never overlap.
package schedule

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Trigger computes the next fire time strictly after a given instant.
type Trigger interface {
	Next(after time.Time) time.Time
}

// Interval fires every D, measured from the end of the previous run.
type Interval struct {
	D time.Duration
}

// Next returns after+D.
func (i Interval) Next(after time.Time) time.Time {
	return after.Add(i.D)
}

// Weekly fires once a week on Day at Hour:Minute in Location.
type Weekly struct {
	Day      time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
}

// Next returns the first matching wall-clock time strictly after after.
func (w Weekly) Next(after time.Time) time.Time {
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}
	t := after.In(loc)
	c := time.Date(t.Year(), t.Month(), t.Day(), w.Hour, w.Minute, 0, 0, loc)
	c = c.AddDate(0, 0, (int(w.Day)-int(c.Weekday())+7)%7)
	if !c.After(t) {
		c = c.AddDate(0, 0, 7)
	}
	return c
}

// Func is the work a job performs.
type Func func(ctx context.Context) error

type job struct {
	name    string
	trigger Trigger
	run     Func
	next    time.Time
}

// Scheduler holds jobs and drives them from Run.
type Scheduler struct {
	jobs   []*job
	now    func() time.Time
	tick   time.Duration
	logger zerolog.Logger
}

// New returns a Scheduler that checks its jobs every tick.
func New(tick time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		now:    time.Now,
		tick:   tick,
		logger: logger.With().Str("component", "schedule").Logger(),
	}
}

// Add registers a job; its first fire time is computed from now.
func (s *Scheduler) Add(name string, trigger Trigger, fn Func) {
	j := &job{name: name, trigger: trigger, run: fn}
	j.next = trigger.Next(s.now())
	s.jobs = append(s.jobs, j)
	s.logger.Info().Str("job", name).Time("next_run", j.next).Msg("job scheduled")
}

// NextRun returns the pending fire time of the named job.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	for _, j := range s.jobs {
		if j.name == name {
			return j.next, true
		}
	}
	return time.Time{}, false
}

// RunPending runs every job whose fire time has passed, in registration
// order, and returns how many ran. Job errors are logged, not returned.
func (s *Scheduler) RunPending(ctx context.Context) int {
	ran := 0
	for _, j := range s.jobs {
		if ctx.Err() != nil {
			return ran
		}
		if s.now().Before(j.next) {
			continue
		}

		start := s.now()
		err := j.run(ctx)
		finished := s.now()
		j.next = j.trigger.Next(finished)
		ran++

		ev := s.logger.Info()
		if err != nil {
			ev = s.logger.Error().Err(err)
		}
		ev.Str("job", j.name).
			Dur("took", finished.Sub(start)).
			Time("next_run", j.next).
			Msg("job finished")
	}
	return ran
}

// Run checks the jobs every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		s.RunPending(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
