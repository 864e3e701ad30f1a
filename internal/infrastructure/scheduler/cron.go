package scheduler

import (
	"fmt"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler manages one-shot cron jobs.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
	mu   sync.Mutex // To protect access to job management
}

// onceSchedule fires a single time at the given instant and never again.
type onceSchedule struct {
	at time.Time
}

// Next returns the fire time while it is still ahead of t; the zero time tells cron
// the entry has nothing left to run.
func (s onceSchedule) Next(t time.Time) time.Time {
	if t.Before(s.at) {
		return s.at
	}
	return time.Time{}
}

// NewScheduler creates and starts a cron scheduler. Panicking jobs are recovered
// so one bad job cannot take the scheduler goroutine down.
func NewScheduler(log logger.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.PrintfLogger(log))),
	)
	c.Start()
	log.Info("Cron scheduler started.")
	return &Scheduler{
		cron: c,
		log:  log,
	}
}

// ScheduleOnce registers cmd to run once at or after at.
// Returns the EntryID of the added job, or ErrFireTimePassed if at is not in the future.
func (s *Scheduler) ScheduleOnce(at time.Time, cmd func()) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !at.After(time.Now()) {
		return 0, fmt.Errorf("failed to add cron job at %v: %w", at, appErrors.ErrFireTimePassed)
	}
	id := s.cron.Schedule(onceSchedule{at: at}, cron.FuncJob(cmd))
	s.log.Debug(fmt.Sprintf("Added one-shot cron job with ID %d at %v", id, at))
	return id, nil
}

// RemoveJob removes a job from the scheduler by its EntryID.
func (s *Scheduler) RemoveJob(id cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Remove(id)
	s.log.Debug(fmt.Sprintf("Removed cron job with ID %d", id))
}

// Stop stops the cron scheduler and waits for running jobs to complete.
// The lock is not held while waiting since running jobs may still call RemoveJob.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Cron scheduler stopped.")
}

// GetEntries returns the list of scheduled entries. Useful for debugging.
func (s *Scheduler) GetEntries() []cron.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron.Entries()
}
