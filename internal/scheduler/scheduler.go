// Package scheduler runs the periodic housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/models"
)

// DigestTime is when the daily due-review digest runs, in UTC.
const DigestTime = "08:00"

// SessionSweeper drops study sessions that have been idle too long.
type SessionSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) []string
}

// DueLister reports the menu items due for review.
type DueLister interface {
	DueItems(ctx context.Context, now time.Time) ([]models.MenuItem, error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler     *gocron.Scheduler
	sessions      SessionSweeper
	due           DueLister
	sweepInterval time.Duration
	now           func() time.Time
	log           *logger.Logger
}

// New creates a new scheduler instance
func New(sessions SessionSweeper, due DueLister, sweepInterval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler:     gocron.NewScheduler(time.UTC),
		sessions:      sessions,
		due:           due,
		sweepInterval: sweepInterval,
		now:           time.Now,
		log:           logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	minutes := max(int(s.sweepInterval/time.Minute), 1)
	if _, err := s.scheduler.Every(minutes).Minutes().Do(s.SweepSessions); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	if _, err := s.scheduler.Every(1).Day().At(DigestTime).Do(s.DueDigest); err != nil {
		return fmt.Errorf("schedule due digest: %w", err)
	}

	s.log.Info("starting scheduler: sweep every %dm, digest daily at %s UTC", minutes, DigestTime)
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("scheduler stopped")
}

// JobCount returns the number of registered jobs.
func (s *Scheduler) JobCount() int {
	return len(s.scheduler.Jobs())
}

// SweepSessions removes expired study sessions.
func (s *Scheduler) SweepSessions() {
	ctx := logger.NewContext(context.Background(), s.log.WithField("job", "session_sweep"))
	expired := s.sessions.SweepExpired(ctx, s.now())
	s.log.Debug("session sweep removed %d sessions", len(expired))
}

// DueDigest logs how many items are due for review. It returns the count so
// callers can report it.
func (s *Scheduler) DueDigest() int {
	log := s.log.WithField("job", "due_digest")
	ctx := logger.NewContext(context.Background(), log)

	due, err := s.due.DueItems(ctx, s.now())
	if err != nil {
		log.Error("failed to list due items: %v", err)
		return 0
	}
	if len(due) == 0 {
		log.Info("nothing due for review today")
		return 0
	}
	log.Info("%d items due for review", len(due))
	return len(due)
}
