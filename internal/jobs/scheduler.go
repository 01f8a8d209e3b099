package jobs

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// NewScheduler creates a scheduler whose specs carry a seconds field.
func NewScheduler(log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With(slog.String("component", "scheduler")),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "0 */15 * * * *"     - Every 15 minutes
//   - "@hourly"            - Every hour
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug("Running job", slog.String("job", job.Name()))

		if err := job.Run(); err != nil {
			s.log.Error("Job failed", slog.String("job", job.Name()), slog.String("error", err.Error()))
		} else {
			s.log.Debug("Job completed", slog.String("job", job.Name()))
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("Job registered", slog.String("schedule", schedule), slog.String("job", job.Name()))
	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info("Running job immediately", slog.String("job", job.Name()))
	return job.Run()
}
