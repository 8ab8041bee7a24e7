package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"court-booking/pkg/metrics"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyJobName  = errors.New("job name is required")
	ErrEmptyCronExpr = errors.New("cron expression is required")
)

const jobTimeout = 2 * time.Minute

// Scheduler wraps a gocron scheduler. Jobs never overlap with their
// own previous run.
type Scheduler struct {
	scheduler gocron.Scheduler
	metrics   *metrics.Metrics
	log       *zap.Logger

	stopOnce sync.Once
	stopErr  error
}

func New(m *metrics.Metrics, log *zap.Logger) (*Scheduler, error) {
	log = log.With(zap.String("component", "scheduler"))

	sched, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithGlobalJobOptions(
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error("Scheduler job panicked",
						zap.String("job_id", jobID.String()),
						zap.String("job_name", jobName),
						zap.Any("panic", recoverData),
					)
					m.IncJobRun(jobName, "panic")
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	return &Scheduler{scheduler: sched, metrics: m, log: log}, nil
}

// AddJob registers a cron job. The task gets a context bounded by jobTimeout.
func (s *Scheduler) AddJob(name, cronExpr string, task func(ctx context.Context) error) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyJobName
	}
	if strings.TrimSpace(cronExpr) == "" {
		return ErrEmptyCronExpr
	}

	jobLogger := s.log.With(zap.String("job_name", name), zap.String("cron", cronExpr))

	wrapped := func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := task(ctx); err != nil {
			jobLogger.Error("Scheduler job failed", zap.Error(err))
			s.metrics.IncJobRun(name, "error")
			return
		}
		jobLogger.Debug("Scheduler job completed", zap.Duration("duration", time.Since(start)))
		s.metrics.IncJobRun(name, "success")
	}

	// six fields means a leading seconds field
	withSeconds := len(strings.Fields(cronExpr)) == 6

	if _, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, withSeconds),
		gocron.NewTask(wrapped),
		gocron.WithName(name),
	); err != nil {
		jobLogger.Error("Failed to register scheduler job", zap.Error(err))
		return err
	}

	jobLogger.Info("Scheduler job registered")
	return nil
}

func (s *Scheduler) JobNames() []string {
	jobs := s.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, job := range jobs {
		names = append(names, job.Name())
	}
	return names
}

func (s *Scheduler) Start() {
	s.log.Info("Scheduler starting", zap.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop waits for running jobs and is safe to call more than once
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() {
		s.log.Info("Scheduler stopping")
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}
