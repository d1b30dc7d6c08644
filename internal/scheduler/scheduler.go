// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Job is one unit of periodic work. It gets a context bounded by the job interval.
type Job func(ctx context.Context) error

type Scheduler struct {
	s   gocron.Scheduler
	log *zap.Logger
}

func New(log *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{s: s, log: log}, nil
}

// Every registers job to run every interval. Runs never overlap; a run still
// going when the next is due pushes that one back.
func (s *Scheduler) Every(name string, interval time.Duration, job Job) error {
	_, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			start := time.Now()
			if err := job(ctx); err != nil {
				s.log.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
				return
			}
			s.log.Debug("scheduled job done", zap.String("job", name), zap.Duration("took", time.Since(start)))
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

func (s *Scheduler) Start() {
	s.s.Start()
}

// Shutdown stops scheduling and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	return s.s.Shutdown()
}
