// internal/app/system/tasks/scheduler.go
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Job is a periodic background task.
type Job struct {
	Name     string
	Interval time.Duration
	// RunAtStart runs the job once right after Start instead of waiting
	// for the first tick.
	RunAtStart bool
	Run        func(ctx context.Context) error
}

// Scheduler runs each Job on its own ticker until Stop.
type Scheduler struct {
	log  *zap.Logger
	jobs []Job

	stopCh  chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	started bool
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{log: logger, stopCh: make(chan struct{})}
}

// Add registers a job. Jobs added after Start are ignored.
func (s *Scheduler) Add(j Job) {
	if s.started {
		s.log.Warn("job added after start; ignoring", zap.String("job", j.Name))
		return
	}
	s.jobs = append(s.jobs, j)
}

// Start launches every registered job.
func (s *Scheduler) Start() {
	if s.started {
		return
	}
	s.started = true
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(j)
		s.log.Info("background job started",
			zap.String("job", j.Name),
			zap.Duration("interval", j.Interval))
	}
}

// Stop signals every job to stop and waits for running ones to finish.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

func (s *Scheduler) loop(j Job) {
	defer s.wg.Done()

	if j.RunAtStart {
		s.runOnce(j)
	}

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runOnce(j)
		}
	}
}

func (s *Scheduler) runOnce(j Job) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Batch(), s.log, j.Name)
	defer cancel()

	// Stop cancels a run in progress.
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := j.Run(ctx); err != nil {
		s.log.Error("background job failed", zap.String("job", j.Name), zap.Error(err))
	}
}
