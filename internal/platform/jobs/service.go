package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const JobTabSweep = "tab_sweep"

type RunFunc func(context.Context) (any, error)

type Service struct {
	queue     chan job
	mu        sync.Mutex
	schedules []schedule
	started   bool
}

type job struct {
	Type string
	Run  RunFunc
}

type schedule struct {
	job      job
	interval time.Duration
}

func New() *Service {
	return &Service{queue: make(chan job, 32)}
}

// Every registers run to be enqueued each interval once Start is called.
// Non-positive intervals are ignored.
func (s *Service) Every(jobType string, interval time.Duration, run RunFunc) {
	if interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, schedule{job: job{Type: jobType, Run: run}, interval: interval})
}

// Start launches the worker and every registered schedule. They stop with ctx.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	schedules := append([]schedule(nil), s.schedules...)
	s.mu.Unlock()

	go s.worker(ctx)
	for _, sc := range schedules {
		go s.schedule(ctx, sc)
	}
}

func (s *Service) Enqueue(jobType string, run RunFunc) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) schedule(ctx context.Context, sc schedule) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sc.job.Type, sc.job.Run)
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	start := time.Now()
	result, err := j.Run(ctx)
	if err != nil {
		return nil, err
	}
	slog.Debug("job run finished", "jobType", j.Type, "durationMs", time.Since(start).Milliseconds(), "result", result)
	return result, nil
}
