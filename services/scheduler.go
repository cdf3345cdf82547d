package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bellapacxx/sandbox-backend/utils/logger"
	"github.com/robfig/cron/v3"
)

const jobTimeout = time.Minute

// Scheduler runs the registry maintenance jobs: the daily eviction sweep
// and the periodic write-back of dirty rooms.
type Scheduler struct {
	cron     *cron.Cron
	registry *Registry
}

// NewScheduler registers the sweep at schedule (standard five-field cron) in
// loc, and a flush every flushEvery when it is positive.
func NewScheduler(registry *Registry, schedule string, loc *time.Location, flushEvery time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		registry: registry,
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("eviction schedule %q: %w", schedule, err)
	}
	if flushEvery > 0 {
		if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", flushEvery), s.Flush); err != nil {
			return nil, fmt.Errorf("flush interval %s: %w", flushEvery, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish and writes back any dirty rooms.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.Flush()
}

// Entries is the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	n, err := s.registry.Sweep(ctx)
	if err != nil {
		logger.Errorf("[Scheduler] eviction skipped: %v", err)
		return
	}
	logger.Infof("[Scheduler] evicted %d room(s), %d live", n, s.registry.Len())
}

func (s *Scheduler) Flush() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	n, err := s.registry.Flush(ctx)
	if err != nil {
		logger.Errorf("[Scheduler] write-back failed: %v", err)
	}
	if n > 0 {
		logger.Debugf("[Scheduler] wrote back %d room(s)", n)
	}
}
