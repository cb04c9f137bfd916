package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher is anything that can be asked to reload its data.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler triggers periodic refreshes on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	target  Refresher
	timeout time.Duration
	logger  *zap.Logger
	entry   cron.EntryID
}

// NewScheduler validates the schedule (standard five-field or @every
// descriptors) and registers the refresh job.
func NewScheduler(schedule string, target Refresher, logger *zap.Logger) (*Scheduler, error) {
	if target == nil {
		return nil, fmt.Errorf("datasource: scheduler requires a refresh target")
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("datasource: invalid refresh schedule %q: %w", schedule, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:    cron.New(),
		target:  target,
		timeout: defaultLoadTimeout,
		logger:  logger,
	}
	id, err := s.cron.AddFunc(schedule, s.Trigger)
	if err != nil {
		return nil, fmt.Errorf("datasource: register refresh job: %w", err)
	}
	s.entry = id
	return s, nil
}

// Trigger runs one refresh immediately.
func (s *Scheduler) Trigger() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.target.Refresh(ctx); err != nil {
		s.logger.Warn("scheduled refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled refresh completed")
}

// Next reports when the job fires next; zero until Start is called.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running refresh or ctx expiry.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
