// Package scheduler runs the periodic subscription billing sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/aurora/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const sweepTimeout = 5 * time.Minute

// Sweeper performs one billing sweep.
type Sweeper interface {
	RunBillingSweep(ctx context.Context) (*service.BillingReport, error)
}

// Scheduler triggers the billing sweep on a cron schedule evaluated in UTC.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	log     *logrus.Logger
}

// New parses spec, a standard five-field cron expression or descriptor such
// as "@daily", and registers the sweep. Overlapping runs are skipped.
func New(spec string, sweeper Sweeper, log *logrus.Logger) (*Scheduler, error) {
	cl := cronLogger{log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		sweeper: sweeper,
		log:     log,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid billing schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Billing scheduler started")
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.log.Info("Billing scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Billing scheduler stop timed out")
	}
}

// RunOnce performs a sweep immediately, outside the schedule.
func (s *Scheduler) RunOnce(ctx context.Context) (*service.BillingReport, error) {
	return s.sweeper.RunBillingSweep(ctx)
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	if _, err := s.sweeper.RunBillingSweep(ctx); err != nil {
		s.log.Errorf("Billing sweep failed: %v", err)
	}
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log *logrus.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).WithError(err).Error("cron: " + msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
