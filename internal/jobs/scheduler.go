package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger adapts zap to cron's logger interface.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Scheduler triggers jobs from cron specs (with a seconds field) keyed by
// job name.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	logger *zap.Logger
}

func NewScheduler(runner *Runner, specs map[string]string, loc *time.Location, logger ...*zap.Logger) (*Scheduler, error) {
	l := zap.L().Named("jobs.scheduler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("jobs.scheduler")
	}
	if loc == nil {
		loc = time.UTC
	}

	cl := cronLogger{s: l.Sugar()}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	s := &Scheduler{cron: c, runner: runner, logger: l}

	for name, spec := range specs {
		if _, err := runner.Registry().Get(name); err != nil {
			return nil, fmt.Errorf("schedule %q: %w", name, err)
		}
		if _, err := c.AddFunc(spec, s.trigger(name)); err != nil {
			return nil, fmt.Errorf("schedule %q with %q: %w", name, spec, err)
		}
		l.Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
	}
	return s, nil
}

func (s *Scheduler) trigger(name string) func() {
	return func() {
		// Errors are already logged, audited and alerted by the runner.
		_, _ = s.runner.Run(context.Background(), name, Params{})
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("entries", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
