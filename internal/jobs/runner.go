package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/bootstrap"
	joberrors "github.com/Funnel-Builder/people-pulse/internal/jobs/errors"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	lockPrefix     = "jobs:"
	defaultLockTTL = 23 * time.Hour
)

func LockKey(name, key string) string {
	return lockPrefix + name + ":" + key
}

// Alerter receives a message when a run fails or reports failed items.
type Alerter interface {
	Error(ctx context.Context, message string) error
}

type RunnerOptions struct {
	// Owner is stored as the lock value so a held lock can be traced to
	// the process that took it.
	Owner   string
	LockTTL time.Duration
	Alerter Alerter
	Clock   dateutil.Clock
}

// Runner executes registered jobs. A successful run keeps its lock until
// it expires, so a second trigger for the same key is refused; a failed
// run releases it for a retry.
type Runner struct {
	registry *Registry
	rdb      *redis.Client
	audit    bootstrap.AuditLogger
	opts     RunnerOptions
	logger   *zap.Logger
}

func NewRunner(registry *Registry, rdb *redis.Client, audit bootstrap.AuditLogger, opts RunnerOptions, logger ...*zap.Logger) *Runner {
	l := zap.L().Named("jobs.runner")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("jobs.runner")
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultLockTTL
	}
	if opts.Clock == nil {
		opts.Clock = dateutil.SystemClock(time.UTC)
	}
	if opts.Owner == "" {
		opts.Owner = "people-pulse"
	}
	if audit == nil {
		audit = bootstrap.NewStdoutAuditLogger(l)
	}
	return &Runner{registry: registry, rdb: rdb, audit: audit, opts: opts, logger: l}
}

func (r *Runner) Registry() *Registry {
	return r.registry
}

func (r *Runner) Run(ctx context.Context, name string, p Params) (Result, error) {
	job, err := r.registry.Get(name)
	if err != nil {
		r.logger.Warn("unknown job", zap.String("job", name))
		return nil, err
	}

	today := dateutil.Today(r.opts.Clock)
	if p.Date.IsZero() {
		p.Date = today
	}
	if p.Year == 0 {
		p.Year = today.Year()
	}

	key := LockKey(name, job.LockKey(p))
	locked := false
	if !p.Force && r.rdb != nil {
		ok, err := r.rdb.SetNX(ctx, key, r.opts.Owner, r.opts.LockTTL).Result()
		if err != nil {
			r.logger.Error("failed to take job lock", zap.String("job", name), zap.String("key", key), zap.Error(err))
			return nil, err
		}
		if !ok {
			r.logger.Warn("job locked", zap.String("job", name), zap.String("key", key))
			return nil, joberrors.ErrJobLocked
		}
		locked = true
	}

	r.logger.Info("job started",
		zap.String("job", name),
		zap.String("date", dateutil.Format(p.Date)),
		zap.Int("year", p.Year),
		zap.Bool("dry_run", p.DryRun),
	)
	start := time.Now()
	res, runErr := job.Run(ctx, p)
	elapsed := time.Since(start)

	failures := 0
	if res != nil {
		failures = res.Failures()
	}

	if locked && (runErr != nil || failures > 0) {
		if err := r.rdb.Del(ctx, key).Err(); err != nil {
			r.logger.Warn("failed to release job lock", zap.String("key", key), zap.Error(err))
		}
	}

	meta := map[string]any{
		"job":         name,
		"date":        dateutil.Format(p.Date),
		"year":        p.Year,
		"dry_run":     p.DryRun,
		"failures":    failures,
		"duration_ms": elapsed.Milliseconds(),
	}
	if p.EmployeeID != nil {
		meta["employee_id"] = p.EmployeeID.String()
	}
	if runErr != nil {
		meta["error"] = runErr.Error()
	}
	r.audit.Log(ctx, bootstrap.AuditLog{Action: "JOB_RUN", Message: name, Meta: meta})

	switch {
	case runErr != nil:
		r.logger.Error("job failed", zap.String("job", name), zap.Duration("elapsed", elapsed), zap.Error(runErr))
		r.alert(ctx, fmt.Sprintf(":x: job %s failed for %s: %v", name, dateutil.Format(p.Date), runErr))
	case failures > 0:
		r.logger.Error("job finished with failures",
			zap.String("job", name),
			zap.Int("failures", failures),
			zap.Duration("elapsed", elapsed),
			zap.Any("report", res),
		)
		r.alert(ctx, fmt.Sprintf(":warning: job %s for %s finished with %d failed item(s)", name, dateutil.Format(p.Date), failures))
	default:
		r.logger.Info("job finished", zap.String("job", name), zap.Duration("elapsed", elapsed), zap.Any("report", res))
	}
	return res, runErr
}

func (r *Runner) alert(ctx context.Context, message string) {
	if r.opts.Alerter == nil {
		return
	}
	if err := r.opts.Alerter.Error(ctx, message); err != nil {
		r.logger.Warn("job alert failed", zap.Error(err))
	}
}
