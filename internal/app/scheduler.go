package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Funnel-Builder/people-pulse/internal/jobs"
)

// BuildJobs returns the job runner for one-off runs from the CLI.
func BuildJobs(in *Infra) (*jobs.Runner, error) {
	m, err := buildModules(in)
	if err != nil {
		return nil, err
	}
	return m.runner, nil
}

// RunScheduler triggers the configured jobs on their cron specs until
// SIGINT or SIGTERM, then waits for running jobs to finish.
func RunScheduler(in *Infra) error {
	logger := in.Logger.Named("app.scheduler")

	runner, err := BuildJobs(in)
	if err != nil {
		return err
	}
	sched, err := jobs.NewScheduler(runner, in.Config.LeavePolicy.Schedule, in.Config.Location, in.Logger)
	if err != nil {
		return err
	}
	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("scheduler shutting down")
	sched.Stop()

	return nil
}
