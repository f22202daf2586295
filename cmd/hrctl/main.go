// Command hrctl runs one batch job and exits non-zero when the run fails or
// reports failed items.
//
//	hrctl [flags] <job>
//	hrctl -list
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Funnel-Builder/people-pulse/internal/app"
	"github.com/Funnel-Builder/people-pulse/internal/bootstrap"
	"github.com/Funnel-Builder/people-pulse/internal/config"
	"github.com/Funnel-Builder/people-pulse/internal/jobs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		user   = flag.String("user", "", "restrict to one employee id")
		year   = flag.Int("year", 0, "accrual year (default: current year)")
		date   = flag.String("date", "", "target date YYYY-MM-DD (default: today)")
		dryRun = flag.Bool("dry-run", false, "report without writing")
		force  = flag.Bool("force", false, "run even if the job already ran for this key")
		list   = flag.Bool("list", false, "list jobs and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: hrctl [flags] <job>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	_ = godotenv.Load()
	logger, err := bootstrap.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config failed", zap.Error(err))
		return 1
	}
	in, err := app.Connect(cfg, true, logger)
	if err != nil {
		logger.Error("connect failed", zap.Error(err))
		return 1
	}
	defer in.Close()

	runner, err := app.BuildJobs(in)
	if err != nil {
		logger.Error("build jobs failed", zap.Error(err))
		return 1
	}

	if *list {
		reg := runner.Registry()
		for _, name := range reg.Names() {
			j, _ := reg.Get(name)
			fmt.Printf("%-36s %s\n", j.Name, j.Description)
		}
		return 0
	}
	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}

	p, err := jobs.ParseParams(*date, *year, *user, *dryRun, *force, cfg.Location)
	if err != nil {
		logger.Error("invalid flags", zap.Error(err))
		return 2
	}

	res, err := runner.Run(context.Background(), flag.Arg(0), p)
	if err != nil {
		logger.Error("job failed", zap.String("job", flag.Arg(0)), zap.Error(err))
		return 1
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
	if res.Failures() > 0 {
		return 1
	}
	return 0
}
