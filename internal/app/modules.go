package app

import (
	"os"

	"github.com/Funnel-Builder/people-pulse/internal/attendance"
	"github.com/Funnel-Builder/people-pulse/internal/bootstrap"
	"github.com/Funnel-Builder/people-pulse/internal/calendar"
	"github.com/Funnel-Builder/people-pulse/internal/department"
	"github.com/Funnel-Builder/people-pulse/internal/employee"
	"github.com/Funnel-Builder/people-pulse/internal/jobs"
	"github.com/Funnel-Builder/people-pulse/internal/leave"
	"github.com/Funnel-Builder/people-pulse/internal/leavebalance"
	"github.com/Funnel-Builder/people-pulse/internal/messaging/kafka"
	"github.com/Funnel-Builder/people-pulse/internal/notification"
	"github.com/Funnel-Builder/people-pulse/internal/rbac"
	"github.com/Funnel-Builder/people-pulse/internal/rbac/infra"
	"github.com/Funnel-Builder/people-pulse/internal/shared/counter"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"
)

// modules is the dependency graph shared by the API and the job binaries.
type modules struct {
	clock dateutil.Clock

	rbac       rbac.Service
	employees  employee.Service
	attendance attendance.Service
	holidays   calendar.Service
	balances   leavebalance.Service
	leaves     leave.Service
	runner     *jobs.Runner
}

func buildModules(in *Infra) (*modules, error) {
	cfg := in.Config
	logger := in.Logger
	clock := dateutil.SystemClock(cfg.Location)

	// --- RBAC ---
	var rawPolicy []byte
	if path := os.Getenv("RBAC_POLICY_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		rawPolicy = b
	}
	rbacRepo, err := rbac.NewRepository(rawPolicy)
	if err != nil {
		return nil, err
	}
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Notifications ---
	var notifiers notification.Multi
	notifiers = append(notifiers, notification.NewOutboxNotifier(kafka.NewOutboxRepository(in.SQL)))
	var slack *notification.SlackAlerter
	if cfg.Slack.Enabled() {
		slack = notification.NewSlack(cfg.Slack.BotToken, notification.SlackOption{
			InfoChannelID:  cfg.Slack.InfoChannelID,
			ErrorChannelID: cfg.Slack.ErrorChannelID,
		})
		notifiers = append(notifiers, slack)
	}

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(in.GormDB)
	balanceRepo := leavebalance.NewRepository(in.GormDB)
	counterRepo := counter.NewRepository(in.GormDB)
	departmentRepo := department.NewRepository(in.GormDB)
	employeeRepo := employee.NewRepository(in.GormDB)
	holidayRepo := calendar.NewRepository(in.GormDB)
	leaveRepo := leave.NewRepository(in.GormDB)

	// --- Services ---
	region, err := calendar.NewRegionCalendar(cfg.HolidayRegion)
	if err != nil {
		return nil, err
	}
	holidayService := calendar.NewService(holidayRepo, region, cfg.Location, logger)
	employeeService := employee.NewService(in.SQL, employeeRepo, departmentRepo, in.Redis, logger)
	attendanceService := attendance.NewService(in.SQL, attendanceRepo, employeeRepo, cfg.LeavePolicy.Office, clock, logger)
	batch := attendance.NewBatch(in.SQL, attendanceRepo, employeeRepo, holidayService, leaveRepo, notifiers, clock, logger)
	balanceService := leavebalance.NewService(in.SQL, balanceRepo, employeeRepo, logger)
	accrual := leavebalance.NewCalculator(balanceRepo, employeeRepo, attendanceRepo, clock, logger)
	leaveService := leave.NewService(
		in.SQL,
		leaveRepo,
		balanceRepo,
		counterRepo,
		employeeService,
		notifiers,
		cfg.LeavePolicy,
		clock,
		logger,
	)

	// --- Jobs ---
	registry := jobs.NewDefaultRegistry(jobs.Deps{
		Accrual:    accrual,
		Attendance: batch,
		Employees:  employeeService,
	})
	opts := jobs.RunnerOptions{Owner: owner(), Clock: clock}
	if slack != nil {
		opts.Alerter = slack
	}
	runner := jobs.NewRunner(registry, in.Redis, bootstrap.NewStdoutAuditLogger(logger), opts, logger)

	return &modules{
		clock:      clock,
		rbac:       rbacService,
		employees:  employeeService,
		attendance: attendanceService,
		holidays:   holidayService,
		balances:   balanceService,
		leaves:     leaveService,
		runner:     runner,
	}, nil
}

func owner() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "people-pulse"
	}
	return host
}
