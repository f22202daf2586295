package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/attendance"
	"github.com/Funnel-Builder/people-pulse/internal/employee"
	"github.com/Funnel-Builder/people-pulse/internal/leavebalance"
)

type AccrualRunner interface {
	Run(ctx context.Context, req leavebalance.AccrualRequest) (leavebalance.AccrualReport, error)
}

type AttendanceBatch interface {
	MarkAbsent(ctx context.Context, day time.Time) (attendance.MarkReport, error)
	NotifyMissedClockIn(ctx context.Context, day time.Time) (attendance.ReminderReport, error)
	RemindClockOut(ctx context.Context, day time.Time) (attendance.ReminderReport, error)
	NotifyAdminsMissedClockOut(ctx context.Context, day time.Time) (attendance.ReminderReport, error)
}

type Deactivator interface {
	DeactivateSeparated(ctx context.Context, today time.Time, dryRun bool) (employee.DeactivationReport, error)
}

type Deps struct {
	Accrual    AccrualRunner
	Attendance AttendanceBatch
	Employees  Deactivator
}

// NewDefaultRegistry registers the daily batch operations.
func NewDefaultRegistry(d Deps) *Registry {
	r := NewRegistry()

	r.Register(Job{
		Name:        CalculateAccrual,
		Description: "Credit attendance-based leave balances with newly earned days",
		Run: func(ctx context.Context, p Params) (Result, error) {
			return d.Accrual.Run(ctx, leavebalance.AccrualRequest{EmployeeID: p.EmployeeID, Year: p.Year})
		},
		LockKey: func(p Params) string {
			user := "all"
			if p.EmployeeID != nil {
				user = p.EmployeeID.String()
			}
			return fmt.Sprintf("%d:%s:%s", p.Year, user, dateKey(p))
		},
	})

	r.Register(Job{
		Name:        MarkAbsent,
		Description: "Write leave or absent records for employees without attendance",
		Run: func(ctx context.Context, p Params) (Result, error) {
			return d.Attendance.MarkAbsent(ctx, p.Date)
		},
		LockKey: dateKey,
	})

	r.Register(Job{
		Name:        DeactivateSeparated,
		Description: "Deactivate employees whose closing date has passed",
		Run: func(ctx context.Context, p Params) (Result, error) {
			return d.Employees.DeactivateSeparated(ctx, p.Date, p.DryRun)
		},
		LockKey: func(p Params) string {
			if p.DryRun {
				return dateKey(p) + ":dry-run"
			}
			return dateKey(p)
		},
	})

	r.Register(Job{
		Name:        NotifyMissedClockIn,
		Description: "Remind employees who have not clocked in",
		Run: func(ctx context.Context, p Params) (Result, error) {
			return d.Attendance.NotifyMissedClockIn(ctx, p.Date)
		},
		LockKey: dateKey,
	})

	r.Register(Job{
		Name:        RemindClockOut,
		Description: "Remind employees who clocked in but not out",
		Run: func(ctx context.Context, p Params) (Result, error) {
			return d.Attendance.RemindClockOut(ctx, p.Date)
		},
		LockKey: dateKey,
	})

	r.Register(Job{
		Name:        NotifyMissedClockOut,
		Description: "Send admins the list of missing clock-outs",
		Run: func(ctx context.Context, p Params) (Result, error) {
			return d.Attendance.NotifyAdminsMissedClockOut(ctx, p.Date)
		},
		LockKey: dateKey,
	})

	return r
}
