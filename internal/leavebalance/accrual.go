package leavebalance

import (
	"context"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/employee"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QualifyingDays counts an employee's non-absent attendance records in
// [from, to].
type QualifyingDays interface {
	CountQualifyingDays(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (int64, error)
}

// AccrualWindow returns the inclusive date range still to be counted for b
// in year as of today. Today itself is never inside the window: its
// attendance is still being written. LastAccrualDate is the end of the last
// credited window, so the window opens the day after it. ok is false when
// the range is empty.
func AccrualWindow(b LeaveBalance, joining time.Time, year int, today time.Time) (from, to time.Time, ok bool) {
	loc := today.Location()
	jan1, dec31 := dateutil.YearBounds(year, loc)

	from = dateutil.MaxDate(dateutil.Day(joining.In(loc)), jan1)
	if b.LastAccrualDate != nil {
		from = dateutil.MaxDate(from, dateutil.Day(b.LastAccrualDate.In(loc)).AddDate(0, 0, 1))
	}
	to = dateutil.MinDate(dateutil.Day(today).AddDate(0, 0, -1), dec31)
	return from, to, !from.After(to)
}

// Earned converts qualifying days into whole leave days.
func Earned(days int64, threshold int) int64 {
	if threshold <= 0 || days <= 0 {
		return 0
	}
	return days / int64(threshold)
}

type AccrualRequest struct {
	EmployeeID *uuid.UUID
	Year       int
}

type AccrualEntry struct {
	BalanceID      string `json:"balance_id"`
	EmployeeID     string `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	LeaveType      string `json:"leave_type"`
	QualifyingDays int64  `json:"qualifying_days"`
	Earned         int64  `json:"earned"`
	NewBalance     string `json:"new_balance"`
}

type AccrualReport struct {
	Year      int            `json:"year"`
	AsOf      string         `json:"as_of"`
	Processed int            `json:"processed"`
	Credited  []AccrualEntry `json:"credited"`
	Unchanged int            `json:"unchanged"`
	Skipped   int            `json:"skipped"`
	Failed    []string       `json:"failed"`
}

func (r AccrualReport) Failures() int {
	return len(r.Failed)
}

// Calculator credits attendance-mode balances with the whole days earned
// since their last accrual. A run that finds nothing new changes nothing,
// so it can be repeated for the same or a later date.
type Calculator struct {
	repo      Repository
	employees employee.Repository
	days      QualifyingDays
	clock     dateutil.Clock
	logger    *zap.Logger
}

func NewCalculator(repo Repository, employees employee.Repository, days QualifyingDays, clock dateutil.Clock, logger ...*zap.Logger) *Calculator {
	l := zap.L().Named("leavebalance.accrual")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.accrual")
	}
	if clock == nil {
		clock = dateutil.SystemClock(time.UTC)
	}
	return &Calculator{repo: repo, employees: employees, days: days, clock: clock, logger: l}
}

// Accrue credits one balance. It returns the qualifying days it counted and
// the whole days earned, and is a no-op for balances outside attendance
// mode. last_accrual_date moves to the window end: yesterday for the
// current year, Dec 31 for a past one.
func (c *Calculator) Accrue(ctx context.Context, b LeaveBalance, joining time.Time, year int, today time.Time) (int64, int64, error) {
	if !b.AccruesFromAttendance() {
		return 0, 0, nil
	}
	from, to, ok := AccrualWindow(b, joining, year, today)
	if !ok {
		return 0, 0, nil
	}

	count, err := c.days.CountQualifyingDays(ctx, b.EmployeeID, from, to)
	if err != nil {
		return 0, 0, err
	}
	earned := Earned(count, *b.AttendanceDaysThreshold)
	if earned == 0 {
		// last_accrual_date stays put so partial progress is recounted
		// on the next run.
		return count, 0, nil
	}

	credited, err := c.repo.Credit(ctx, b, decimal.NewFromInt(earned), to)
	if err != nil {
		return count, 0, err
	}
	if !credited {
		c.logger.Warn("balance changed during accrual, skipped", zap.String("balance_id", b.ID.String()))
		return count, 0, nil
	}
	return count, earned, nil
}

// Run accrues every matching balance. Failures are isolated per balance
// and reported; they never stop the run.
func (c *Calculator) Run(ctx context.Context, req AccrualRequest) (AccrualReport, error) {
	today := dateutil.Today(c.clock)
	year := req.Year
	if year == 0 {
		year = today.Year()
	}
	report := AccrualReport{Year: year, AsOf: dateutil.Format(today)}

	balances, err := c.repo.FindAccruing(ctx, req.EmployeeID)
	if err != nil {
		c.logger.Error("failed to load accruing balances", zap.Error(err))
		return report, err
	}
	if len(balances) == 0 {
		c.logger.Info("no attendance-based balances to accrue", zap.Int("year", year))
		return report, nil
	}

	ids := make([]uuid.UUID, 0, len(balances))
	for _, b := range balances {
		ids = append(ids, b.EmployeeID)
	}
	staff, err := c.employees.FindByIDs(ctx, ids)
	if err != nil {
		c.logger.Error("failed to load employees", zap.Error(err))
		return report, err
	}
	byID := make(map[uuid.UUID]employee.Employee, len(staff))
	for _, e := range staff {
		byID[e.ID] = e
	}

	for _, b := range balances {
		report.Processed++
		e, ok := byID[b.EmployeeID]
		if !ok || e.JoiningDate == nil {
			c.logger.Warn("employee has no joining date, accrual skipped",
				zap.String("balance_id", b.ID.String()),
				zap.String("employee_id", b.EmployeeID.String()),
			)
			report.Skipped++
			continue
		}

		count, earned, err := c.Accrue(ctx, b, *e.JoiningDate, year, today)
		if err != nil {
			c.logger.Error("accrual failed", zap.String("balance_id", b.ID.String()), zap.Error(err))
			report.Failed = append(report.Failed, b.ID.String())
			continue
		}
		if earned == 0 {
			report.Unchanged++
			continue
		}

		entry := AccrualEntry{
			BalanceID:      b.ID.String(),
			EmployeeID:     e.ID.String(),
			EmployeeName:   e.FullName,
			QualifyingDays: count,
			Earned:         earned,
			NewBalance:     b.Balance.Add(decimal.NewFromInt(earned)).String(),
		}
		if b.LeaveType != nil {
			entry.LeaveType = b.LeaveType.Code
		}
		report.Credited = append(report.Credited, entry)
		c.logger.Info("leave accrued",
			zap.String("employee_id", entry.EmployeeID),
			zap.String("leave_type", entry.LeaveType),
			zap.Int64("qualifying_days", count),
			zap.Int64("earned", earned),
			zap.String("new_balance", entry.NewBalance),
		)
	}

	c.logger.Info("accrual completed",
		zap.Int("year", year),
		zap.Int("processed", report.Processed),
		zap.Int("credited", len(report.Credited)),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}
