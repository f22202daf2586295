package leavebalance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/employee"
	"github.com/Funnel-Builder/people-pulse/internal/leavebalance"

	attendanceMock "github.com/Funnel-Builder/people-pulse/internal/attendance/mock"
	employeeMock "github.com/Funnel-Builder/people-pulse/internal/employee/mock"
	leavebalanceMock "github.com/Funnel-Builder/people-pulse/internal/leavebalance/mock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// accrualDeps backs the calculator with mocks that share one in-memory
// view of balances and attendance, so consecutive runs see each other's
// writes.
type accrualDeps struct {
	repo      *leavebalanceMock.MockRepository
	employees *employeeMock.MockRepository
	days      *attendanceMock.MockRepository

	balances  []*leavebalance.LeaveBalance
	attended  map[uuid.UUID][]time.Time
	creditErr map[uuid.UUID]error
	credits   int
}

func setupAccrualTest(t *testing.T, staff []employee.Employee, balances ...*leavebalance.LeaveBalance) *accrualDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &accrualDeps{
		repo:      leavebalanceMock.NewMockRepository(ctrl),
		employees: employeeMock.NewMockRepository(ctrl),
		days:      attendanceMock.NewMockRepository(ctrl),
		balances:  balances,
		attended:  map[uuid.UUID][]time.Time{},
		creditErr: map[uuid.UUID]error{},
	}

	d.repo.EXPECT().FindAccruing(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, employeeID *uuid.UUID) ([]leavebalance.LeaveBalance, error) {
			var out []leavebalance.LeaveBalance
			for _, b := range d.balances {
				if b.AccruesFromAttendance() && (employeeID == nil || *employeeID == b.EmployeeID) {
					out = append(out, *b)
				}
			}
			return out, nil
		}).AnyTimes()

	d.repo.EXPECT().Credit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, b leavebalance.LeaveBalance, earned decimal.Decimal, asOf time.Time) (bool, error) {
			if err := d.creditErr[b.ID]; err != nil {
				return false, err
			}
			for _, cur := range d.balances {
				if cur.ID != b.ID {
					continue
				}
				if (cur.LastAccrualDate == nil) != (b.LastAccrualDate == nil) ||
					(cur.LastAccrualDate != nil && !cur.LastAccrualDate.Equal(*b.LastAccrualDate)) {
					return false, nil
				}
				d.credits++
				cur.Balance = cur.Balance.Add(earned)
				cur.LastAccrualDate = &asOf
				return true, nil
			}
			return false, nil
		}).AnyTimes()

	d.employees.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return(staff, nil).AnyTimes()

	d.days.EXPECT().CountQualifyingDays(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (int64, error) {
			var n int64
			for _, day := range d.attended[employeeID] {
				if !day.Before(from) && !day.After(to) {
					n++
				}
			}
			return n, nil
		}).AnyTimes()

	return d
}

func (d *accrualDeps) calculator(now time.Time) *leavebalance.Calculator {
	return leavebalance.NewCalculator(d.repo, d.employees, d.days, func() time.Time { return now })
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// consecutiveDays returns n dates starting at from.
func consecutiveDays(from time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, from.AddDate(0, 0, i))
	}
	return out
}

func attendanceBalance(employeeID uuid.UUID, threshold int) *leavebalance.LeaveBalance {
	return &leavebalance.LeaveBalance{
		ID:                      uuid.New(),
		EmployeeID:              employeeID,
		LeaveTypeID:             uuid.New(),
		Balance:                 decimal.Zero,
		Used:                    decimal.Zero,
		AccrualType:             leavebalance.AccrualAttendance,
		AttendanceDaysThreshold: &threshold,
		LeaveType:               &leavebalance.LeaveType{Code: "earned"},
	}
}

func ptr[T any](v T) *T { return &v }

func TestEarned_Floors(t *testing.T) {
	assert.Equal(t, int64(2), leavebalance.Earned(23, 10))
	assert.Equal(t, int64(0), leavebalance.Earned(9, 10))
	assert.Equal(t, int64(2), leavebalance.Earned(41, 20))
	assert.Equal(t, int64(0), leavebalance.Earned(5, 0))
}

func TestAccrualWindow(t *testing.T) {
	today := date(2026, 3, 1)
	yesterday := date(2026, 2, 28)

	t.Run("first run starts at joining and stops before today", func(t *testing.T) {
		from, to, ok := leavebalance.AccrualWindow(leavebalance.LeaveBalance{}, date(2026, 1, 10), 2026, today)
		require.True(t, ok)
		assert.Equal(t, date(2026, 1, 10), from)
		assert.Equal(t, yesterday, to)
	})

	t.Run("clamped to the requested year", func(t *testing.T) {
		from, to, ok := leavebalance.AccrualWindow(leavebalance.LeaveBalance{}, date(2020, 5, 1), 2025, today)
		require.True(t, ok)
		assert.Equal(t, date(2025, 1, 1), from)
		assert.Equal(t, date(2025, 12, 31), to)
	})

	t.Run("opens the day after the last accrual", func(t *testing.T) {
		last := date(2026, 2, 1)
		from, _, ok := leavebalance.AccrualWindow(leavebalance.LeaveBalance{LastAccrualDate: &last}, date(2020, 5, 1), 2026, today)
		require.True(t, ok)
		assert.Equal(t, date(2026, 2, 2), from)
	})

	t.Run("empty when accrued through yesterday", func(t *testing.T) {
		_, _, ok := leavebalance.AccrualWindow(leavebalance.LeaveBalance{LastAccrualDate: &yesterday}, date(2020, 5, 1), 2026, today)
		assert.False(t, ok)
	})

	t.Run("empty on new year's day", func(t *testing.T) {
		_, _, ok := leavebalance.AccrualWindow(leavebalance.LeaveBalance{}, date(2020, 5, 1), 2026, date(2026, 1, 1))
		assert.False(t, ok)
	})
}

func TestCalculator_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("floor of qualifying days over threshold", func(t *testing.T) {
		emp := employee.Employee{ID: uuid.New(), FullName: "Nadia Islam", JoiningDate: ptr(date(2025, 6, 1))}
		b := attendanceBalance(emp.ID, 10)
		deps := setupAccrualTest(t, []employee.Employee{emp}, b)
		deps.attended[emp.ID] = consecutiveDays(date(2026, 1, 5), 23)

		report, err := deps.calculator(date(2026, 3, 1).Add(2*time.Hour)).Run(ctx, leavebalance.AccrualRequest{})
		require.NoError(t, err)
		require.Len(t, report.Credited, 1)
		assert.Equal(t, int64(23), report.Credited[0].QualifyingDays)
		assert.Equal(t, int64(2), report.Credited[0].Earned)
		assert.True(t, decimal.NewFromInt(2).Equal(b.Balance))
	})

	t.Run("second run credits nothing", func(t *testing.T) {
		emp := employee.Employee{ID: uuid.New(), JoiningDate: ptr(date(2025, 6, 1))}
		b := attendanceBalance(emp.ID, 1)
		deps := setupAccrualTest(t, []employee.Employee{emp}, b)
		deps.attended[emp.ID] = consecutiveDays(date(2026, 2, 20), 9)
		calc := deps.calculator(date(2026, 3, 1))

		first, err := calc.Run(ctx, leavebalance.AccrualRequest{})
		require.NoError(t, err)
		require.Len(t, first.Credited, 1)
		balanceAfterFirst := b.Balance

		second, err := calc.Run(ctx, leavebalance.AccrualRequest{})
		require.NoError(t, err)
		assert.Empty(t, second.Credited)
		assert.Equal(t, 1, second.Unchanged)
		assert.True(t, balanceAfterFirst.Equal(b.Balance))
		assert.Equal(t, 1, deps.credits)
	})

	t.Run("run day attendance is counted by the next run", func(t *testing.T) {
		emp := employee.Employee{ID: uuid.New(), JoiningDate: ptr(date(2026, 2, 1))}
		b := attendanceBalance(emp.ID, 1)
		deps := setupAccrualTest(t, []employee.Employee{emp}, b)
		deps.attended[emp.ID] = consecutiveDays(date(2026, 2, 20), 9)

		_, err := deps.calculator(date(2026, 3, 1)).Run(ctx, leavebalance.AccrualRequest{})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(9).Equal(b.Balance))
		require.NotNil(t, b.LastAccrualDate)
		assert.Equal(t, date(2026, 2, 28), *b.LastAccrualDate)

		// The midnight run is over before anyone clocks in on Mar 1.
		deps.attended[emp.ID] = append(deps.attended[emp.ID], date(2026, 3, 1))

		report, err := deps.calculator(date(2026, 3, 2)).Run(ctx, leavebalance.AccrualRequest{})
		require.NoError(t, err)
		require.Len(t, report.Credited, 1)
		assert.Equal(t, int64(1), report.Credited[0].QualifyingDays)
		assert.True(t, decimal.NewFromInt(10).Equal(b.Balance))
		assert.Equal(t, date(2026, 3, 1), *b.LastAccrualDate)

		again, err := deps.calculator(date(2026, 3, 2)).Run(ctx, leavebalance.AccrualRequest{})
		require.NoError(t, err)
		assert.Empty(t, again.Credited)
		assert.True(t, decimal.NewFromInt(10).Equal(b.Balance))
	})

	t.Run("partial progress is kept", func(t *testing.T) {
		emp := employee.Employee{ID: uuid.New(), JoiningDate: ptr(date(2025, 6, 1))}
		b := attendanceBalance(emp.ID, 10)
		deps := setupAccrualTest(t, []employee.Employee{emp}, b)
		deps.attended[emp.ID] = consecutiveDays(date(2026, 2, 1), 7)

		report, err := deps.calculator(date(2026, 3, 1)).Run(ctx, leavebalance.AccrualRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Unchanged)
		assert.Nil(t, b.LastAccrualDate)
		assert.True(t, b.Balance.IsZero())
	})

	t.Run("joined mid january with threshold twenty", func(t *testing.T) {
		emp := employee.Employee{ID: uuid.New(), JoiningDate: ptr(date(2026, 1, 10))}
		b := attendanceBalance(emp.ID, 20)
		deps := setupAccrualTest(t, []employee.Employee{emp}, b)
		// Three days before joining must not be counted.
		deps.attended[emp.ID] = append(consecutiveDays(date(2026, 1, 7), 3), consecutiveDays(date(2026, 1, 10), 41)...)

		report, err := deps.calculator(date(2026, 3, 1)).Run(ctx, leavebalance.AccrualRequest{Year: 2026})
		require.NoError(t, err)
		require.Len(t, report.Credited, 1)
		assert.Equal(t, int64(41), report.Credited[0].QualifyingDays)
		assert.Equal(t, int64(2), report.Credited[0].Earned)
		require.NotNil(t, b.LastAccrualDate)
		assert.Equal(t, date(2026, 2, 28), *b.LastAccrualDate)
	})

	t.Run("past year closes on december 31", func(t *testing.T) {
		emp := employee.Employee{ID: uuid.New(), JoiningDate: ptr(date(2024, 3, 1))}
		b := attendanceBalance(emp.ID, 5)
		deps := setupAccrualTest(t, []employee.Employee{emp}, b)
		deps.attended[emp.ID] = consecutiveDays(date(2025, 12, 20), 20)

		report, err := deps.calculator(date(2026, 3, 1)).Run(ctx, leavebalance.AccrualRequest{Year: 2025})
		require.NoError(t, err)
		require.Len(t, report.Credited, 1)
		assert.Equal(t, int64(12), report.Credited[0].QualifyingDays)
		require.NotNil(t, b.LastAccrualDate)
		assert.Equal(t, date(2025, 12, 31), *b.LastAccrualDate)
	})

	t.Run("failures and missing joining dates are isolated", func(t *testing.T) {
		noJoin := employee.Employee{ID: uuid.New()}
		broken := employee.Employee{ID: uuid.New(), JoiningDate: ptr(date(2025, 1, 1))}
		fine := employee.Employee{ID: uuid.New(), JoiningDate: ptr(date(2025, 1, 1))}
		bNoJoin, bBroken, bFine := attendanceBalance(noJoin.ID, 1), attendanceBalance(broken.ID, 1), attendanceBalance(fine.ID, 1)

		deps := setupAccrualTest(t, []employee.Employee{noJoin, broken, fine}, bNoJoin, bBroken, bFine)
		deps.creditErr[bBroken.ID] = errors.New("serialization failure")
		deps.attended[broken.ID] = consecutiveDays(date(2026, 2, 1), 3)
		deps.attended[fine.ID] = consecutiveDays(date(2026, 2, 1), 3)

		report, err := deps.calculator(date(2026, 3, 1)).Run(ctx, leavebalance.AccrualRequest{})
		require.NoError(t, err)
		assert.Equal(t, 3, report.Processed)
		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, []string{bBroken.ID.String()}, report.Failed)
		assert.Equal(t, 1, report.Failures())
		require.Len(t, report.Credited, 1)
		assert.Equal(t, fine.ID.String(), report.Credited[0].EmployeeID)
	})
}

func TestCalculator_Accrue_ManualIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	calc := leavebalance.NewCalculator(
		leavebalanceMock.NewMockRepository(ctrl),
		employeeMock.NewMockRepository(ctrl),
		attendanceMock.NewMockRepository(ctrl),
		nil,
	)

	_, earned, err := calc.Accrue(context.Background(), leavebalance.LeaveBalance{AccrualType: leavebalance.AccrualManual}, date(2025, 1, 1), 2026, date(2026, 3, 1))
	require.NoError(t, err)
	assert.Zero(t, earned)
}
