package leavebalance_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Funnel-Builder/people-pulse/internal/employee"
	employeeerrors "github.com/Funnel-Builder/people-pulse/internal/employee/errors"
	"github.com/Funnel-Builder/people-pulse/internal/leavebalance"
	leavebalanceerrors "github.com/Funnel-Builder/people-pulse/internal/leavebalance/errors"

	employeeMock "github.com/Funnel-Builder/people-pulse/internal/employee/mock"
	leavebalanceMock "github.com/Funnel-Builder/people-pulse/internal/leavebalance/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func TestLeaveBalanceService_Mine_CreatesLazily(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := leavebalanceMock.NewMockRepository(ctrl)
	emp := uuid.New()
	casual := leavebalance.LeaveType{ID: uuid.New(), Code: "casual", Name: "Casual"}
	sick := leavebalance.LeaveType{ID: uuid.New(), Code: "sick", Name: "Sick"}

	existing := &leavebalance.LeaveBalance{
		ID:          uuid.New(),
		EmployeeID:  emp,
		LeaveTypeID: casual.ID,
		Balance:     decimal.NewFromInt(10),
		Used:        decimal.NewFromInt(12),
		AccrualType: leavebalance.AccrualManual,
	}
	created := &leavebalance.LeaveBalance{ID: uuid.New(), EmployeeID: emp, LeaveTypeID: sick.ID, AccrualType: leavebalance.AccrualManual}

	repo.EXPECT().FindActiveTypes(gomock.Any()).Return([]leavebalance.LeaveType{casual, sick}, nil)
	repo.EXPECT().GetOrCreate(gomock.Any(), emp, casual.ID).Return(existing, nil)
	repo.EXPECT().GetOrCreate(gomock.Any(), emp, sick.ID).Return(created, nil)

	svc := leavebalance.NewService(nil, repo, employeeMock.NewMockRepository(ctrl))
	resp, err := svc.Mine(context.Background(), emp)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "casual", resp[0].LeaveType.Code)
	assert.True(t, resp[0].Available.IsZero(), "available never goes below zero")
	assert.Equal(t, "sick", resp[1].LeaveType.Code)
	assert.True(t, resp[1].Balance.IsZero())
}

func TestLeaveBalanceService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	emp := &employee.Employee{ID: uuid.New()}
	earned := &leavebalance.LeaveType{ID: uuid.New(), Code: "earned", Name: "Earned"}

	type deps struct {
		sqlMock   sqlmock.Sqlmock
		repo      *leavebalanceMock.MockRepository
		employees *employeeMock.MockRepository
		service   leavebalance.Service
	}
	setup := func(t *testing.T) deps {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		ctrl := gomock.NewController(t)
		d := deps{
			sqlMock:   mock,
			repo:      leavebalanceMock.NewMockRepository(ctrl),
			employees: employeeMock.NewMockRepository(ctrl),
		}
		d.service = leavebalance.NewService(db, d.repo, d.employees)
		return d
	}
	// expectSave wires the lookups and the transactional write, returning
	// what SaveSettings received.
	expectSave := func(d deps) *leavebalance.LeaveBalance {
		saved := &leavebalance.LeaveBalance{}
		d.employees.EXPECT().FindByID(gomock.Any(), emp.ID).Return(emp, nil)
		d.repo.EXPECT().FindTypeByID(gomock.Any(), earned.ID).Return(earned, nil)
		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().WithTx(gomock.Any()).DoAndReturn(func(tx *sql.Tx) leavebalance.Repository { return d.repo })
		d.repo.EXPECT().GetOrCreate(gomock.Any(), emp.ID, earned.ID).Return(&leavebalance.LeaveBalance{
			ID:          uuid.New(),
			EmployeeID:  emp.ID,
			LeaveTypeID: earned.ID,
			Balance:     decimal.NewFromInt(4),
			AccrualType: leavebalance.AccrualManual,
		}, nil)
		d.repo.EXPECT().SaveSettings(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			*saved = *b
			return nil
		})
		d.sqlMock.ExpectCommit()
		return saved
	}

	t.Run("manual overrides balance", func(t *testing.T) {
		d := setup(t)
		saved := expectSave(d)
		bal := decimal.RequireFromString("12.5")

		resp, err := d.service.UpdateSettings(ctx, emp.ID, earned.ID, leavebalance.UpdateSettingsRequest{AccrualType: leavebalance.AccrualManual, Balance: &bal})
		require.NoError(t, err)
		assert.True(t, bal.Equal(resp.Balance))
		assert.True(t, bal.Equal(saved.Balance))
		assert.Nil(t, resp.AttendanceDaysThreshold)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("attendance keeps balance and sets threshold", func(t *testing.T) {
		d := setup(t)
		saved := expectSave(d)
		threshold := 20

		resp, err := d.service.UpdateSettings(ctx, emp.ID, earned.ID, leavebalance.UpdateSettingsRequest{AccrualType: leavebalance.AccrualAttendance, AttendanceDaysThreshold: &threshold})
		require.NoError(t, err)
		assert.Equal(t, leavebalance.AccrualAttendance, resp.AccrualType)
		assert.Equal(t, 20, *resp.AttendanceDaysThreshold)
		assert.True(t, decimal.NewFromInt(4).Equal(saved.Balance))
	})

	t.Run("attendance needs threshold", func(t *testing.T) {
		d := setup(t)
		_, err := d.service.UpdateSettings(ctx, emp.ID, earned.ID, leavebalance.UpdateSettingsRequest{AccrualType: leavebalance.AccrualAttendance})
		assert.ErrorIs(t, err, leavebalanceerrors.ErrThresholdRequired)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative balance", func(t *testing.T) {
		d := setup(t)
		neg := decimal.NewFromInt(-1)
		_, err := d.service.UpdateSettings(ctx, emp.ID, earned.ID, leavebalance.UpdateSettingsRequest{AccrualType: leavebalance.AccrualManual, Balance: &neg})
		assert.ErrorIs(t, err, leavebalanceerrors.ErrNegativeBalance)
	})

	t.Run("unknown leave type", func(t *testing.T) {
		d := setup(t)
		unknown := uuid.New()
		d.employees.EXPECT().FindByID(gomock.Any(), emp.ID).Return(emp, nil)
		d.repo.EXPECT().FindTypeByID(gomock.Any(), unknown).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.UpdateSettings(ctx, emp.ID, unknown, leavebalance.UpdateSettingsRequest{AccrualType: leavebalance.AccrualManual})
		assert.ErrorIs(t, err, leavebalanceerrors.ErrLeaveTypeNotFound)
	})

	t.Run("unknown employee", func(t *testing.T) {
		d := setup(t)
		stranger := uuid.New()
		d.employees.EXPECT().FindByID(gomock.Any(), stranger).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.UpdateSettings(ctx, stranger, earned.ID, leavebalance.UpdateSettingsRequest{AccrualType: leavebalance.AccrualManual})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}
