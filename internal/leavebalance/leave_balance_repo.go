package leavebalance

import (
	"context"
	"database/sql"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/dbtx"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_balance_repo.go -destination=mock/leave_balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindActiveTypes(ctx context.Context) ([]LeaveType, error)
	FindTypeByCode(ctx context.Context, code string) (*LeaveType, error)
	FindTypeByID(ctx context.Context, id uuid.UUID) (*LeaveType, error)
	GetOrCreate(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (*LeaveBalance, error)
	Deduct(ctx context.Context, id uuid.UUID, days decimal.Decimal) (bool, error)
	SaveSettings(ctx context.Context, b *LeaveBalance) error
	FindAccruing(ctx context.Context, employeeID *uuid.UUID) ([]LeaveBalance, error)
	Credit(ctx context.Context, b LeaveBalance, earned decimal.Decimal, asOf time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) FindActiveTypes(ctx context.Context) ([]LeaveType, error) {
	var rows []LeaveType
	err := r.conn(ctx).Where("is_active = ?", true).Order("name").Find(&rows).Error
	return rows, err
}

func (r *repository) FindTypeByCode(ctx context.Context, code string) (*LeaveType, error) {
	var t LeaveType
	if err := r.conn(ctx).Where("code = ? AND is_active = ?", code, true).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindTypeByID(ctx context.Context, id uuid.UUID) (*LeaveType, error) {
	var t LeaveType
	if err := r.conn(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetOrCreate returns the (employee, leave type) balance, inserting an empty
// manual one first when none exists. Concurrent callers converge on the
// same row through the unique index.
func (r *repository) GetOrCreate(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (*LeaveBalance, error) {
	fresh := LeaveBalance{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Balance:     decimal.Zero,
		Used:        decimal.Zero,
		AccrualType: AccrualManual,
	}
	err := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "leave_type_id"}},
			DoNothing: true,
		}).
		Create(&fresh).Error
	if err != nil {
		return nil, err
	}

	var b LeaveBalance
	err = r.conn(ctx).
		Preload("LeaveType").
		Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Deduct adds days to used only while the available amount covers them.
// It reports false, leaving the row untouched, when it does not.
func (r *repository) Deduct(ctx context.Context, id uuid.UUID, days decimal.Decimal) (bool, error) {
	res := r.conn(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", id).
		Where("balance - used >= ?", days).
		Updates(map[string]any{
			"used":       gorm.Expr("used + ?", days),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) SaveSettings(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"balance":                   b.Balance,
			"accrual_type":              b.AccrualType,
			"attendance_days_threshold": b.AttendanceDaysThreshold,
			"updated_at":                time.Now().UTC(),
		}).Error
}

// FindAccruing lists attendance-mode balances with a positive threshold,
// optionally for one employee.
func (r *repository) FindAccruing(ctx context.Context, employeeID *uuid.UUID) ([]LeaveBalance, error) {
	var rows []LeaveBalance
	db := r.conn(ctx).
		Preload("LeaveType").
		Where("accrual_type = ?", AccrualAttendance).
		Where("attendance_days_threshold > 0")
	if employeeID != nil {
		db = db.Where("employee_id = ?", *employeeID)
	}
	err := db.Order("employee_id").Find(&rows).Error
	return rows, err
}

// Credit adds earned to the balance and moves last_accrual_date to asOf,
// provided last_accrual_date still holds the value b was read with. A
// concurrent run that already credited the same window makes it a no-op.
func (r *repository) Credit(ctx context.Context, b LeaveBalance, earned decimal.Decimal, asOf time.Time) (bool, error) {
	db := r.conn(ctx).Model(&LeaveBalance{}).Where("id = ?", b.ID)
	if b.LastAccrualDate == nil {
		db = db.Where("last_accrual_date IS NULL")
	} else {
		db = db.Where("last_accrual_date = ?", b.LastAccrualDate.Format(time.DateOnly))
	}
	res := db.Updates(map[string]any{
		"balance":           gorm.Expr("balance + ?", earned),
		"last_accrual_date": asOf.Format(time.DateOnly),
		"updated_at":        time.Now().UTC(),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
