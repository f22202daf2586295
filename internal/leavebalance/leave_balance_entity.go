package leavebalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AccrualManual     = "manual"
	AccrualAttendance = "attendance"
)

// LeaveBalance is unique per (employee_id, leave_type_id) and never deleted.
type LeaveBalance struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee_type"`
	LeaveTypeID             uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee_type"`
	Balance                 decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	Used                    decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	AccrualType             string          `gorm:"size:20;not null;default:manual"`
	AttendanceDaysThreshold *int
	LastAccrualDate         *time.Time `gorm:"type:date"`
	CreatedAt               time.Time
	UpdatedAt               time.Time

	LeaveType *LeaveType `gorm:"foreignKey:LeaveTypeID"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// Available is balance minus used, floored at zero.
func (b LeaveBalance) Available() decimal.Decimal {
	v := b.Balance.Sub(b.Used)
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

func (b LeaveBalance) CanCover(days decimal.Decimal) bool {
	return b.Available().GreaterThanOrEqual(days)
}

// AccruesFromAttendance reports whether the accrual calculator manages
// this balance.
func (b LeaveBalance) AccruesFromAttendance() bool {
	return b.AccrualType == AccrualAttendance && b.AttendanceDaysThreshold != nil && *b.AttendanceDaysThreshold > 0
}
