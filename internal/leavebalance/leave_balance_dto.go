package leavebalance

import (
	"github.com/shopspring/decimal"
)

type UpdateSettingsRequest struct {
	AccrualType             string           `json:"accrual_type" binding:"required,oneof=manual attendance"`
	AttendanceDaysThreshold *int             `json:"attendance_days_threshold" binding:"omitempty,min=1,max=365"`
	Balance                 *decimal.Decimal `json:"balance"`
}

type LeaveTypeResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type BalanceResponse struct {
	ID                      string            `json:"id"`
	EmployeeID              string            `json:"employee_id"`
	LeaveType               LeaveTypeResponse `json:"leave_type"`
	Balance                 decimal.Decimal   `json:"balance"`
	Used                    decimal.Decimal   `json:"used"`
	Available               decimal.Decimal   `json:"available"`
	AccrualType             string            `json:"accrual_type"`
	AttendanceDaysThreshold *int              `json:"attendance_days_threshold,omitempty"`
	LastAccrualDate         *string           `json:"last_accrual_date,omitempty"`
}

func mapTypeToResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{ID: t.ID.String(), Code: t.Code, Name: t.Name}
}

func mapToResponse(b LeaveBalance, t LeaveType) BalanceResponse {
	resp := BalanceResponse{
		ID:                      b.ID.String(),
		EmployeeID:              b.EmployeeID.String(),
		LeaveType:               mapTypeToResponse(t),
		Balance:                 b.Balance,
		Used:                    b.Used,
		Available:               b.Available(),
		AccrualType:             b.AccrualType,
		AttendanceDaysThreshold: b.AttendanceDaysThreshold,
	}
	if b.LastAccrualDate != nil {
		v := b.LastAccrualDate.Format("2006-01-02")
		resp.LastAccrualDate = &v
	}
	return resp
}
