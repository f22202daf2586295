package leave

import (
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"
)

type CreateAdvanceRequest struct {
	LeaveType        string   `json:"leave_type" binding:"omitempty,max=50"`
	Reason           string   `json:"reason" binding:"required,notblank"`
	Dates            []string `json:"dates" binding:"required,min=1,dive,datetime=2006-01-02"`
	CoverPersonID    string   `json:"cover_person_id" binding:"required,uuid"`
	WarningConfirmed bool     `json:"warning_confirmed"`
}

type CreatePostRequest struct {
	LeaveType string   `json:"leave_type" binding:"omitempty,max=50"`
	Reason    string   `json:"reason" binding:"required,notblank"`
	Dates     []string `json:"dates" binding:"required,min=1,dive,datetime=2006-01-02"`
}

type ProcessRequest struct {
	Action  string  `json:"action" binding:"required,oneof=approve reject"`
	Comment *string `json:"comment" binding:"omitempty,max=1000"`
}

type WarningDatesRequest struct {
	Dates []string `form:"dates" binding:"required,min=1,dive,datetime=2006-01-02"`
}

type RecordsRequest struct {
	From            string `form:"from" binding:"required,datetime=2006-01-02"`
	To              string `form:"to" binding:"required,datetime=2006-01-02"`
	SubDepartmentID string `form:"sub_department_id" binding:"omitempty,uuid"`
	Status          string `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
}

// ReportRequest selects a calendar month. Zero values mean the current
// month.
type ReportRequest struct {
	Month           int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year            int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	SubDepartmentID string `form:"sub_department_id" binding:"omitempty,uuid"`
}

type ReportStats struct {
	Total        int `json:"total"`
	Approved     int `json:"approved"`
	Pending      int `json:"pending"`
	Rejected     int `json:"rejected"`
	ApprovedDays int `json:"approved_days"`
}

type ReportTypeCount struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ReportTrendPoint struct {
	Month    string `json:"month"`
	Year     int    `json:"year"`
	Approved int    `json:"approved"`
	Pending  int    `json:"pending"`
}

type ReportResponse struct {
	Month  int                `json:"month"`
	Year   int                `json:"year"`
	Stats  ReportStats        `json:"stats"`
	ByType []ReportTypeCount  `json:"by_type"`
	Trend  []ReportTrendPoint `json:"trend"`
}

type ApprovalStepResponse struct {
	StepNumber   int     `json:"step_number"`
	ApproverType string  `json:"approver_type"`
	ApproverID   *string `json:"approver_id,omitempty"`
	Status       string  `json:"status"`
	Comment      *string `json:"comment,omitempty"`
	ActedAt      *string `json:"acted_at,omitempty"`
}

type LeaveResponse struct {
	ID                  string                 `json:"id"`
	ReferenceNo         string                 `json:"reference_no"`
	EmployeeID          string                 `json:"employee_id"`
	EmployeeName        string                 `json:"employee_name,omitempty"`
	LeaveTypeID         string                 `json:"leave_type_id"`
	LeaveType           string                 `json:"leave_type,omitempty"`
	Kind                string                 `json:"kind"`
	Reason              string                 `json:"reason"`
	CoverPersonID       *string                `json:"cover_person_id,omitempty"`
	Status              string                 `json:"status"`
	CurrentApprovalStep int                    `json:"current_approval_step"`
	TotalSteps          int                    `json:"total_steps"`
	Days                int                    `json:"days"`
	Dates               []string               `json:"dates"`
	Steps               []ApprovalStepResponse `json:"steps"`
	WarningConfirmed    bool                   `json:"warning_confirmed"`
	// BalanceWarning is set at creation when the current balance would not
	// cover the request. It does not block the request.
	BalanceWarning *string `json:"balance_warning,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type ApprovalHistoryItem struct {
	LeaveRequestID string  `json:"leave_request_id"`
	ReferenceNo    string  `json:"reference_no"`
	EmployeeName   string  `json:"employee_name"`
	LeaveType      string  `json:"leave_type"`
	StepNumber     int     `json:"step_number"`
	ApproverType   string  `json:"approver_type"`
	Status         string  `json:"status"`
	Comment        *string `json:"comment,omitempty"`
	ActedAt        *string `json:"acted_at,omitempty"`
}

type ApprovalStats struct {
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

type ApprovalHistoryResponse struct {
	Items []ApprovalHistoryItem `json:"items"`
	Stats ApprovalStats         `json:"stats"`
}

type WarningDatesResponse struct {
	WarningDays  int      `json:"warning_days"`
	WarningDates []string `json:"warning_dates"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapStepToResponse(s ApprovalStep) ApprovalStepResponse {
	resp := ApprovalStepResponse{
		StepNumber:   s.StepNumber,
		ApproverType: s.ApproverType,
		Status:       s.Status,
		Comment:      s.Comment,
		ActedAt:      formatTime(s.ActedAt),
	}
	if s.ApproverID != nil {
		v := s.ApproverID.String()
		resp.ApproverID = &v
	}
	return resp
}

func mapToResponse(r LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:                  r.ID.String(),
		ReferenceNo:         r.ReferenceNo,
		EmployeeID:          r.EmployeeID.String(),
		LeaveTypeID:         r.LeaveTypeID.String(),
		Kind:                r.Kind,
		Reason:              r.Reason,
		Status:              r.Status,
		CurrentApprovalStep: r.CurrentApprovalStep,
		TotalSteps:          r.TotalSteps,
		Days:                len(r.Dates),
		Dates:               r.DateStrings(),
		Steps:               make([]ApprovalStepResponse, 0, len(r.Steps)),
		WarningConfirmed:    r.WarningConfirmed,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
	}
	if r.CoverPersonID != nil {
		v := r.CoverPersonID.String()
		resp.CoverPersonID = &v
	}
	if r.Employee != nil {
		resp.EmployeeName = r.Employee.FullName
	}
	if r.LeaveType != nil {
		resp.LeaveType = r.LeaveType.Code
	}
	for _, s := range r.Steps {
		resp.Steps = append(resp.Steps, mapStepToResponse(s))
	}
	return resp
}

func mapToResponses(rows []LeaveRequest) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapToResponse(r))
	}
	return out
}

func mapHistoryItem(s ApprovalStep) ApprovalHistoryItem {
	item := ApprovalHistoryItem{
		StepNumber:   s.StepNumber,
		ApproverType: s.ApproverType,
		Status:       s.Status,
		Comment:      s.Comment,
		ActedAt:      formatTime(s.ActedAt),
	}
	if r := s.LeaveRequest; r != nil {
		item.LeaveRequestID = r.ID.String()
		item.ReferenceNo = r.ReferenceNo
		if r.Employee != nil {
			item.EmployeeName = r.Employee.FullName
		}
		if r.LeaveType != nil {
			item.LeaveType = r.LeaveType.Code
		}
	}
	return item
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, dateutil.Format(d))
	}
	return out
}
