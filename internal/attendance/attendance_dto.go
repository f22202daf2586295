package attendance

import (
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"
)

type ListRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type AttendanceResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	AttendanceDate   string  `json:"attendance_date"`
	Status           string  `json:"status"`
	ClockIn          *string `json:"clock_in,omitempty"`
	ClockOut         *string `json:"clock_out,omitempty"`
	GrossMinutes     int     `json:"gross_minutes"`
	BreakMinutes     int     `json:"break_minutes"`
	NetMinutes       int     `json:"net_minutes"`
	IsLate           bool    `json:"is_late"`
	LateMinutes      int     `json:"late_minutes"`
	IsEarlyExit      bool    `json:"is_early_exit"`
	EarlyExitMinutes int     `json:"early_exit_minutes"`
}

// MarkReport summarizes one attendance:mark-absent run. Name lists use the
// "Name (employee number)" form.
type MarkReport struct {
	Date            string   `json:"date"`
	Holiday         bool     `json:"holiday"`
	TotalEmployees  int      `json:"total_employees"`
	MarkedAbsent    []string `json:"marked_absent"`
	MarkedLeave     []string `json:"marked_leave"`
	SkippedExisting []string `json:"skipped_existing"`
	SkippedWeekend  []string `json:"skipped_weekend"`
	Failed          []string `json:"failed"`
}

func (r MarkReport) Failures() int {
	return len(r.Failed)
}

// ReminderReport summarizes one reminder run.
type ReminderReport struct {
	Date    string   `json:"date"`
	Holiday bool     `json:"holiday"`
	Sent    []string `json:"sent"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed"`
}

func (r ReminderReport) Failures() int {
	return len(r.Failed)
}

func formatClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(a AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:               a.ID.String(),
		EmployeeID:       a.EmployeeID.String(),
		AttendanceDate:   dateutil.Format(a.AttendanceDate),
		Status:           a.Status,
		ClockIn:          formatClock(a.ClockIn),
		ClockOut:         formatClock(a.ClockOut),
		GrossMinutes:     a.GrossMinutes,
		BreakMinutes:     a.BreakMinutes,
		NetMinutes:       a.NetMinutes,
		IsLate:           a.IsLate,
		LateMinutes:      a.LateMinutes,
		IsEarlyExit:      a.IsEarlyExit,
		EarlyExitMinutes: a.EarlyExitMinutes,
	}
}
