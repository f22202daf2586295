package events

import "time"

const NotificationTopic = "hr.notifications.v1"

const (
	EventLeaveApproved        = "leave_approved"
	EventClockInMissing       = "clock_in_missing"
	EventClockOutMissing      = "clock_out_missing"
	EventAdminsMissedClockOut = "admins_missed_clock_out"
	EventBalanceShortfall     = "balance_shortfall"
)

type Recipient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Envelope is decoded first to route a message by EventType.
type Envelope struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LeaveApprovedEvent struct {
	Envelope
	LeaveRequestID string    `json:"leave_request_id"`
	ReferenceNo    string    `json:"reference_no"`
	Employee       Recipient `json:"employee"`
	LeaveType      string    `json:"leave_type"`
	Kind           string    `json:"kind"`
	Dates          []string  `json:"dates"`
}

type ClockInMissingEvent struct {
	Envelope
	Employee Recipient `json:"employee"`
	Date     string    `json:"date"`
}

type ClockOutMissingEvent struct {
	Envelope
	Employee Recipient `json:"employee"`
	Date     string    `json:"date"`
	ClockIn  time.Time `json:"clock_in"`
}

type MissedClockOutEntry struct {
	Employee Recipient `json:"employee"`
	ClockIn  time.Time `json:"clock_in"`
}

type AdminsMissedClockOutEvent struct {
	Envelope
	Admins  []Recipient           `json:"admins"`
	Date    string                `json:"date"`
	Entries []MissedClockOutEntry `json:"entries"`
}

type BalanceShortfallEvent struct {
	Envelope
	Admins         []Recipient `json:"admins"`
	LeaveRequestID string      `json:"leave_request_id"`
	ReferenceNo    string      `json:"reference_no"`
	Employee       Recipient   `json:"employee"`
	LeaveType      string      `json:"leave_type"`
	Days           string      `json:"days"`
	Available      string      `json:"available"`
}
