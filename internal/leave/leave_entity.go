package leave

import (
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/employee"
	"github.com/Funnel-Builder/people-pulse/internal/leavebalance"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	StepPending  = "pending"
	StepApproved = "approved"
	StepRejected = "rejected"
)

// LeaveRequest moves pending -> approved | rejected through its approval
// steps, or pending -> cancelled by its owner. Version increases on every
// transition and guards concurrent writers.
type LeaveRequest struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReferenceNo         string     `gorm:"size:20;not null;uniqueIndex"`
	EmployeeID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	LeaveTypeID         uuid.UUID  `gorm:"type:uuid;not null"`
	Kind                string     `gorm:"size:20;not null"`
	Reason              string     `gorm:"type:text;not null"`
	CoverPersonID       *uuid.UUID `gorm:"type:uuid;index"`
	Status              string     `gorm:"size:20;not null;default:pending;index"`
	CurrentApprovalStep int        `gorm:"not null;default:1"`
	TotalSteps          int        `gorm:"not null"`
	Version             int        `gorm:"not null;default:1"`
	WarningConfirmed    bool       `gorm:"not null;default:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Dates     []LeaveDate             `gorm:"foreignKey:LeaveRequestID"`
	Steps     []ApprovalStep          `gorm:"foreignKey:LeaveRequestID"`
	Employee  *employee.Employee      `gorm:"foreignKey:EmployeeID"`
	LeaveType *leavebalance.LeaveType `gorm:"foreignKey:LeaveTypeID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}

func (r LeaveRequest) DateStrings() []string {
	out := make([]string, 0, len(r.Dates))
	for _, d := range r.Dates {
		out = append(out, dateutil.Format(d.Date))
	}
	return out
}

type LeaveDate struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_date_request"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:uq_leave_date_request;index"`
}

func (LeaveDate) TableName() string {
	return "leave_dates"
}

type ApprovalStep struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_approval_step"`
	StepNumber     int        `gorm:"not null;uniqueIndex:uq_approval_step"`
	ApproverType   string     `gorm:"size:20;not null"`
	ApproverID     *uuid.UUID `gorm:"type:uuid;index"`
	Status         string     `gorm:"size:20;not null;default:pending"`
	Comment        *string    `gorm:"type:text"`
	ActedAt        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	LeaveRequest *LeaveRequest `gorm:"foreignKey:LeaveRequestID"`
}

func (ApprovalStep) TableName() string {
	return "leave_approval_steps"
}
