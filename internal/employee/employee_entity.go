package employee

import (
	"slices"
	"strings"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// DefaultWeekendDays applies when an employee has no weekend set configured.
var DefaultWeekendDays = []string{"saturday", "sunday"}

type Employee struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber  string                      `gorm:"column:employee_id;size:50"`
	FullName        string                      `gorm:"column:name;size:255;not null"`
	Email           string                      `gorm:"size:255;uniqueIndex"`
	Role            string                      `gorm:"size:20;not null;default:user;index"`
	Designation     string                      `gorm:"size:255"`
	DepartmentID    *uuid.UUID                  `gorm:"type:uuid;index"`
	SubDepartmentID *uuid.UUID                  `gorm:"type:uuid;index"`
	WeekendDays     datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	JoiningDate     *time.Time                  `gorm:"type:date"`
	ClosingDate     *time.Time                  `gorm:"type:date"`
	IsActive        *bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Employee) TableName() string {
	return "users"
}

// Active treats a NULL flag as active; rows created before the flag existed
// never had it set.
func (e Employee) Active() bool {
	return e.IsActive == nil || *e.IsActive
}

func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

func (e Employee) IsManager() bool {
	return e.Role == RoleManager
}

// IsWeekend reports whether day's weekday is in the employee's own weekend set.
func (e Employee) IsWeekend(day time.Time) bool {
	days := []string(e.WeekendDays)
	if len(days) == 0 {
		days = DefaultWeekendDays
	}
	name := dateutil.DayName(day)
	return slices.ContainsFunc(days, func(d string) bool {
		return strings.EqualFold(strings.TrimSpace(d), name)
	})
}

// JoinedBy reports whether the employee had joined on or before day.
func (e Employee) JoinedBy(day time.Time) bool {
	return e.JoiningDate != nil && !dateutil.Day(*e.JoiningDate).After(day)
}
