package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLeave   = "leave"
	StatusWeekend = "weekend"
	StatusHoliday = "holiday"
)

// AttendanceRecord is unique per (employee_id, attendance_date).
type AttendanceRecord struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID       uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	AttendanceDate   time.Time  `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date;index"`
	Status           string     `gorm:"column:status;type:varchar(20);not null"`
	ClockIn          *time.Time `gorm:"column:clock_in;type:timestamptz"`
	ClockOut         *time.Time `gorm:"column:clock_out;type:timestamptz"`
	ClockInIP        *string    `gorm:"column:clock_in_ip;type:varchar(45)"`
	ClockOutIP       *string    `gorm:"column:clock_out_ip;type:varchar(45)"`
	GrossMinutes     int        `gorm:"column:gross_minutes;not null;default:0"`
	BreakMinutes     int        `gorm:"column:break_minutes;not null;default:0"`
	NetMinutes       int        `gorm:"column:net_minutes;not null;default:0"`
	IsLate           bool       `gorm:"column:is_late;not null;default:false"`
	LateMinutes      int        `gorm:"column:late_minutes;not null;default:0"`
	IsEarlyExit      bool       `gorm:"column:is_early_exit;not null;default:false"`
	EarlyExitMinutes int        `gorm:"column:early_exit_minutes;not null;default:0"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendances"
}

// Synthesized builds the record the daily batch writes for an employee who
// never clocked in: no timestamps and every counter at zero.
func Synthesized(employeeID uuid.UUID, day time.Time, status string) *AttendanceRecord {
	return &AttendanceRecord{
		ID:             uuid.New(),
		EmployeeID:     employeeID,
		AttendanceDate: day,
		Status:         status,
	}
}
