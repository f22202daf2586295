package calendar

import (
	"time"

	"github.com/google/uuid"
)

const (
	HolidayTypeNational  = "national"
	HolidayTypeCompany   = "company"
	HolidayTypeOptional  = "optional"
	HolidayTypeReligious = "religious"
)

type Holiday struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"size:255;not null"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex"`
	Type        string    `gorm:"size:20;not null;default:company"`
	IsRecurring bool      `gorm:"not null;default:false"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Holiday) TableName() string {
	return "holidays"
}
