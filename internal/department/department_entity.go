package department

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Department struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"size:255;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type SubDepartment struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DepartmentID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name         string         `gorm:"size:255;not null"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// ManagerSubDepartment is an explicit "manager X is responsible for
// sub-department Y" assignment. It overrides the department fallbacks.
type ManagerSubDepartment struct {
	ManagerID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	SubDepartmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (ManagerSubDepartment) TableName() string {
	return "manager_sub_departments"
}
