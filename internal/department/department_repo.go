package department

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=department_repo.go -destination=mock/department_repo_mock.go -package=mock
type Repository interface {
	ExplicitSubDepartmentIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error)
	SubDepartmentIDsOf(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error)
	FindNames(ctx context.Context) (map[uuid.UUID]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ExplicitSubDepartmentIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&ManagerSubDepartment{}).
		Joins("JOIN sub_departments ON sub_departments.id = manager_sub_departments.sub_department_id AND sub_departments.deleted_at IS NULL").
		Where("manager_sub_departments.user_id = ?", managerID).
		Pluck("manager_sub_departments.sub_department_id", &ids).Error
	return ids, err
}

func (r *repository) SubDepartmentIDsOf(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&SubDepartment{}).
		Where("department_id = ?", departmentID).
		Pluck("id", &ids).Error
	return ids, err
}

// FindNames maps department and sub-department ids to display names for
// exports and notifications.
func (r *repository) FindNames(ctx context.Context) (map[uuid.UUID]string, error) {
	var depts []Department
	if err := r.db.WithContext(ctx).Find(&depts).Error; err != nil {
		return nil, err
	}
	var subs []SubDepartment
	if err := r.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(depts)+len(subs))
	for _, d := range depts {
		names[d.ID] = d.Name
	}
	for _, s := range subs {
		names[s.ID] = s.Name
	}
	return names, nil
}
