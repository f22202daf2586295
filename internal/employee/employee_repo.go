package employee

import (
	"context"
	"database/sql"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Employee, error)
	FindAttendanceEligible(ctx context.Context, day time.Time) ([]Employee, error)
	FindCoverCandidates(ctx context.Context, subDepartmentID *uuid.UUID) ([]Employee, error)
	FindAdmins(ctx context.Context) ([]Employee, error)
	FindSeparated(ctx context.Context, today time.Time) ([]Employee, error)
	Deactivate(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func activeScope(db *gorm.DB) *gorm.DB {
	return db.Where("(is_active = ? OR is_active IS NULL)", true)
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Employee, error) {
	var rows []Employee
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.conn(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// FindAttendanceEligible lists non-admin employees who had joined by day
// and are not deactivated.
func (r *repository) FindAttendanceEligible(ctx context.Context, day time.Time) ([]Employee, error) {
	var rows []Employee
	err := r.conn(ctx).
		Scopes(activeScope).
		Where("role <> ?", RoleAdmin).
		Where("joining_date IS NOT NULL AND joining_date <= ?", day.Format("2006-01-02")).
		Order("name").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindCoverCandidates(ctx context.Context, subDepartmentID *uuid.UUID) ([]Employee, error) {
	var rows []Employee
	db := r.conn(ctx).Scopes(activeScope)
	if subDepartmentID != nil {
		db = db.Where("sub_department_id = ?", *subDepartmentID)
	}
	err := db.Order("name").Find(&rows).Error
	return rows, err
}

func (r *repository) FindAdmins(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.conn(ctx).
		Scopes(activeScope).
		Where("role = ?", RoleAdmin).
		Find(&rows).Error
	return rows, err
}

// FindSeparated lists still-active employees whose closing date is before today.
func (r *repository) FindSeparated(ctx context.Context, today time.Time) ([]Employee, error) {
	var rows []Employee
	err := r.conn(ctx).
		Where("is_active = ?", true).
		Where("closing_date IS NOT NULL AND closing_date < ?", today.Format("2006-01-02")).
		Order("closing_date").
		Find(&rows).Error
	return rows, err
}

// Deactivate flips is_active for ids that are still active and returns how
// many rows changed, so a rerun reports zero.
func (r *repository) Deactivate(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("id IN ?", ids).
		Where("is_active = ?", true).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
