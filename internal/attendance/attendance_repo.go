package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	EmployeeID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *AttendanceRecord) error
	Update(ctx context.Context, a *AttendanceRecord) error
	FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, day time.Time) (*AttendanceRecord, error)
	FindAll(ctx context.Context, filter ListFilter) ([]AttendanceRecord, error)
	EmployeeIDsWithRecord(ctx context.Context, day time.Time) (map[uuid.UUID]bool, error)
	FindOpen(ctx context.Context, day time.Time) ([]AttendanceRecord, error)
	CountQualifyingDays(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, a *AttendanceRecord) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *AttendanceRecord) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, day time.Time) (*AttendanceRecord, error) {
	var a AttendanceRecord
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", dateutil.Format(day)).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	db := r.conn(ctx)
	if filter.EmployeeID != nil {
		db = db.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		db = db.Where("attendance_date >= ?", dateutil.Format(*filter.From))
	}
	if filter.To != nil {
		db = db.Where("attendance_date <= ?", dateutil.Format(*filter.To))
	}
	err := db.Order("attendance_date DESC, clock_in DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) EmployeeIDsWithRecord(ctx context.Context, day time.Time) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).
		Model(&AttendanceRecord{}).
		Where("attendance_date = ?", dateutil.Format(day)).
		Pluck("employee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// FindOpen lists records of day that have a clock-in but no clock-out.
func (r *repository) FindOpen(ctx context.Context, day time.Time) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.conn(ctx).
		Where("attendance_date = ?", dateutil.Format(day)).
		Where("clock_in IS NOT NULL AND clock_out IS NULL").
		Order("clock_in").
		Find(&rows).Error
	return rows, err
}

// CountQualifyingDays counts the employee's records in [from, to] whose
// status is anything but absent.
func (r *repository) CountQualifyingDays(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (int64, error) {
	var n int64
	err := r.conn(ctx).
		Model(&AttendanceRecord{}).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", dateutil.Format(from), dateutil.Format(to)).
		Where("status <> ?", StatusAbsent).
		Count(&n).Error
	return n, err
}
