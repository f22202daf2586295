package calendar

import (
	"context"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	ExistsOn(ctx context.Context, day time.Time) (bool, error)
	FindByYear(ctx context.Context, year int) ([]Holiday, error)
	FindUpcoming(ctx context.Context, from time.Time, limit int) ([]Holiday, error)
	Create(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ExistsOn matches the exact date, or the month and day of a recurring holiday.
func (r *repository) ExistsOn(ctx context.Context, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Where("date = ? OR (is_recurring AND EXTRACT(MONTH FROM date) = ? AND EXTRACT(DAY FROM date) = ?)",
			dateutil.Format(day), int(day.Month()), day.Day()).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByYear(ctx context.Context, year int) ([]Holiday, error) {
	var rows []Holiday
	err := r.db.WithContext(ctx).
		Where("EXTRACT(YEAR FROM date) = ?", year).
		Order("date").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindUpcoming(ctx context.Context, from time.Time, limit int) ([]Holiday, error) {
	var rows []Holiday
	err := r.db.WithContext(ctx).
		Where("date >= ?", dateutil.Format(from)).
		Order("date").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Holiday{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
