package calendar

import (
	"errors"

	calendarerrors "github.com/Funnel-Builder/people-pulse/internal/calendar/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return calendarerrors.ErrHolidayNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return calendarerrors.ErrHolidayExists
	}
	return err
}
