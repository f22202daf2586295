package leave

import (
	"errors"

	leaveerrors "github.com/Funnel-Builder/people-pulse/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueLeaveDate = "uq_leave_date_request"

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == uniqueLeaveDate {
			return leaveerrors.ErrDuplicateDates
		}
		return leaveerrors.ErrConcurrentUpdate
	}
	return err
}
