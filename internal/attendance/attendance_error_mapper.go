package attendance

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueEmployeeDate = "uq_attendance_employee_date"

// isDuplicateDay reports whether err is the unique violation on
// (employee_id, attendance_date).
func isDuplicateDay(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && (pgErr.ConstraintName == "" || pgErr.ConstraintName == uniqueEmployeeDate)
	}
	return false
}
