package employee

import (
	"errors"

	employeeerrors "github.com/Funnel-Builder/people-pulse/internal/employee/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}
	return err
}

// MapLookupError is mapRepositoryError for callers in other packages that
// read employees through Repository directly.
func MapLookupError(err error) error {
	return mapRepositoryError(err)
}
