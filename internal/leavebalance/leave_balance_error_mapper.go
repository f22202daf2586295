package leavebalance

import (
	"errors"

	leavebalanceerrors "github.com/Funnel-Builder/people-pulse/internal/leavebalance/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavebalanceerrors.ErrLeaveTypeNotFound
	}
	return err
}
