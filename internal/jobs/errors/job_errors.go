package joberrors

import (
	"net/http"

	"github.com/Funnel-Builder/people-pulse/internal/shared/apperror"
)

var (
	ErrUnknownJob = apperror.New(
		apperror.CodeNotFound,
		"unknown job",
		http.StatusNotFound,
	)
	ErrJobLocked = apperror.New(
		apperror.CodeConflict,
		"job already ran or is running for this key",
		http.StatusConflict,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
)
