package leaveerrors

import (
	"net/http"

	"github.com/Funnel-Builder/people-pulse/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrDatesRequired = apperror.New(
		apperror.CodeInvalidInput,
		"at least one date is required",
		http.StatusBadRequest,
	)
	ErrDuplicateDates = apperror.New(
		apperror.CodeInvalidInput,
		"dates must not repeat",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from must not be after to",
		http.StatusBadRequest,
	)
	ErrAdvanceDateNotFuture = apperror.New(
		apperror.CodeInvalidInput,
		"advance leave dates must be after today",
		http.StatusBadRequest,
	)
	ErrPostDateInFuture = apperror.New(
		apperror.CodeInvalidInput,
		"post leave dates must be today or earlier",
		http.StatusBadRequest,
	)
	ErrReasonLength = apperror.New(
		apperror.CodeInvalidInput,
		"reason length is out of bounds",
		http.StatusBadRequest,
	)
	ErrCoverPersonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"cover_person_id is required for advance leave",
		http.StatusBadRequest,
	)
	ErrSelfCover = apperror.New(
		apperror.CodeInvalidInput,
		"you cannot be your own cover person",
		http.StatusBadRequest,
	)
	ErrCoverPersonUnavailable = apperror.New(
		apperror.CodeInvalidInput,
		"cover person does not exist or is inactive",
		http.StatusBadRequest,
	)
	ErrLeaveTypeUnavailable = apperror.New(
		apperror.CodeInvalidInput,
		"leave type does not exist or is inactive",
		http.StatusBadRequest,
	)
	ErrWarningNotConfirmed = apperror.New(
		apperror.CodeInvalidInput,
		"some dates fall inside the short-notice window; confirm to proceed",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already requested for one of these dates",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrNoPendingApproval = apperror.New(
		apperror.CodeInvalidState,
		"no pending approval for this leave",
		http.StatusConflict,
	)
	ErrNotAuthorizedForStep = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to act on this approval step",
		http.StatusForbidden,
	)
	ErrCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"comment is required when rejecting",
		http.StatusBadRequest,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		"action must be approve or reject",
		http.StatusBadRequest,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"leave was changed by another request, reload and retry",
		http.StatusConflict,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the applicant can cancel this leave",
		http.StatusForbidden,
	)
	ErrNotCancellable = apperror.New(
		apperror.CodeInvalidState,
		"only pending leave can be cancelled",
		http.StatusConflict,
	)
	ErrLeaveForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to view this leave",
		http.StatusForbidden,
	)
	ErrInvalidApproverType = apperror.New(
		apperror.CodeInternalError,
		"unknown approver type",
		http.StatusInternalServerError,
	)
)
