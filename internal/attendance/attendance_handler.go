package attendance

import (
	"net/http"

	employeeerrors "github.com/Funnel-Builder/people-pulse/internal/employee/errors"
	"github.com/Funnel-Builder/people-pulse/internal/shared/apperror"
	"github.com/Funnel-Builder/people-pulse/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func actorID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetString("employee_id"))
	if err != nil {
		return uuid.Nil, employeeerrors.ErrInvalidEmployeeID
	}
	return id, nil
}

func (h *Handler) ClockIn(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ClockIn(c.Request.Context(), employeeID, c.ClientIP())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ClockOut(c.Request.Context(), employeeID, c.ClientIP())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// List returns the caller's records, or everyone's when the route granted
// attendance:read_all.
func (h *Handler) List(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	actor := Actor{EmployeeID: employeeID, CanReadAll: c.GetBool("has_read_all")}
	resp, err := h.service.List(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Paginate(c, http.StatusOK, resp)
}
