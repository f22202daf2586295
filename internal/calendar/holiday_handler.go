package calendar

import (
	"net/http"
	"strconv"
	"time"

	calendarerrors "github.com/Funnel-Builder/people-pulse/internal/calendar/errors"
	"github.com/Funnel-Builder/people-pulse/internal/shared/apperror"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"
	"github.com/Funnel-Builder/people-pulse/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const upcomingLimit = 5

type Handler struct {
	service Service
	clock   dateutil.Clock
	logger  *zap.Logger
}

func NewHandler(service Service, clock dateutil.Clock, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("calendar.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.handler")
	}
	if clock == nil {
		clock = dateutil.SystemClock(time.UTC)
	}
	return &Handler{service: service, clock: clock, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("holiday request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) List(c *gin.Context) {
	year := h.clock().Year()
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1900 || y > 9999 {
			h.writeServiceError(c, apperror.InvalidField("year"))
			return
		}
		year = y
	}

	resp, err := h.service.ListByYear(c.Request.Context(), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Upcoming(c *gin.Context) {
	resp, err := h.service.Upcoming(c.Request.Context(), dateutil.Today(h.clock), upcomingLimit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create holiday validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.writeServiceError(c, calendarerrors.ErrInvalidHolidayID)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id.String()}, nil)
}
