package jobs

import (
	"context"
	"net/http"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/apperror"
	"github.com/Funnel-Builder/people-pulse/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Trigger is satisfied by *Runner.
type Trigger interface {
	Run(ctx context.Context, name string, p Params) (Result, error)
	Registry() *Registry
}

type Handler struct {
	runner Trigger
	loc    *time.Location
	logger *zap.Logger
}

func NewHandler(runner Trigger, loc *time.Location, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("jobs.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("jobs.handler")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{runner: runner, loc: loc, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("job request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) List(c *gin.Context) {
	reg := h.runner.Registry()
	resp := make([]JobResponse, 0)
	for _, name := range reg.Names() {
		j, _ := reg.Get(name)
		resp = append(resp, JobResponse{Name: j.Name, Description: j.Description})
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Run(c *gin.Context) {
	var req RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http run job validation failed", zap.Error(err))
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
			return
		}
	}

	p, err := ParseParams(req.Date, req.Year, req.EmployeeID, req.DryRun, req.Force, h.loc)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	name := c.Param("name")
	res, err := h.runner.Run(c.Request.Context(), name, p)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp := RunResponse{Job: name, Report: res}
	if res != nil {
		resp.Failures = res.Failures()
	}
	response.Success(c, http.StatusOK, resp, nil)
}
