package leave

import (
	"fmt"
	"net/http"

	employeeerrors "github.com/Funnel-Builder/people-pulse/internal/employee/errors"
	leaveerrors "github.com/Funnel-Builder/people-pulse/internal/leave/errors"
	"github.com/Funnel-Builder/people-pulse/internal/shared/apperror"
	"github.com/Funnel-Builder/people-pulse/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.logger.Warn("http leave validation failed", zap.String("path", c.FullPath()), zap.Error(err))
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
}

func actorID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetString("employee_id"))
	if err != nil {
		return uuid.Nil, employeeerrors.ErrInvalidEmployeeID
	}
	return id, nil
}

func leaveID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, leaveerrors.ErrInvalidLeaveID
	}
	return id, nil
}

func (h *Handler) CreateAdvance(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req CreateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.CreateAdvance(c.Request.Context(), employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CreatePost(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.CreatePost(c.Request.Context(), employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Process(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	id, err := leaveID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Process(c.Request.Context(), id, employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	id, err := leaveID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), id, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Get(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	id, err := leaveID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ListMine(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Paginate(c, http.StatusOK, resp)
}

func (h *Handler) CoverRequests(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.CoverRequests(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Paginate(c, http.StatusOK, resp)
}

func (h *Handler) PendingApprovals(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.PendingApprovals(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Paginate(c, http.StatusOK, resp)
}

func (h *Handler) ApprovalHistory(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ApprovalHistory(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) WarningDates(c *gin.Context) {
	var req WarningDatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.WarningDates(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Records(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req RecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Records(c.Request.Context(), employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Paginate(c, http.StatusOK, resp)
}

func (h *Handler) Report(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Report(c.Request.Context(), employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	employeeID, err := actorID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req RecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	b, err := h.service.Export(c.Request.Context(), employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("leave-records-%s-%s.xlsx", req.From, req.To)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, b)
}
