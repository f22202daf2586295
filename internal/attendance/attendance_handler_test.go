package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Funnel-Builder/people-pulse/internal/attendance"
	attendanceerrors "github.com/Funnel-Builder/people-pulse/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	clockInFn  func(ctx context.Context, employeeID uuid.UUID, ip string) (attendance.AttendanceResponse, error)
	clockOutFn func(ctx context.Context, employeeID uuid.UUID, ip string) (attendance.AttendanceResponse, error)
	listFn     func(ctx context.Context, actor attendance.Actor, req attendance.ListRequest) ([]attendance.AttendanceResponse, error)
}

func (f *fakeService) ClockIn(ctx context.Context, employeeID uuid.UUID, ip string) (attendance.AttendanceResponse, error) {
	return f.clockInFn(ctx, employeeID, ip)
}

func (f *fakeService) ClockOut(ctx context.Context, employeeID uuid.UUID, ip string) (attendance.AttendanceResponse, error) {
	return f.clockOutFn(ctx, employeeID, ip)
}

func (f *fakeService) List(ctx context.Context, actor attendance.Actor, req attendance.ListRequest) ([]attendance.AttendanceResponse, error) {
	return f.listFn(ctx, actor, req)
}

func TestAttendanceHandler_ClockIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	employeeID := uuid.New()

	t.Run("created", func(t *testing.T) {
		svc := &fakeService{
			clockInFn: func(ctx context.Context, eid uuid.UUID, ip string) (attendance.AttendanceResponse, error) {
				assert.Equal(t, employeeID, eid)
				return attendance.AttendanceResponse{ID: uuid.New().String(), EmployeeID: eid.String(), Status: attendance.StatusPresent}, nil
			},
		}
		h := attendance.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", employeeID.String())
		c.Request = httptest.NewRequest(http.MethodPost, "/attendances/clock-in", nil)
		h.ClockIn(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		svc := &fakeService{
			clockInFn: func(ctx context.Context, eid uuid.UUID, ip string) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
			},
		}
		h := attendance.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", employeeID.String())
		c.Request = httptest.NewRequest(http.MethodPost, "/attendances/clock-in", nil)
		h.ClockIn(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing identity", func(t *testing.T) {
		h := attendance.NewHandler(&fakeService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/attendances/clock-in", nil)
		h.ClockIn(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAttendanceHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	employeeID := uuid.New()

	var got attendance.Actor
	svc := &fakeService{
		listFn: func(ctx context.Context, actor attendance.Actor, req attendance.ListRequest) ([]attendance.AttendanceResponse, error) {
			got = actor
			return []attendance.AttendanceResponse{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", employeeID.String())
	c.Set("has_read_all", true)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances?page=2&page_size=2", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, got.CanReadAll)
	assert.Equal(t, employeeID, got.EmployeeID)

	var body struct {
		Data []attendance.AttendanceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "c", body.Data[0].ID)

	t.Run("bad date", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", employeeID.String())
		c.Request = httptest.NewRequest(http.MethodGet, "/attendances?from=03-01-2026", nil)
		h.List(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
