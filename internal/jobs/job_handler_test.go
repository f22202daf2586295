package jobs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/jobs"
	joberrors "github.com/Funnel-Builder/people-pulse/internal/jobs/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrigger struct {
	registry *jobs.Registry
	runFn    func(ctx context.Context, name string, p jobs.Params) (jobs.Result, error)
}

func (f *fakeTrigger) Run(ctx context.Context, name string, p jobs.Params) (jobs.Result, error) {
	return f.runFn(ctx, name, p)
}

func (f *fakeTrigger) Registry() *jobs.Registry { return f.registry }

func runRequest(h *jobs.Handler, name, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "name", Value: name}}
	c.Request = httptest.NewRequest(http.MethodPost, "/jobs/"+name+"/run", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Run(c)
	return w
}

func TestJobHandler_Run(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("passes parsed params", func(t *testing.T) {
		var got jobs.Params
		h := jobs.NewHandler(&fakeTrigger{runFn: func(ctx context.Context, name string, p jobs.Params) (jobs.Result, error) {
			assert.Equal(t, jobs.MarkAbsent, name)
			got = p
			return report{failed: 1}, nil
		}}, time.UTC)

		w := runRequest(h, jobs.MarkAbsent, `{"date":"2026-03-02","dry_run":true}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got.Date)
		assert.True(t, got.DryRun)

		var body struct {
			Data jobs.RunResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Data.Failures)
	})

	t.Run("bad date", func(t *testing.T) {
		h := jobs.NewHandler(&fakeTrigger{}, time.UTC)
		w := runRequest(h, jobs.MarkAbsent, `{"date":"02/03/2026"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("locked", func(t *testing.T) {
		h := jobs.NewHandler(&fakeTrigger{runFn: func(ctx context.Context, name string, p jobs.Params) (jobs.Result, error) {
			return nil, joberrors.ErrJobLocked
		}}, time.UTC)
		w := runRequest(h, jobs.MarkAbsent, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown", func(t *testing.T) {
		h := jobs.NewHandler(&fakeTrigger{runFn: func(ctx context.Context, name string, p jobs.Params) (jobs.Result, error) {
			return nil, joberrors.ErrUnknownJob
		}}, time.UTC)
		w := runRequest(h, "nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestJobHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := jobs.NewRegistry()
	reg.Register(jobs.Job{Name: "b:job", Description: "second"})
	reg.Register(jobs.Job{Name: "a:job", Description: "first"})
	h := jobs.NewHandler(&fakeTrigger{registry: reg}, time.UTC)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/jobs", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []jobs.JobResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "a:job", body.Data[0].Name)
}
