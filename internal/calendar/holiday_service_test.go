package calendar_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/calendar"
	calendarerrors "github.com/Funnel-Builder/people-pulse/internal/calendar/errors"

	calendarMock "github.com/Funnel-Builder/people-pulse/internal/calendar/mock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func setupHolidayTest(t *testing.T) *calendarMock.MockRepository {
	t.Helper()
	return calendarMock.NewMockRepository(gomock.NewController(t))
}

func TestHolidayService_IsHoliday(t *testing.T) {
	ctx := context.Background()

	t.Run("table only", func(t *testing.T) {
		repo := setupHolidayTest(t)
		svc := calendar.NewService(repo, nil, time.UTC)
		repo.EXPECT().ExistsOn(gomock.Any(), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)).Return(true, nil)
		repo.EXPECT().ExistsOn(gomock.Any(), time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)).Return(false, nil)

		ok, err := svc.IsHoliday(ctx, time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = svc.IsHoliday(ctx, time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("region calendar", func(t *testing.T) {
		region, err := calendar.NewRegionCalendar("de-bw")
		require.NoError(t, err)
		repo := setupHolidayTest(t)
		svc := calendar.NewService(repo, region, time.UTC)
		// Public holidays never reach the table.
		repo.EXPECT().ExistsOn(gomock.Any(), time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)).Return(false, nil)

		ok, err := svc.IsHoliday(ctx, time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, ok, "German Unity Day")

		ok, err = svc.IsHoliday(ctx, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("lookup error", func(t *testing.T) {
		repo := setupHolidayTest(t)
		repo.EXPECT().ExistsOn(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
		svc := calendar.NewService(repo, nil, time.UTC)

		_, err := svc.IsHoliday(ctx, time.Now())
		assert.Error(t, err)
	})
}

func TestNewRegionCalendar(t *testing.T) {
	c, err := calendar.NewRegionCalendar("")
	assert.NoError(t, err)
	assert.Nil(t, c)

	_, err = calendar.NewRegionCalendar("atlantis")
	assert.Error(t, err)

	c, err = calendar.NewRegionCalendar(" US ")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Holidays)
}

func TestHolidayService_ListByYear_MergesRegion(t *testing.T) {
	region, err := calendar.NewRegionCalendar("de")
	require.NoError(t, err)
	repo := setupHolidayTest(t)
	repo.EXPECT().FindByYear(gomock.Any(), 2026).Return([]calendar.Holiday{{
		ID:   uuid.New(),
		Name: "Founders Day",
		Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Type: calendar.HolidayTypeCompany,
	}}, nil)
	svc := calendar.NewService(repo, region, time.UTC)

	resp, err := svc.ListByYear(context.Background(), 2026)
	require.NoError(t, err)

	var sources = map[string]int{}
	for i, h := range resp {
		sources[h.Source]++
		if i > 0 {
			assert.LessOrEqual(t, resp[i-1].Date, h.Date)
		}
	}
	assert.Equal(t, 1, sources["table"])
	assert.Positive(t, sources["region"])
}

func TestHolidayService_Create(t *testing.T) {
	ctx := context.Background()
	req := calendar.CreateHolidayRequest{Name: "Retreat", Date: "2026-08-14", Type: calendar.HolidayTypeCompany}

	t.Run("success", func(t *testing.T) {
		repo := setupHolidayTest(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, h *calendar.Holiday) error {
			assert.Equal(t, "Retreat", h.Name)
			assert.Equal(t, time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC), h.Date)
			return nil
		})
		svc := calendar.NewService(repo, nil, time.UTC)

		resp, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-14", resp.Date)
	})

	t.Run("duplicate date", func(t *testing.T) {
		repo := setupHolidayTest(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&pgconn.PgError{Code: "23505"})
		svc := calendar.NewService(repo, nil, time.UTC)

		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, calendarerrors.ErrHolidayExists)
	})

	t.Run("bad date", func(t *testing.T) {
		svc := calendar.NewService(setupHolidayTest(t), nil, time.UTC)
		_, err := svc.Create(ctx, calendar.CreateHolidayRequest{Name: "Retreat", Date: "14/08/2026", Type: calendar.HolidayTypeCompany})
		assert.Error(t, err)
	})
}

func TestHolidayService_Delete_NotFound(t *testing.T) {
	repo := setupHolidayTest(t)
	id := uuid.New()
	repo.EXPECT().Delete(gomock.Any(), id).Return(gorm.ErrRecordNotFound)
	svc := calendar.NewService(repo, nil, time.UTC)

	err := svc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, calendarerrors.ErrHolidayNotFound)
}
