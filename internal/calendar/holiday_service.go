package calendar

import (
	"context"
	"sort"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/apperror"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/rickar/cal/v2"
	"go.uber.org/zap"
)

// Provider answers whether a calendar date is a company-wide day off.
type Provider interface {
	IsHoliday(ctx context.Context, day time.Time) (bool, error)
}

type Service interface {
	Provider
	ListByYear(ctx context.Context, year int) ([]HolidayResponse, error)
	Upcoming(ctx context.Context, from time.Time, limit int) ([]HolidayResponse, error)
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	region *cal.BusinessCalendar
	loc    *time.Location
	logger *zap.Logger
}

// NewService combines the holidays table with an optional public holiday
// calendar; region may be nil.
func NewService(repo Repository, region *cal.BusinessCalendar, loc *time.Location, logger ...*zap.Logger) Service {
	l := zap.L().Named("calendar.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.service")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, region: region, loc: loc, logger: l}
}

func (s *service) IsHoliday(ctx context.Context, day time.Time) (bool, error) {
	day = dateutil.Day(day)
	if s.region != nil {
		if actual, observed, _ := s.region.IsHoliday(day); actual || observed {
			return true, nil
		}
	}
	ok, err := s.repo.ExistsOn(ctx, day)
	if err != nil {
		s.logger.Error("holiday lookup failed", zap.String("date", dateutil.Format(day)), zap.Error(err))
		return false, err
	}
	return ok, nil
}

func (s *service) ListByYear(ctx context.Context, year int) ([]HolidayResponse, error) {
	rows, err := s.repo.FindByYear(ctx, year)
	if err != nil {
		s.logger.Error("list holidays failed", zap.Int("year", year), zap.Error(err))
		return nil, err
	}
	out := make([]HolidayResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, mapToResponse(h))
	}
	out = append(out, s.regionHolidays(year)...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *service) Upcoming(ctx context.Context, from time.Time, limit int) ([]HolidayResponse, error) {
	rows, err := s.repo.FindUpcoming(ctx, from, limit)
	if err != nil {
		return nil, err
	}
	out := make([]HolidayResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, mapToResponse(h))
	}

	fromStr := dateutil.Format(from)
	for _, year := range []int{from.Year(), from.Year() + 1} {
		for _, h := range s.regionHolidays(year) {
			if h.Date >= fromStr {
				out = append(out, h)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *service) regionHolidays(year int) []HolidayResponse {
	if s.region == nil {
		return nil
	}
	var out []HolidayResponse
	for _, h := range s.region.Holidays {
		actual, observed := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		day := observed
		if day.IsZero() {
			day = actual
		}
		out = append(out, HolidayResponse{
			Name:   h.Name,
			Date:   day.Format(dateutil.Layout),
			Type:   HolidayTypeNational,
			Source: "region",
		})
	}
	return out
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := dateutil.Parse(req.Date, s.loc)
	if err != nil {
		return HolidayResponse{}, apperror.InvalidField("date")
	}
	h := &Holiday{
		ID:          uuid.New(),
		Name:        req.Name,
		Date:        date,
		Type:        req.Type,
		IsRecurring: req.IsRecurring,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		s.logger.Warn("create holiday failed", zap.String("date", req.Date), zap.Error(err))
		return HolidayResponse{}, mapRepositoryError(err)
	}
	s.logger.Info("holiday created", zap.String("date", req.Date), zap.String("name", req.Name))
	return mapToResponse(*h), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("holiday deleted", zap.String("holiday_id", id.String()))
	return nil
}
