package leave

import (
	"context"
	"sort"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// trendMonths is the length of the trend series, ending at the report
// month.
const trendMonths = 6

// Report summarises requests with at least one date in the month, scoped
// like Records. Per-type counts and approved days only cover approved
// requests. Cancelled requests count towards the total alone.
func (s *service) Report(ctx context.Context, actorID uuid.UUID, req ReportRequest) (ReportResponse, error) {
	today := dateutil.Today(s.clock)
	month, year := req.Month, req.Year
	if month == 0 {
		month = int(today.Month())
	}
	if year == 0 {
		year = today.Year()
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, today.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	trendStart := monthStart.AddDate(0, -(trendMonths - 1), 0)

	resp := ReportResponse{
		Month:  month,
		Year:   year,
		ByType: []ReportTypeCount{},
		Trend:  make([]ReportTrendPoint, 0, trendMonths),
	}
	for i := range trendMonths {
		m := trendStart.AddDate(0, i, 0)
		resp.Trend = append(resp.Trend, ReportTrendPoint{Month: m.Format("Jan"), Year: m.Year()})
	}

	filter := RecordFilter{From: trendStart, To: monthEnd}
	ok, err := s.scopeRecords(ctx, actorID, req.SubDepartmentID, &filter)
	if err != nil {
		return ReportResponse{}, err
	}
	if !ok {
		return resp, nil
	}
	rows, err := s.repo.FindRecords(ctx, filter)
	if err != nil {
		s.logger.Error("failed to load leave report rows", zap.Error(err))
		return ReportResponse{}, err
	}

	byType := map[string]*ReportTypeCount{}
	for _, r := range rows {
		inMonth := 0
		var touched [trendMonths]bool
		for _, d := range r.Dates {
			i := (d.Date.Year()-trendStart.Year())*12 + int(d.Date.Month()) - int(trendStart.Month())
			if i < 0 || i >= trendMonths {
				continue
			}
			touched[i] = true
			if i == trendMonths-1 {
				inMonth++
			}
		}

		for i, hit := range touched {
			if !hit {
				continue
			}
			switch r.Status {
			case StatusApproved:
				resp.Trend[i].Approved++
			case StatusPending:
				resp.Trend[i].Pending++
			}
		}

		if inMonth == 0 {
			continue
		}
		resp.Stats.Total++
		switch r.Status {
		case StatusApproved:
			resp.Stats.Approved++
			resp.Stats.ApprovedDays += inMonth
			countType(byType, r)
		case StatusPending:
			resp.Stats.Pending++
		case StatusRejected:
			resp.Stats.Rejected++
		}
	}

	for _, c := range byType {
		resp.ByType = append(resp.ByType, *c)
	}
	sort.Slice(resp.ByType, func(i, j int) bool {
		if resp.ByType[i].Count != resp.ByType[j].Count {
			return resp.ByType[i].Count > resp.ByType[j].Count
		}
		return resp.ByType[i].Code < resp.ByType[j].Code
	})

	s.logger.Debug("leave report built",
		zap.String("actor_id", actorID.String()),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("rows", len(rows)),
	)
	return resp, nil
}

func countType(byType map[string]*ReportTypeCount, r LeaveRequest) {
	key := r.LeaveTypeID.String()
	c, ok := byType[key]
	if !ok {
		c = &ReportTypeCount{Code: key}
		if r.LeaveType != nil {
			c.Code, c.Name = r.LeaveType.Code, r.LeaveType.Name
		}
		byType[key] = c
	}
	c.Count++
}
