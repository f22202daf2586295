package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "github.com/Funnel-Builder/people-pulse/internal/attendance/errors"
	"github.com/Funnel-Builder/people-pulse/internal/config"
	"github.com/Funnel-Builder/people-pulse/internal/employee"
	employeeerrors "github.com/Funnel-Builder/people-pulse/internal/employee/errors"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor is the authenticated caller of a listing.
type Actor struct {
	EmployeeID uuid.UUID
	CanReadAll bool
}

type Service interface {
	ClockIn(ctx context.Context, employeeID uuid.UUID, ip string) (AttendanceResponse, error)
	ClockOut(ctx context.Context, employeeID uuid.UUID, ip string) (AttendanceResponse, error)
	List(ctx context.Context, actor Actor, req ListRequest) ([]AttendanceResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	office    config.OfficeHours
	clock     dateutil.Clock
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	office config.OfficeHours,
	clock dateutil.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if clock == nil {
		clock = dateutil.SystemClock(time.UTC)
	}
	return &service{db: db, repo: repo, employees: employees, office: office, clock: clock, logger: l}
}

func (s *service) activeEmployee(ctx context.Context, id uuid.UUID) error {
	e, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return employee.MapLookupError(err)
	}
	return employee.RequireActive(e)
}

func (s *service) ClockIn(ctx context.Context, employeeID uuid.UUID, ip string) (AttendanceResponse, error) {
	s.logger.Debug("clock in", zap.String("employee_id", employeeID.String()))
	if err := s.activeEmployee(ctx, employeeID); err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.clock()
	today := dateutil.Day(now)

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to load attendance", zap.Error(err))
		return AttendanceResponse{}, err
	}

	create := row == nil
	switch {
	case create:
		row = &AttendanceRecord{ID: uuid.New(), EmployeeID: employeeID, AttendanceDate: today}
	case row.Status == StatusLeave:
		s.logger.Warn("clock in on leave day", zap.String("employee_id", employeeID.String()))
		return AttendanceResponse{}, attendanceerrors.ErrOnLeave
	case row.ClockIn != nil:
		s.logger.Warn("already clocked in", zap.String("employee_id", employeeID.String()))
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	// A record synthesized by the daily batch (absent) is replaced by the
	// real clock-in.
	row.Status = StatusPresent
	row.ClockIn = &now
	if ip != "" {
		row.ClockInIP = &ip
	}
	row.IsLate, row.LateMinutes = false, 0
	if start := s.office.StartOn(now); now.After(start) {
		row.IsLate = true
		row.LateMinutes = int(now.Sub(start).Minutes())
	}

	if create {
		err = qtx.Create(ctx, row)
	} else {
		err = qtx.Update(ctx, row)
	}
	if err != nil {
		if isDuplicateDay(err) {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
		}
		s.logger.Error("failed to save clock in", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("clocked in",
		zap.String("employee_id", employeeID.String()),
		zap.Bool("late", row.IsLate),
		zap.Int("late_minutes", row.LateMinutes),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, employeeID uuid.UUID, ip string) (AttendanceResponse, error) {
	s.logger.Debug("clock out", zap.String("employee_id", employeeID.String()))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.clock()

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, dateutil.Day(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNotClockedIn
		}
		s.logger.Error("failed to load attendance", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if row.ClockIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNotClockedIn
	}
	if row.ClockOut != nil {
		s.logger.Warn("already clocked out", zap.String("employee_id", employeeID.String()))
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	row.ClockOut = &now
	if ip != "" {
		row.ClockOutIP = &ip
	}
	applyWorkedMinutes(row, s.office)

	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("failed to save clock out", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("clocked out",
		zap.String("employee_id", employeeID.String()),
		zap.Int("net_minutes", row.NetMinutes),
		zap.Bool("early_exit", row.IsEarlyExit),
	)
	return mapToResponse(*row), nil
}

// applyWorkedMinutes derives the minute counters of a closed record. The
// configured break is never more than the time actually worked.
func applyWorkedMinutes(row *AttendanceRecord, office config.OfficeHours) {
	out := *row.ClockOut
	gross := int(out.Sub(*row.ClockIn).Minutes())
	if gross < 0 {
		gross = 0
	}
	brk := min(office.BreakMinutes, gross)

	row.GrossMinutes = gross
	row.BreakMinutes = brk
	row.NetMinutes = gross - brk
	row.IsEarlyExit, row.EarlyExitMinutes = false, 0
	if end := office.EndOn(out); out.Before(end) {
		row.IsEarlyExit = true
		row.EarlyExitMinutes = int(end.Sub(out).Minutes())
	}
}

func (s *service) List(ctx context.Context, actor Actor, req ListRequest) ([]AttendanceResponse, error) {
	filter := ListFilter{}
	switch {
	case !actor.CanReadAll:
		id := actor.EmployeeID
		filter.EmployeeID = &id
	case req.EmployeeID != "":
		id, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return nil, employeeerrors.ErrInvalidEmployeeID
		}
		filter.EmployeeID = &id
	}

	loc := s.clock().Location()
	if req.From != "" {
		from, err := dateutil.Parse(req.From, loc)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDateRange
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := dateutil.Parse(req.To, loc)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDateRange
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, err
	}
	out := make([]AttendanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapToResponse(r))
	}
	return out, nil
}
