package leavebalance

import (
	"context"
	"database/sql"

	"github.com/Funnel-Builder/people-pulse/internal/employee"
	leavebalanceerrors "github.com/Funnel-Builder/people-pulse/internal/leavebalance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	ListTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	Mine(ctx context.Context, employeeID uuid.UUID) ([]BalanceResponse, error)
	UpdateSettings(ctx context.Context, employeeID, leaveTypeID uuid.UUID, req UpdateSettingsRequest) (BalanceResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{db: db, repo: repo, employees: employees, logger: l}
}

func (s *service) ListTypes(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindActiveTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, mapTypeToResponse(t))
	}
	return out, nil
}

// Mine returns one balance per active leave type, creating missing rows.
func (s *service) Mine(ctx context.Context, employeeID uuid.UUID) ([]BalanceResponse, error) {
	s.logger.Debug("list own balances", zap.String("employee_id", employeeID.String()))
	types, err := s.repo.FindActiveTypes(ctx)
	if err != nil {
		s.logger.Error("failed to load leave types", zap.Error(err))
		return nil, err
	}

	out := make([]BalanceResponse, 0, len(types))
	for _, t := range types {
		b, err := s.repo.GetOrCreate(ctx, employeeID, t.ID)
		if err != nil {
			s.logger.Error("failed to load balance",
				zap.String("employee_id", employeeID.String()),
				zap.String("leave_type", t.Code),
				zap.Error(err),
			)
			return nil, err
		}
		out = append(out, mapToResponse(*b, t))
	}
	return out, nil
}

// UpdateSettings switches a balance between manual and attendance accrual.
// Manual mode also overwrites the balance when one is given.
func (s *service) UpdateSettings(ctx context.Context, employeeID, leaveTypeID uuid.UUID, req UpdateSettingsRequest) (BalanceResponse, error) {
	if req.AccrualType == AccrualAttendance && (req.AttendanceDaysThreshold == nil || *req.AttendanceDaysThreshold <= 0) {
		return BalanceResponse{}, leavebalanceerrors.ErrThresholdRequired
	}
	if req.Balance != nil && req.Balance.IsNegative() {
		return BalanceResponse{}, leavebalanceerrors.ErrNegativeBalance
	}

	e, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return BalanceResponse{}, employee.MapLookupError(err)
	}
	t, err := s.repo.FindTypeByID(ctx, leaveTypeID)
	if err != nil {
		return BalanceResponse{}, mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	b, err := qtx.GetOrCreate(ctx, e.ID, t.ID)
	if err != nil {
		return BalanceResponse{}, err
	}

	b.AccrualType = req.AccrualType
	b.AttendanceDaysThreshold = req.AttendanceDaysThreshold
	if req.AccrualType == AccrualManual {
		b.AttendanceDaysThreshold = nil
		if req.Balance != nil {
			b.Balance = *req.Balance
		}
	}

	if err := qtx.SaveSettings(ctx, b); err != nil {
		s.logger.Error("failed to save balance settings", zap.Error(err))
		return BalanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return BalanceResponse{}, err
	}

	s.logger.Info("balance settings updated",
		zap.String("employee_id", e.ID.String()),
		zap.String("leave_type", t.Code),
		zap.String("accrual_type", b.AccrualType),
		zap.String("balance", b.Balance.String()),
	)
	return mapToResponse(*b, *t), nil
}
