package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/department"
	employeeerrors "github.com/Funnel-Builder/people-pulse/internal/employee/errors"
	"github.com/Funnel-Builder/people-pulse/internal/shared/contextutil"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ManagedKeyPrefix      = "employees:managed:"
	CoverOptionsKeyPrefix = "employees:cover-options:"

	managedTTL      = time.Hour
	coverOptionsTTL = 10 * time.Minute
)

func GetManagedKey(managerID uuid.UUID) string {
	return ManagedKeyPrefix + managerID.String()
}

// GetCoverOptionsKey keys the cached candidate list by sub-department;
// "all" holds the unrestricted list admins see.
func GetCoverOptionsKey(subDepartmentID *uuid.UUID) string {
	if subDepartmentID == nil {
		return CoverOptionsKeyPrefix + "all"
	}
	return CoverOptionsKeyPrefix + subDepartmentID.String()
}

type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*Employee, error)
	ManagedSubDepartmentIDs(ctx context.Context, e Employee) ([]uuid.UUID, error)
	Admins(ctx context.Context) ([]Employee, error)
	InvalidateManaged(ctx context.Context, managerID uuid.UUID) error
	CoverOptions(ctx context.Context, actorID uuid.UUID) ([]EmployeeResponse, error)
	DeactivateSeparated(ctx context.Context, today time.Time, dryRun bool) (DeactivationReport, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	depts  department.Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, depts department.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		depts:  depts,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return e, nil
}

// ManagedSubDepartmentIDs resolves the sub-departments a manager approves for:
// the explicit assignments when any exist, else the manager's own
// sub-department, else every sub-department of the manager's department.
// Anyone who is not a manager manages nothing.
func (s *service) ManagedSubDepartmentIDs(ctx context.Context, e Employee) ([]uuid.UUID, error) {
	if !e.IsManager() {
		return []uuid.UUID{}, nil
	}

	cacheKey := GetManagedKey(e.ID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var ids []uuid.UUID
			if json.Unmarshal([]byte(cached), &ids) == nil {
				return ids, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		ids, err := s.resolveManaged(ctx, e)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if data, err := json.Marshal(ids); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, data, managedTTL).Err(); err != nil {
					s.logger.Warn("cache managed sub-departments failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return ids, nil
	})
	if err != nil {
		s.logger.Error("resolve managed sub-departments failed",
			zap.String("manager_id", e.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return v.([]uuid.UUID), nil
}

func (s *service) resolveManaged(ctx context.Context, e Employee) ([]uuid.UUID, error) {
	explicit, err := s.depts.ExplicitSubDepartmentIDs(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if len(explicit) > 0 {
		return explicit, nil
	}
	if e.SubDepartmentID != nil {
		return []uuid.UUID{*e.SubDepartmentID}, nil
	}
	if e.DepartmentID != nil {
		ids, err := s.depts.SubDepartmentIDsOf(ctx, *e.DepartmentID)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []uuid.UUID{}
		}
		return ids, nil
	}
	return []uuid.UUID{}, nil
}

func (s *service) Admins(ctx context.Context) ([]Employee, error) {
	rows, err := s.repo.FindAdmins(ctx)
	if err != nil {
		s.logger.Error("failed to load admins", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

func (s *service) InvalidateManaged(ctx context.Context, managerID uuid.UUID) error {
	if s.rdb == nil {
		return nil
	}
	cacheKey := GetManagedKey(managerID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate managed sub-departments cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
		return err
	}
	return nil
}

// CoverOptions lists who the actor may nominate as cover person: any other
// active employee for an admin, otherwise active colleagues of the same
// sub-department. Someone without a sub-department gets an empty list.
func (s *service) CoverOptions(ctx context.Context, actorID uuid.UUID) ([]EmployeeResponse, error) {
	actor, err := s.repo.FindByID(ctx, actorID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	var scope *uuid.UUID
	if !actor.IsAdmin() {
		if actor.SubDepartmentID == nil {
			return []EmployeeResponse{}, nil
		}
		scope = actor.SubDepartmentID
	}

	cacheKey := GetCoverOptionsKey(scope)
	var all []EmployeeResponse
	cached := false
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			if json.Unmarshal([]byte(raw), &all) == nil {
				cached = true
			}
		}
	}

	if !cached {
		v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
			rows, err := s.repo.FindCoverCandidates(ctx, scope)
			if err != nil {
				return nil, mapRepositoryError(err)
			}
			resp := mapToListResponse(rows)
			if s.rdb != nil {
				if data, err := json.Marshal(resp); err == nil {
					if err := s.rdb.Set(ctx, cacheKey, data, coverOptionsTTL).Err(); err != nil {
						s.logger.Warn("cache cover options failed", zap.String("key", cacheKey), zap.Error(err))
					}
				}
			}
			return resp, nil
		})
		if err != nil {
			s.logger.Error("cover options lookup failed", zap.String("key", cacheKey), zap.Error(err))
			return nil, err
		}
		all = v.([]EmployeeResponse)
	}

	self := actorID.String()
	out := make([]EmployeeResponse, 0, len(all))
	for _, e := range all {
		if e.ID != self {
			out = append(out, e)
		}
	}
	return out, nil
}

// DeactivateSeparated marks every still-active employee whose closing date
// has passed as inactive. A dry run only reports the candidates.
func (s *service) DeactivateSeparated(ctx context.Context, today time.Time, dryRun bool) (DeactivationReport, error) {
	rid := contextutil.GetRequestID(ctx)
	report := DeactivationReport{
		Date:       dateutil.Format(today),
		DryRun:     dryRun,
		Candidates: []DeactivatedEmployee{},
	}
	s.logger.Debug("deactivate separated employees requested",
		zap.String("request_id", rid),
		zap.String("date", report.Date),
		zap.Bool("dry_run", dryRun),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("deactivate begin tx failed", zap.Error(err))
		return report, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rows, err := qtx.FindSeparated(ctx, today)
	if err != nil {
		s.logger.Error("find separated employees failed", zap.Error(err))
		return report, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, e := range rows {
		ids = append(ids, e.ID)
		report.Candidates = append(report.Candidates, mapToDeactivated(e))
	}

	if dryRun || len(ids) == 0 {
		s.logger.Info("deactivate separated employees finished",
			zap.Int("candidates", len(ids)),
			zap.Bool("dry_run", dryRun),
		)
		return report, nil
	}

	n, err := qtx.Deactivate(ctx, ids)
	if err != nil {
		s.logger.Error("deactivate employees failed", zap.Error(err))
		return report, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("deactivate commit failed", zap.Error(err))
		return report, err
	}
	report.Deactivated = n

	s.invalidateCoverOptions(ctx, rows)
	for _, e := range rows {
		if e.IsManager() {
			// Logged inside; a stale entry expires with managedTTL.
			_ = s.InvalidateManaged(ctx, e.ID)
		}
	}
	s.logger.Info("deactivate separated employees finished",
		zap.Int("candidates", len(ids)),
		zap.Int64("deactivated", n),
	)
	return report, nil
}

func (s *service) invalidateCoverOptions(ctx context.Context, rows []Employee) {
	if s.rdb == nil {
		return
	}
	keys := []string{GetCoverOptionsKey(nil)}
	seen := map[string]bool{keys[0]: true}
	for _, e := range rows {
		k := GetCoverOptionsKey(e.SubDepartmentID)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate cover options cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

// RequireActive fails for a missing or deactivated employee.
func RequireActive(e *Employee) error {
	if e == nil {
		return employeeerrors.ErrEmployeeNotFound
	}
	if !e.Active() {
		return employeeerrors.ErrEmployeeInactive
	}
	return nil
}
