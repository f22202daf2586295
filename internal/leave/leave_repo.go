package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecordFilter struct {
	From             time.Time
	To               time.Time
	SubDepartmentIDs []uuid.UUID
	Status           string
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	LockByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	UpdateStep(ctx context.Context, step ApprovalStep) (bool, error)
	Transition(ctx context.Context, id uuid.UUID, fromVersion, fromStep int, status string, current int) (bool, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error)
	FindCoverRequests(ctx context.Context, coverPersonID uuid.UUID) ([]LeaveRequest, error)
	FindPendingAt(ctx context.Context, approverTypes []string) ([]LeaveRequest, error)
	FindActedSteps(ctx context.Context, approverID uuid.UUID) ([]ApprovalStep, error)
	FindRecords(ctx context.Context, filter RecordFilter) ([]LeaveRequest, error)
	BookedDates(ctx context.Context, employeeID uuid.UUID, dates []time.Time) ([]time.Time, error)
	ApprovedLeaveEmployeeIDs(ctx context.Context, day time.Time) (map[uuid.UUID]bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Dates", func(db *gorm.DB) *gorm.DB { return db.Order("date") }).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_number") }).
		Preload("Employee").
		Preload("LeaveType")
}

// Create inserts the request together with its dates and approval steps.
func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	return r.conn(ctx).Omit("Employee", "LeaveType").Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var req LeaveRequest
	if err := r.conn(ctx).Scopes(withDetails).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// LockByID loads the request with SELECT ... FOR UPDATE. It must run inside
// a transaction; the lock is held until that transaction ends.
func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(withDetails).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateStep writes the decision on a step that is still pending and
// reports whether it did.
func (r *repository) UpdateStep(ctx context.Context, step ApprovalStep) (bool, error) {
	res := r.conn(ctx).
		Model(&ApprovalStep{}).
		Where("id = ? AND status = ?", step.ID, StepPending).
		Updates(map[string]any{
			"status":      step.Status,
			"approver_id": step.ApproverID,
			"comment":     step.Comment,
			"acted_at":    step.ActedAt,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Transition moves a pending request to status/current and bumps its
// version, but only if nobody changed it since it was read at fromVersion
// and fromStep.
func (r *repository) Transition(ctx context.Context, id uuid.UUID, fromVersion, fromStep int, status string, current int) (bool, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("version = ? AND current_approval_step = ? AND status = ?", fromVersion, fromStep, StatusPending).
		Updates(map[string]any{
			"status":                status,
			"current_approval_step": current,
			"version":               gorm.Expr("version + 1"),
			"updated_at":            time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Scopes(withDetails).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindCoverRequests lists pending requests still waiting on coverPersonID
// at the first step.
func (r *repository) FindCoverRequests(ctx context.Context, coverPersonID uuid.UUID) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Scopes(withDetails).
		Where("cover_person_id = ?", coverPersonID).
		Where("status = ? AND current_approval_step = ?", StatusPending, 1).
		Order("created_at").
		Find(&rows).Error
	return rows, err
}

// FindPendingAt lists pending requests whose current step has one of
// approverTypes.
func (r *repository) FindPendingAt(ctx context.Context, approverTypes []string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	if len(approverTypes) == 0 {
		return rows, nil
	}
	err := r.conn(ctx).
		Scopes(withDetails).
		Joins("JOIN leave_approval_steps s ON s.leave_request_id = leave_requests.id AND s.step_number = leave_requests.current_approval_step").
		Where("leave_requests.status = ? AND s.status = ?", StatusPending, StepPending).
		Where("s.approver_type IN ?", approverTypes).
		Order("leave_requests.created_at").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActedSteps(ctx context.Context, approverID uuid.UUID) ([]ApprovalStep, error) {
	var rows []ApprovalStep
	err := r.conn(ctx).
		Preload("LeaveRequest").
		Preload("LeaveRequest.Employee").
		Preload("LeaveRequest.LeaveType").
		Where("approver_id = ? AND status <> ?", approverID, StepPending).
		Order("acted_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindRecords lists requests with at least one date inside the filter
// range, optionally narrowed to requesters of some sub-departments.
func (r *repository) FindRecords(ctx context.Context, filter RecordFilter) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	db := r.conn(ctx).
		Scopes(withDetails).
		Where("EXISTS (SELECT 1 FROM leave_dates d WHERE d.leave_request_id = leave_requests.id AND d.date BETWEEN ? AND ?)",
			dateutil.Format(filter.From), dateutil.Format(filter.To))
	if len(filter.SubDepartmentIDs) > 0 {
		db = db.Where("employee_id IN (SELECT id FROM users WHERE sub_department_id IN ?)", filter.SubDepartmentIDs)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	err := db.Order("created_at").Find(&rows).Error
	return rows, err
}

// BookedDates returns which of dates the employee already has on a pending
// or approved request.
func (r *repository) BookedDates(ctx context.Context, employeeID uuid.UUID, dates []time.Time) ([]time.Time, error) {
	var booked []time.Time
	if len(dates) == 0 {
		return booked, nil
	}
	err := r.conn(ctx).
		Model(&LeaveDate{}).
		Joins("JOIN leave_requests r ON r.id = leave_dates.leave_request_id").
		Where("r.employee_id = ? AND r.status IN ?", employeeID, []string{StatusPending, StatusApproved}).
		Where("leave_dates.date IN ?", formatDates(dates)).
		Pluck("leave_dates.date", &booked).Error
	return booked, err
}

// ApprovedLeaveEmployeeIDs returns the employees with an approved request
// covering day.
func (r *repository) ApprovedLeaveEmployeeIDs(ctx context.Context, day time.Time) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Distinct("leave_requests.employee_id").
		Joins("JOIN leave_dates d ON d.leave_request_id = leave_requests.id").
		Where("leave_requests.status = ? AND d.date = ?", StatusApproved, dateutil.Format(day)).
		Pluck("leave_requests.employee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
