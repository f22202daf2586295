package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Funnel-Builder/people-pulse/internal/config"
	"github.com/Funnel-Builder/people-pulse/internal/employee"
	leaveerrors "github.com/Funnel-Builder/people-pulse/internal/leave/errors"
	"github.com/Funnel-Builder/people-pulse/internal/leavebalance"
	"github.com/Funnel-Builder/people-pulse/internal/notification"
	"github.com/Funnel-Builder/people-pulse/internal/shared/apperror"
	"github.com/Funnel-Builder/people-pulse/internal/shared/counter"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	counterScope = "leave_request"
	counterType  = "reference_no"
)

// Directory is the slice of the employee service the leave engine reads:
// who someone is, which sub-departments they manage, and who the admins are.
type Directory interface {
	Get(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
	ManagedSubDepartmentIDs(ctx context.Context, e employee.Employee) ([]uuid.UUID, error)
	Admins(ctx context.Context) ([]employee.Employee, error)
}

type Service interface {
	CreateAdvance(ctx context.Context, employeeID uuid.UUID, req CreateAdvanceRequest) (LeaveResponse, error)
	CreatePost(ctx context.Context, employeeID uuid.UUID, req CreatePostRequest) (LeaveResponse, error)
	Process(ctx context.Context, id, actorID uuid.UUID, req ProcessRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID) (LeaveResponse, error)
	Get(ctx context.Context, id, actorID uuid.UUID) (LeaveResponse, error)
	ListMine(ctx context.Context, actorID uuid.UUID) ([]LeaveResponse, error)
	CoverRequests(ctx context.Context, actorID uuid.UUID) ([]LeaveResponse, error)
	PendingApprovals(ctx context.Context, actorID uuid.UUID) ([]LeaveResponse, error)
	ApprovalHistory(ctx context.Context, actorID uuid.UUID) (ApprovalHistoryResponse, error)
	WarningDates(ctx context.Context, req WarningDatesRequest) (WarningDatesResponse, error)
	Records(ctx context.Context, actorID uuid.UUID, req RecordsRequest) ([]LeaveResponse, error)
	Export(ctx context.Context, actorID uuid.UUID, req RecordsRequest) ([]byte, error)
	Report(ctx context.Context, actorID uuid.UUID, req ReportRequest) (ReportResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	balances leavebalance.Repository
	counter  counter.Repository
	people   Directory
	notifier notification.Notifier
	policy   config.LeavePolicy
	clock    dateutil.Clock
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balances leavebalance.Repository,
	counterRepo counter.Repository,
	people Directory,
	notifier notification.Notifier,
	policy config.LeavePolicy,
	clock dateutil.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if clock == nil {
		clock = dateutil.SystemClock(time.UTC)
	}
	if notifier == nil {
		notifier = notification.Noop{}
	}
	return &service{
		db:       db,
		repo:     repo,
		balances: balances,
		counter:  counterRepo,
		people:   people,
		notifier: notifier,
		policy:   policy,
		clock:    clock,
		logger:   l,
	}
}

// application is a validated create request, independent of its kind.
type application struct {
	employeeID       uuid.UUID
	kind             string
	leaveTypeCode    string
	reason           string
	rawDates         []string
	coverPersonID    *uuid.UUID
	warningConfirmed bool
}

func (s *service) CreateAdvance(ctx context.Context, employeeID uuid.UUID, req CreateAdvanceRequest) (LeaveResponse, error) {
	s.logger.Debug("create advance leave", zap.String("employee_id", employeeID.String()))

	coverID, err := uuid.Parse(req.CoverPersonID)
	if err != nil {
		s.logger.Warn("create advance leave missing cover person", zap.String("employee_id", employeeID.String()))
		return LeaveResponse{}, leaveerrors.ErrCoverPersonRequired
	}
	return s.create(ctx, application{
		employeeID:       employeeID,
		kind:             config.KindAdvance,
		leaveTypeCode:    req.LeaveType,
		reason:           req.Reason,
		rawDates:         req.Dates,
		coverPersonID:    &coverID,
		warningConfirmed: req.WarningConfirmed,
	})
}

func (s *service) CreatePost(ctx context.Context, employeeID uuid.UUID, req CreatePostRequest) (LeaveResponse, error) {
	s.logger.Debug("create post leave", zap.String("employee_id", employeeID.String()))
	return s.create(ctx, application{
		employeeID:    employeeID,
		kind:          config.KindPost,
		leaveTypeCode: req.LeaveType,
		reason:        req.Reason,
		rawDates:      req.Dates,
	})
}

func (s *service) create(ctx context.Context, app application) (LeaveResponse, error) {
	applicant, err := s.people.Get(ctx, app.employeeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := employee.RequireActive(applicant); err != nil {
		return LeaveResponse{}, err
	}

	reason := strings.TrimSpace(app.reason)
	if n := utf8.RuneCountInString(reason); n < s.policy.ReasonMinLength || (s.policy.ReasonMaxLength > 0 && n > s.policy.ReasonMaxLength) {
		s.logger.Warn("create leave invalid reason length", zap.Int("length", n))
		return LeaveResponse{}, leaveerrors.ErrReasonLength.WithDetails(map[string]int{
			"min": s.policy.ReasonMinLength,
			"max": s.policy.ReasonMaxLength,
		})
	}

	today := dateutil.Today(s.clock)
	dates, err := parseDates(app.rawDates, today.Location())
	if err != nil {
		s.logger.Warn("create leave invalid dates", zap.Strings("dates", app.rawDates), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := checkDatesForKind(app.kind, dates, today); err != nil {
		s.logger.Warn("create leave dates out of range",
			zap.String("kind", app.kind),
			zap.Strings("dates", formatDates(dates)),
		)
		return LeaveResponse{}, err
	}

	if app.kind == config.KindAdvance {
		if err := s.checkCoverPerson(ctx, app.employeeID, app.coverPersonID); err != nil {
			return LeaveResponse{}, err
		}
		if warn := warningDates(dates, today, s.policy.WarningDays); len(warn) > 0 && !app.warningConfirmed {
			s.logger.Warn("create leave short notice not confirmed", zap.Strings("warning_dates", formatDates(warn)))
			return LeaveResponse{}, leaveerrors.ErrWarningNotConfirmed.WithDetails(map[string]any{
				"warning_days":  s.policy.WarningDays,
				"warning_dates": formatDates(warn),
			})
		}
	}

	code := strings.TrimSpace(app.leaveTypeCode)
	if code == "" {
		code = s.policy.DefaultLeaveType(app.kind)
	}
	leaveType, err := s.balances.FindTypeByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("create leave unknown leave type", zap.String("leave_type", code))
			return LeaveResponse{}, leaveerrors.ErrLeaveTypeUnavailable
		}
		s.logger.Error("failed to load leave type", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	booked, err := qtx.BookedDates(ctx, app.employeeID, dates)
	if err != nil {
		s.logger.Error("failed to check booked dates", zap.Error(err))
		return LeaveResponse{}, err
	}
	if len(booked) > 0 {
		s.logger.Warn("create leave overlaps existing request", zap.Strings("dates", formatDates(booked)))
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap.WithDetails(formatDates(booked))
	}

	next, err := s.counter.WithTx(tx).GetNextValue(ctx, counterScope, counterType)
	if err != nil {
		s.logger.Error("failed to generate reference number", zap.Error(err))
		return LeaveResponse{}, err
	}

	id := uuid.New()
	steps := s.policy.ApprovalSteps[app.kind]
	req := &LeaveRequest{
		ID:                  id,
		ReferenceNo:         fmt.Sprintf("LV-%06d", next),
		EmployeeID:          app.employeeID,
		LeaveTypeID:         leaveType.ID,
		Kind:                app.kind,
		Reason:              reason,
		CoverPersonID:       app.coverPersonID,
		Status:              StatusPending,
		CurrentApprovalStep: 1,
		TotalSteps:          len(steps),
		Version:             1,
		WarningConfirmed:    app.warningConfirmed,
		Steps:               BuildSteps(id, steps),
	}
	for _, d := range dates {
		req.Dates = append(req.Dates, LeaveDate{ID: uuid.New(), LeaveRequestID: id, Date: d})
	}

	if err := qtx.Create(ctx, req); err != nil {
		if mapped := mapRepositoryError(err); mapped != err {
			return LeaveResponse{}, mapped
		}
		s.logger.Error("failed to create leave request", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return LeaveResponse{}, err
	}

	req.Employee = applicant
	req.LeaveType = leaveType
	resp := mapToResponse(*req)
	resp.BalanceWarning = s.balanceWarning(ctx, *req)

	s.logger.Info("leave request created",
		zap.String("leave_id", id.String()),
		zap.String("reference_no", req.ReferenceNo),
		zap.String("kind", app.kind),
		zap.Int("days", len(dates)),
		zap.Int("steps", req.TotalSteps),
	)
	return resp, nil
}

func (s *service) checkCoverPerson(ctx context.Context, applicantID uuid.UUID, coverID *uuid.UUID) error {
	if coverID == nil || *coverID == uuid.Nil {
		s.logger.Warn("create advance leave missing cover person")
		return leaveerrors.ErrCoverPersonRequired
	}
	if *coverID == applicantID {
		s.logger.Warn("create advance leave self cover", zap.String("employee_id", applicantID.String()))
		return leaveerrors.ErrSelfCover
	}
	cover, err := s.people.Get(ctx, *coverID)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			s.logger.Warn("create advance leave unknown cover person", zap.String("cover_person_id", coverID.String()))
			return leaveerrors.ErrCoverPersonUnavailable
		}
		return err
	}
	if !cover.Active() {
		s.logger.Warn("create advance leave inactive cover person", zap.String("cover_person_id", coverID.String()))
		return leaveerrors.ErrCoverPersonUnavailable
	}
	return nil
}

// balanceWarning checks the request against the current balance. The check
// is advisory only; the final approval does the real deduction.
func (s *service) balanceWarning(ctx context.Context, r LeaveRequest) *string {
	b, err := s.balances.GetOrCreate(ctx, r.EmployeeID, r.LeaveTypeID)
	if err != nil {
		s.logger.Warn("balance check failed", zap.String("leave_id", r.ID.String()), zap.Error(err))
		return nil
	}
	days := decimal.NewFromInt(int64(len(r.Dates)))
	if b.CanCover(days) {
		return nil
	}
	msg := fmt.Sprintf("requested %s day(s) but only %s available", days.String(), b.Available().String())
	s.logger.Warn("leave request exceeds balance",
		zap.String("leave_id", r.ID.String()),
		zap.String("requested", days.String()),
		zap.String("available", b.Available().String()),
	)
	return &msg
}

// Cancel withdraws the owner's pending request. Steps and balances are left
// as they are.
func (s *service) Cancel(ctx context.Context, id, actorID uuid.UUID) (LeaveResponse, error) {
	s.logger.Debug("cancel leave", zap.String("leave_id", id.String()), zap.String("actor_id", actorID.String()))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	r, err := qtx.LockByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if r.EmployeeID != actorID {
		s.logger.Warn("cancel leave not owner", zap.String("leave_id", id.String()), zap.String("actor_id", actorID.String()))
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if !r.IsPending() {
		s.logger.Warn("cancel leave not pending", zap.String("leave_id", id.String()), zap.String("status", r.Status))
		return LeaveResponse{}, leaveerrors.ErrNotCancellable
	}

	ok, err := qtx.Transition(ctx, r.ID, r.Version, r.CurrentApprovalStep, StatusCancelled, r.CurrentApprovalStep)
	if err != nil {
		s.logger.Error("failed to cancel leave", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrConcurrentUpdate
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return LeaveResponse{}, err
	}

	r.Status = StatusCancelled
	r.Version++
	s.logger.Info("leave cancelled", zap.String("leave_id", id.String()), zap.String("reference_no", r.ReferenceNo))
	return mapToResponse(*r), nil
}

// Get returns one request to its owner, its cover person, or any manager
// or admin.
func (s *service) Get(ctx context.Context, id, actorID uuid.UUID) (LeaveResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if r.EmployeeID == actorID || (r.CoverPersonID != nil && *r.CoverPersonID == actorID) {
		return mapToResponse(*r), nil
	}
	actor, err := s.people.Get(ctx, actorID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !actor.IsManager() && !actor.IsAdmin() {
		s.logger.Warn("view leave forbidden", zap.String("leave_id", id.String()), zap.String("actor_id", actorID.String()))
		return LeaveResponse{}, leaveerrors.ErrLeaveForbidden
	}
	return mapToResponse(*r), nil
}

func (s *service) ListMine(ctx context.Context, actorID uuid.UUID) ([]LeaveResponse, error) {
	rows, err := s.repo.FindByEmployee(ctx, actorID)
	if err != nil {
		s.logger.Error("failed to list leave requests", zap.Error(err))
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) CoverRequests(ctx context.Context, actorID uuid.UUID) ([]LeaveResponse, error) {
	rows, err := s.repo.FindCoverRequests(ctx, actorID)
	if err != nil {
		s.logger.Error("failed to list cover requests", zap.Error(err))
		return nil, err
	}
	return mapToResponses(rows), nil
}

// PendingApprovals lists the pending manager and admin steps the actor is
// allowed to act on now. Cover person steps are listed by CoverRequests.
func (s *service) PendingApprovals(ctx context.Context, actorID uuid.UUID) ([]LeaveResponse, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var types []string
	switch {
	case actor.Employee.IsAdmin():
		types = []string{config.ApproverManager, config.ApproverAdmin}
	case actor.Employee.IsManager():
		types = []string{config.ApproverManager}
	default:
		return []LeaveResponse{}, nil
	}

	rows, err := s.repo.FindPendingAt(ctx, types)
	if err != nil {
		s.logger.Error("failed to list pending approvals", zap.Error(err))
		return nil, err
	}

	out := make([]LeaveResponse, 0, len(rows))
	for _, r := range rows {
		step, ok := ChainOf(r).CurrentStep()
		if !ok || r.Employee == nil {
			continue
		}
		approver, err := ApproverFor(step.ApproverType)
		if err != nil {
			continue
		}
		if approver.Authorize(actor, r, *r.Employee) {
			out = append(out, mapToResponse(r))
		}
	}
	return out, nil
}

func (s *service) ApprovalHistory(ctx context.Context, actorID uuid.UUID) (ApprovalHistoryResponse, error) {
	steps, err := s.repo.FindActedSteps(ctx, actorID)
	if err != nil {
		s.logger.Error("failed to list approval history", zap.Error(err))
		return ApprovalHistoryResponse{}, err
	}

	resp := ApprovalHistoryResponse{Items: make([]ApprovalHistoryItem, 0, len(steps))}
	for _, st := range steps {
		resp.Items = append(resp.Items, mapHistoryItem(st))
		switch st.Status {
		case StepApproved:
			resp.Stats.Approved++
		case StepRejected:
			resp.Stats.Rejected++
		}
	}
	resp.Stats.Total = len(steps)
	return resp, nil
}

func (s *service) WarningDates(ctx context.Context, req WarningDatesRequest) (WarningDatesResponse, error) {
	today := dateutil.Today(s.clock)
	dates, err := parseDates(req.Dates, today.Location())
	if err != nil {
		return WarningDatesResponse{}, err
	}
	return WarningDatesResponse{
		WarningDays:  s.policy.WarningDays,
		WarningDates: formatDates(warningDates(dates, today, s.policy.WarningDays)),
	}, nil
}

// Records lists requests with dates inside the range. Admins see every
// sub-department; managers only the ones they manage.
func (s *service) Records(ctx context.Context, actorID uuid.UUID, req RecordsRequest) ([]LeaveResponse, error) {
	rows, err := s.records(ctx, actorID, req)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) records(ctx context.Context, actorID uuid.UUID, req RecordsRequest) ([]LeaveRequest, error) {
	loc := dateutil.Today(s.clock).Location()
	from, err := dateutil.Parse(req.From, loc)
	if err != nil {
		return nil, leaveerrors.ErrInvalidDateFormat
	}
	to, err := dateutil.Parse(req.To, loc)
	if err != nil {
		return nil, leaveerrors.ErrInvalidDateFormat
	}
	if from.After(to) {
		return nil, leaveerrors.ErrInvalidDateRange
	}

	filter := RecordFilter{From: from, To: to, Status: req.Status}
	ok, err := s.scopeRecords(ctx, actorID, req.SubDepartmentID, &filter)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []LeaveRequest{}, nil
	}

	rows, err := s.repo.FindRecords(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list leave records", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

// scopeRecords narrows filter to what the actor may see. Admins see every
// sub-department, managers only the ones they manage. ok is false when a
// manager manages nothing, so there is nothing to load.
func (s *service) scopeRecords(ctx context.Context, actorID uuid.UUID, subDepartmentID string, filter *RecordFilter) (bool, error) {
	var requested *uuid.UUID
	if subDepartmentID != "" {
		id, err := uuid.Parse(subDepartmentID)
		if err != nil {
			return false, apperror.InvalidField("sub_department_id")
		}
		requested = &id
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return false, err
	}
	switch {
	case actor.Employee.IsAdmin():
		if requested != nil {
			filter.SubDepartmentIDs = []uuid.UUID{*requested}
		}
	case actor.Employee.IsManager():
		if len(actor.ManagedSubDepIDs) == 0 {
			return false, nil
		}
		filter.SubDepartmentIDs = actor.ManagedSubDepIDs
		if requested != nil {
			if !slices.Contains(actor.ManagedSubDepIDs, *requested) {
				s.logger.Warn("records outside managed sub-departments", zap.String("actor_id", actorID.String()))
				return false, leaveerrors.ErrLeaveForbidden
			}
			filter.SubDepartmentIDs = []uuid.UUID{*requested}
		}
	default:
		return false, leaveerrors.ErrLeaveForbidden
	}
	return true, nil
}

// actor loads an active employee and the sub-departments they manage.
func (s *service) actor(ctx context.Context, id uuid.UUID) (Actor, error) {
	e, err := s.people.Get(ctx, id)
	if err != nil {
		return Actor{}, err
	}
	if err := employee.RequireActive(e); err != nil {
		return Actor{}, err
	}
	managed, err := s.people.ManagedSubDepartmentIDs(ctx, *e)
	if err != nil {
		s.logger.Error("failed to resolve managed sub-departments", zap.Error(err))
		return Actor{}, err
	}
	return Actor{Employee: *e, ManagedSubDepIDs: managed}, nil
}

// parseDates parses, de-duplicates-checks and sorts YYYY-MM-DD values.
func parseDates(raw []string, loc *time.Location) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, leaveerrors.ErrDatesRequired
	}
	seen := make(map[string]bool, len(raw))
	dates := make([]time.Time, 0, len(raw))
	for _, v := range raw {
		d, err := dateutil.Parse(v, loc)
		if err != nil {
			return nil, leaveerrors.ErrInvalidDateFormat
		}
		key := dateutil.Format(d)
		if seen[key] {
			return nil, leaveerrors.ErrDuplicateDates
		}
		seen[key] = true
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates, nil
}

func checkDatesForKind(kind string, dates []time.Time, today time.Time) error {
	for _, d := range dates {
		switch kind {
		case config.KindAdvance:
			if !d.After(today) {
				return leaveerrors.ErrAdvanceDateNotFuture
			}
		case config.KindPost:
			if d.After(today) {
				return leaveerrors.ErrPostDateInFuture
			}
		}
	}
	return nil
}

// warningDates returns the dates in (today, today+days].
func warningDates(dates []time.Time, today time.Time, days int) []time.Time {
	limit := today.AddDate(0, 0, days)
	var out []time.Time
	for _, d := range dates {
		if d.After(today) && !d.After(limit) {
			out = append(out, d)
		}
	}
	return out
}
