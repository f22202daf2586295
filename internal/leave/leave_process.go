package leave

import (
	"context"
	"strings"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/config"
	"github.com/Funnel-Builder/people-pulse/internal/employee"
	"github.com/Funnel-Builder/people-pulse/internal/events"
	leaveerrors "github.com/Funnel-Builder/people-pulse/internal/leave/errors"
	"github.com/Funnel-Builder/people-pulse/internal/leavebalance"
	"github.com/Funnel-Builder/people-pulse/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// shortfall is a final approval whose deduction did not fit the balance.
type shortfall struct {
	days      decimal.Decimal
	available decimal.Decimal
}

// Process applies an approve or reject decision to the request's current
// step. The step update, the request transition and, on the last approval,
// the balance deduction commit together. Notifications go out after commit.
func (s *service) Process(ctx context.Context, id, actorID uuid.UUID, req ProcessRequest) (LeaveResponse, error) {
	s.logger.Debug("process leave",
		zap.String("leave_id", id.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("action", req.Action),
	)

	actorEmp, err := s.people.Get(ctx, actorID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := employee.RequireActive(actorEmp); err != nil {
		return LeaveResponse{}, err
	}

	var comment *string
	if req.Comment != nil {
		if c := strings.TrimSpace(*req.Comment); c != "" {
			comment = &c
		}
	}

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

	chain := ChainOf(*r)
	step, ok := chain.CurrentStep()
	if !ok {
		s.logger.Warn("process leave without pending step",
			zap.String("leave_id", id.String()),
			zap.String("status", r.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrNoPendingApproval
	}

	if err := s.authorizeStep(ctx, *actorEmp, *r, step); err != nil {
		return LeaveResponse{}, err
	}

	tr, err := chain.Apply(req.Action, actorID, comment, s.clock())
	if err != nil {
		s.logger.Warn("process leave rejected input", zap.String("leave_id", id.String()), zap.Error(err))
		return LeaveResponse{}, err
	}

	updated, err := qtx.UpdateStep(ctx, tr.Step)
	if err != nil {
		s.logger.Error("failed to update approval step", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !updated {
		s.logger.Warn("approval step already decided", zap.String("leave_id", id.String()), zap.Int("step", step.StepNumber))
		return LeaveResponse{}, leaveerrors.ErrConcurrentUpdate
	}

	moved, err := qtx.Transition(ctx, r.ID, r.Version, r.CurrentApprovalStep, tr.Status, tr.Current)
	if err != nil {
		s.logger.Error("failed to update leave request", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !moved {
		s.logger.Warn("leave request changed concurrently", zap.String("leave_id", id.String()), zap.Int("version", r.Version))
		return LeaveResponse{}, leaveerrors.ErrConcurrentUpdate
	}

	var short *shortfall
	if tr.Completed {
		short, err = s.deduct(ctx, s.balances.WithTx(tx), *r)
		if err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return LeaveResponse{}, err
	}

	r.Status = tr.Status
	r.CurrentApprovalStep = tr.Current
	r.Version++
	for i := range r.Steps {
		if r.Steps[i].ID == tr.Step.ID {
			r.Steps[i] = tr.Step
		}
	}

	s.logger.Info("leave step processed",
		zap.String("leave_id", id.String()),
		zap.String("reference_no", r.ReferenceNo),
		zap.String("action", req.Action),
		zap.Int("step", step.StepNumber),
		zap.String("status", r.Status),
	)

	if tr.Completed {
		s.afterApproval(ctx, *r, short)
	}
	return mapToResponse(*r), nil
}

func (s *service) authorizeStep(ctx context.Context, actorEmp employee.Employee, r LeaveRequest, step ApprovalStep) error {
	approver, err := ApproverFor(step.ApproverType)
	if err != nil {
		s.logger.Error("unknown approver type on step",
			zap.String("leave_id", r.ID.String()),
			zap.String("approver_type", step.ApproverType),
		)
		return err
	}

	actor := Actor{Employee: actorEmp}
	if approver.Type() == config.ApproverManager {
		actor.ManagedSubDepIDs, err = s.people.ManagedSubDepartmentIDs(ctx, actorEmp)
		if err != nil {
			s.logger.Error("failed to resolve managed sub-departments", zap.Error(err))
			return err
		}
	}

	requester := r.Employee
	if requester == nil {
		requester, err = s.people.Get(ctx, r.EmployeeID)
		if err != nil {
			return err
		}
	}

	if !approver.Authorize(actor, r, *requester) {
		s.logger.Warn("actor not authorized for step",
			zap.String("leave_id", r.ID.String()),
			zap.String("actor_id", actorEmp.ID.String()),
			zap.String("approver_type", step.ApproverType),
		)
		return leaveerrors.ErrNotAuthorizedForStep
	}
	return nil
}

// deduct takes the request's days off its balance. A balance too small to
// cover them is reported back instead of failing the approval.
func (s *service) deduct(ctx context.Context, balances leavebalance.Repository, r LeaveRequest) (*shortfall, error) {
	b, err := balances.GetOrCreate(ctx, r.EmployeeID, r.LeaveTypeID)
	if err != nil {
		s.logger.Error("failed to load leave balance", zap.Error(err))
		return nil, err
	}

	days := decimal.NewFromInt(int64(len(r.Dates)))
	ok, err := balances.Deduct(ctx, b.ID, days)
	if err != nil {
		s.logger.Error("failed to deduct leave balance", zap.Error(err))
		return nil, err
	}
	if ok {
		s.logger.Info("leave balance deducted",
			zap.String("leave_id", r.ID.String()),
			zap.String("balance_id", b.ID.String()),
			zap.String("days", days.String()),
		)
		return nil, nil
	}

	s.logger.Error("leave balance shortfall on final approval",
		zap.String("leave_id", r.ID.String()),
		zap.String("reference_no", r.ReferenceNo),
		zap.String("balance_id", b.ID.String()),
		zap.String("days", days.String()),
		zap.String("available", b.Available().String()),
	)
	return &shortfall{days: days, available: b.Available()}, nil
}

func (s *service) afterApproval(ctx context.Context, r LeaveRequest, short *shortfall) {
	env := events.Envelope{
		EventType:  events.EventLeaveApproved,
		RequestID:  contextutil.GetRequestID(ctx),
		OccurredAt: time.Now().UTC(),
	}
	applicant := recipientOf(r.Employee, r.EmployeeID)
	leaveType := ""
	if r.LeaveType != nil {
		leaveType = r.LeaveType.Code
	}

	err := s.notifier.NotifyLeaveApproved(ctx, events.LeaveApprovedEvent{
		Envelope:       env,
		LeaveRequestID: r.ID.String(),
		ReferenceNo:    r.ReferenceNo,
		Employee:       applicant,
		LeaveType:      leaveType,
		Kind:           r.Kind,
		Dates:          r.DateStrings(),
	})
	if err != nil {
		s.logger.Warn("leave approved notification failed", zap.String("leave_id", r.ID.String()), zap.Error(err))
	}

	if short == nil {
		return
	}
	admins, err := s.people.Admins(ctx)
	if err != nil {
		s.logger.Error("failed to load admins for shortfall alert", zap.Error(err))
		return
	}
	recipients := make([]events.Recipient, 0, len(admins))
	for i := range admins {
		recipients = append(recipients, recipientOf(&admins[i], admins[i].ID))
	}
	env.EventType = events.EventBalanceShortfall
	err = s.notifier.AlertBalanceShortfall(ctx, events.BalanceShortfallEvent{
		Envelope:       env,
		Admins:         recipients,
		LeaveRequestID: r.ID.String(),
		ReferenceNo:    r.ReferenceNo,
		Employee:       applicant,
		LeaveType:      leaveType,
		Days:           short.days.String(),
		Available:      short.available.String(),
	})
	if err != nil {
		s.logger.Error("balance shortfall alert failed", zap.String("leave_id", r.ID.String()), zap.Error(err))
	}
}

func recipientOf(e *employee.Employee, id uuid.UUID) events.Recipient {
	if e == nil {
		return events.Recipient{ID: id.String()}
	}
	return events.Recipient{ID: e.ID.String(), Name: e.FullName, Email: e.Email}
}
