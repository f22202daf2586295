package leave

import (
	"time"

	leaveerrors "github.com/Funnel-Builder/people-pulse/internal/leave/errors"

	"github.com/google/uuid"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// BuildSteps creates the pending approval steps for approverTypes, numbered
// from 1 in order.
func BuildSteps(requestID uuid.UUID, approverTypes []string) []ApprovalStep {
	steps := make([]ApprovalStep, 0, len(approverTypes))
	for i, t := range approverTypes {
		steps = append(steps, ApprovalStep{
			ID:             uuid.New(),
			LeaveRequestID: requestID,
			StepNumber:     i + 1,
			ApproverType:   t,
			Status:         StepPending,
		})
	}
	return steps
}

// Chain is the approval cursor of one request: which step is current, how
// many there are, and the step records themselves.
type Chain struct {
	Status  string
	Current int
	Total   int
	Steps   []ApprovalStep
}

func ChainOf(r LeaveRequest) Chain {
	return Chain{Status: r.Status, Current: r.CurrentApprovalStep, Total: r.TotalSteps, Steps: r.Steps}
}

// CurrentStep returns the step the chain is waiting on, or false when the
// request is no longer pending or the step record is missing.
func (c Chain) CurrentStep() (ApprovalStep, bool) {
	if c.Status != StatusPending {
		return ApprovalStep{}, false
	}
	for _, s := range c.Steps {
		if s.StepNumber == c.Current && s.Status == StepPending {
			return s, true
		}
	}
	return ApprovalStep{}, false
}

// Transition is the result of acting on the current step.
type Transition struct {
	Step    ApprovalStep
	Status  string
	Current int
	// Completed is true only when the last step was approved.
	Completed bool
}

// Apply records actor's decision on the current step. A rejection ends the
// request and leaves later steps untouched; an approval advances the cursor
// or completes the chain.
func (c Chain) Apply(action string, actorID uuid.UUID, comment *string, now time.Time) (Transition, error) {
	step, ok := c.CurrentStep()
	if !ok {
		return Transition{}, leaveerrors.ErrNoPendingApproval
	}

	step.ApproverID = &actorID
	step.Comment = comment
	acted := now
	step.ActedAt = &acted

	switch action {
	case ActionReject:
		if comment == nil || *comment == "" {
			return Transition{}, leaveerrors.ErrCommentRequired
		}
		step.Status = StepRejected
		return Transition{Step: step, Status: StatusRejected, Current: c.Current}, nil
	case ActionApprove:
		step.Status = StepApproved
		if c.Current < c.Total {
			return Transition{Step: step, Status: StatusPending, Current: c.Current + 1}, nil
		}
		return Transition{Step: step, Status: StatusApproved, Current: c.Current, Completed: true}, nil
	default:
		return Transition{}, leaveerrors.ErrInvalidAction
	}
}
