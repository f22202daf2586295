package leave

import (
	"slices"

	"github.com/Funnel-Builder/people-pulse/internal/config"
	"github.com/Funnel-Builder/people-pulse/internal/employee"
	leaveerrors "github.com/Funnel-Builder/people-pulse/internal/leave/errors"

	"github.com/google/uuid"
)

// Actor is the employee acting on a request, with the sub-departments they
// manage resolved up front.
type Actor struct {
	Employee         employee.Employee
	ManagedSubDepIDs []uuid.UUID
}

// Approver decides who may act on one kind of approval step.
type Approver interface {
	Type() string
	Authorize(actor Actor, r LeaveRequest, requester employee.Employee) bool
}

type coverPersonApprover struct{}

func (coverPersonApprover) Type() string { return config.ApproverCoverPerson }

func (coverPersonApprover) Authorize(actor Actor, r LeaveRequest, _ employee.Employee) bool {
	return r.CoverPersonID != nil && *r.CoverPersonID == actor.Employee.ID
}

// managerApprover admits managers and admins who oversee the requester:
// through an explicit sub-department list when the actor has one, or by
// sharing the requester's department otherwise.
type managerApprover struct{}

func (managerApprover) Type() string { return config.ApproverManager }

func (managerApprover) Authorize(actor Actor, _ LeaveRequest, requester employee.Employee) bool {
	a := actor.Employee
	if !a.IsManager() && !a.IsAdmin() {
		return false
	}
	if len(actor.ManagedSubDepIDs) > 0 {
		return requester.SubDepartmentID != nil && slices.Contains(actor.ManagedSubDepIDs, *requester.SubDepartmentID)
	}
	return a.DepartmentID != nil && requester.DepartmentID != nil && *a.DepartmentID == *requester.DepartmentID
}

type adminApprover struct{}

func (adminApprover) Type() string { return config.ApproverAdmin }

func (adminApprover) Authorize(actor Actor, _ LeaveRequest, _ employee.Employee) bool {
	return actor.Employee.IsAdmin()
}

var approvers = map[string]Approver{
	config.ApproverCoverPerson: coverPersonApprover{},
	config.ApproverManager:     managerApprover{},
	config.ApproverAdmin:       adminApprover{},
}

func ApproverFor(approverType string) (Approver, error) {
	a, ok := approvers[approverType]
	if !ok {
		return nil, leaveerrors.ErrInvalidApproverType
	}
	return a, nil
}
