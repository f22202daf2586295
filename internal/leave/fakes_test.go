package leave_test

import (
	"context"
	"database/sql"
	"slices"
	"testing"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/employee"
	employeeerrors "github.com/Funnel-Builder/people-pulse/internal/employee/errors"
	"github.com/Funnel-Builder/people-pulse/internal/leave"
	"github.com/Funnel-Builder/people-pulse/internal/leavebalance"
	"github.com/Funnel-Builder/people-pulse/internal/shared/counter"

	leaveMock "github.com/Funnel-Builder/people-pulse/internal/leave/mock"
	leavebalanceMock "github.com/Funnel-Builder/people-pulse/internal/leavebalance/mock"
	counterMock "github.com/Funnel-Builder/people-pulse/internal/shared/counter/mock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// leaveStore is the in-memory state behind the leave repository mock.
type leaveStore struct {
	requests     map[uuid.UUID]*leave.LeaveRequest
	employees    map[uuid.UUID]employee.Employee
	booked       []time.Time
	transitionFn func(id uuid.UUID, fromVersion, fromStep int) (bool, error)
	lastFilter   leave.RecordFilter
}

func newLeaveRepo(t *testing.T, employees map[uuid.UUID]employee.Employee) (*leaveMock.MockRepository, *leaveStore) {
	t.Helper()
	s := &leaveStore{requests: map[uuid.UUID]*leave.LeaveRequest{}, employees: employees}
	m := leaveMock.NewMockRepository(gomock.NewController(t))

	m.EXPECT().WithTx(gomock.Any()).DoAndReturn(func(tx *sql.Tx) leave.Repository { return m }).AnyTimes()
	m.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(s.Create).AnyTimes()
	m.EXPECT().FindByID(gomock.Any(), gomock.Any()).DoAndReturn(s.FindByID).AnyTimes()
	m.EXPECT().LockByID(gomock.Any(), gomock.Any()).DoAndReturn(s.FindByID).AnyTimes()
	m.EXPECT().UpdateStep(gomock.Any(), gomock.Any()).DoAndReturn(s.UpdateStep).AnyTimes()
	m.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(s.Transition).AnyTimes()
	m.EXPECT().FindByEmployee(gomock.Any(), gomock.Any()).DoAndReturn(s.FindByEmployee).AnyTimes()
	m.EXPECT().FindCoverRequests(gomock.Any(), gomock.Any()).DoAndReturn(s.FindCoverRequests).AnyTimes()
	m.EXPECT().FindPendingAt(gomock.Any(), gomock.Any()).DoAndReturn(s.FindPendingAt).AnyTimes()
	m.EXPECT().FindActedSteps(gomock.Any(), gomock.Any()).DoAndReturn(s.FindActedSteps).AnyTimes()
	m.EXPECT().FindRecords(gomock.Any(), gomock.Any()).DoAndReturn(s.FindRecords).AnyTimes()
	m.EXPECT().BookedDates(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, employeeID uuid.UUID, dates []time.Time) ([]time.Time, error) {
			return s.booked, nil
		}).AnyTimes()
	m.EXPECT().ApprovedLeaveEmployeeIDs(gomock.Any(), gomock.Any()).Return(map[uuid.UUID]bool{}, nil).AnyTimes()
	return m, s
}

func clone(r *leave.LeaveRequest) *leave.LeaveRequest {
	cp := *r
	cp.Dates = slices.Clone(r.Dates)
	cp.Steps = slices.Clone(r.Steps)
	return &cp
}

// loaded mimics the preloads of the real repository.
func (s *leaveStore) loaded(r *leave.LeaveRequest) leave.LeaveRequest {
	cp := clone(r)
	if e, ok := s.employees[r.EmployeeID]; ok {
		cp.Employee = &e
	}
	return *cp
}

func (s *leaveStore) Create(ctx context.Context, r *leave.LeaveRequest) error {
	s.requests[r.ID] = clone(r)
	return nil
}

func (s *leaveStore) FindByID(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := s.loaded(r)
	return &out, nil
}

func (s *leaveStore) UpdateStep(ctx context.Context, step leave.ApprovalStep) (bool, error) {
	r, ok := s.requests[step.LeaveRequestID]
	if !ok {
		return false, nil
	}
	for i := range r.Steps {
		if r.Steps[i].ID == step.ID {
			if r.Steps[i].Status != leave.StepPending {
				return false, nil
			}
			r.Steps[i] = step
			return true, nil
		}
	}
	return false, nil
}

func (s *leaveStore) Transition(ctx context.Context, id uuid.UUID, fromVersion, fromStep int, status string, current int) (bool, error) {
	if s.transitionFn != nil {
		return s.transitionFn(id, fromVersion, fromStep)
	}
	r, ok := s.requests[id]
	if !ok || r.Version != fromVersion || r.CurrentApprovalStep != fromStep || r.Status != leave.StatusPending {
		return false, nil
	}
	r.Status = status
	r.CurrentApprovalStep = current
	r.Version++
	return true, nil
}

func (s *leaveStore) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range s.requests {
		if r.EmployeeID == employeeID {
			out = append(out, s.loaded(r))
		}
	}
	return out, nil
}

func (s *leaveStore) FindCoverRequests(ctx context.Context, coverPersonID uuid.UUID) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range s.requests {
		if r.CoverPersonID != nil && *r.CoverPersonID == coverPersonID && r.IsPending() && r.CurrentApprovalStep == 1 {
			out = append(out, s.loaded(r))
		}
	}
	return out, nil
}

func (s *leaveStore) FindPendingAt(ctx context.Context, approverTypes []string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range s.requests {
		step, ok := leave.ChainOf(*r).CurrentStep()
		if ok && slices.Contains(approverTypes, step.ApproverType) {
			out = append(out, s.loaded(r))
		}
	}
	return out, nil
}

func (s *leaveStore) FindActedSteps(ctx context.Context, approverID uuid.UUID) ([]leave.ApprovalStep, error) {
	var out []leave.ApprovalStep
	for _, r := range s.requests {
		for _, st := range r.Steps {
			if st.ApproverID != nil && *st.ApproverID == approverID && st.Status != leave.StepPending {
				req := s.loaded(r)
				st.LeaveRequest = &req
				out = append(out, st)
			}
		}
	}
	return out, nil
}

func (s *leaveStore) FindRecords(ctx context.Context, filter leave.RecordFilter) ([]leave.LeaveRequest, error) {
	s.lastFilter = filter
	var out []leave.LeaveRequest
	for _, r := range s.requests {
		out = append(out, s.loaded(r))
	}
	return out, nil
}

// balanceStore is the in-memory state behind the leave balance repository
// mock.
type balanceStore struct {
	types    []leavebalance.LeaveType
	balances map[uuid.UUID]*leavebalance.LeaveBalance
	deducts  int
}

func newBalanceRepo(t *testing.T, types ...leavebalance.LeaveType) (*leavebalanceMock.MockRepository, *balanceStore) {
	t.Helper()
	s := &balanceStore{types: types, balances: map[uuid.UUID]*leavebalance.LeaveBalance{}}
	m := leavebalanceMock.NewMockRepository(gomock.NewController(t))

	m.EXPECT().WithTx(gomock.Any()).DoAndReturn(func(tx *sql.Tx) leavebalance.Repository { return m }).AnyTimes()
	m.EXPECT().FindTypeByCode(gomock.Any(), gomock.Any()).DoAndReturn(s.FindTypeByCode).AnyTimes()
	m.EXPECT().GetOrCreate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(s.GetOrCreate).AnyTimes()
	m.EXPECT().Deduct(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(s.Deduct).AnyTimes()
	return m, s
}

func (s *balanceStore) FindTypeByCode(ctx context.Context, code string) (*leavebalance.LeaveType, error) {
	for _, t := range s.types {
		if t.Code == code && t.IsActive {
			cp := t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *balanceStore) GetOrCreate(ctx context.Context, employeeID, leaveTypeID uuid.UUID) (*leavebalance.LeaveBalance, error) {
	for _, b := range s.balances {
		if b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID {
			cp := *b
			return &cp, nil
		}
	}
	b := &leavebalance.LeaveBalance{ID: uuid.New(), EmployeeID: employeeID, LeaveTypeID: leaveTypeID, AccrualType: leavebalance.AccrualManual}
	s.balances[b.ID] = b
	cp := *b
	return &cp, nil
}

func (s *balanceStore) Deduct(ctx context.Context, id uuid.UUID, days decimal.Decimal) (bool, error) {
	b, ok := s.balances[id]
	if !ok || !b.CanCover(days) {
		return false, nil
	}
	b.Used = b.Used.Add(days)
	s.deducts++
	return true, nil
}

func (s *balanceStore) set(employeeID, leaveTypeID uuid.UUID, balance int64) *leavebalance.LeaveBalance {
	b := &leavebalance.LeaveBalance{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Balance:     decimal.NewFromInt(balance),
		AccrualType: leavebalance.AccrualManual,
	}
	s.balances[b.ID] = b
	return b
}

// newCounterRepo hands out reference numbers 1, 2, 3...
func newCounterRepo(t *testing.T) *counterMock.MockRepository {
	t.Helper()
	var next int64
	m := counterMock.NewMockRepository(gomock.NewController(t))
	m.EXPECT().WithTx(gomock.Any()).DoAndReturn(func(tx *sql.Tx) counter.Repository { return m }).AnyTimes()
	m.EXPECT().GetNextValue(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, scope, counterType string) (int64, error) {
			next++
			return next, nil
		}).AnyTimes()
	return m
}

type fakeDirectory struct {
	people  map[uuid.UUID]employee.Employee
	managed map[uuid.UUID][]uuid.UUID
}

func (f *fakeDirectory) Get(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	e, ok := f.people[id]
	if !ok {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	return &e, nil
}

func (f *fakeDirectory) ManagedSubDepartmentIDs(ctx context.Context, e employee.Employee) ([]uuid.UUID, error) {
	return f.managed[e.ID], nil
}

func (f *fakeDirectory) Admins(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.people {
		if e.IsAdmin() {
			out = append(out, e)
		}
	}
	return out, nil
}
