package attendance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/attendance"
	"github.com/Funnel-Builder/people-pulse/internal/employee"

	attendanceMock "github.com/Funnel-Builder/people-pulse/internal/attendance/mock"
	employeeMock "github.com/Funnel-Builder/people-pulse/internal/employee/mock"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// recordStore keeps one attendance row per employee behind the generated
// repository mock.
type recordStore struct {
	mock      *attendanceMock.MockRepository
	records   map[uuid.UUID]*attendance.AttendanceRecord
	createFn  func(ctx context.Context, a *attendance.AttendanceRecord) error
	findAllFn func(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceRecord, error)
	openFn    func(ctx context.Context, day time.Time) ([]attendance.AttendanceRecord, error)
	created   []*attendance.AttendanceRecord
	updated   []*attendance.AttendanceRecord
}

func newAttendanceRepo(t *testing.T) *recordStore {
	t.Helper()
	s := &recordStore{
		mock:    attendanceMock.NewMockRepository(gomock.NewController(t)),
		records: map[uuid.UUID]*attendance.AttendanceRecord{},
	}
	m := s.mock
	m.EXPECT().WithTx(gomock.Any()).DoAndReturn(func(tx *sql.Tx) attendance.Repository { return m }).AnyTimes()
	m.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(s.Create).AnyTimes()
	m.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(s.Update).AnyTimes()
	m.EXPECT().FindByEmployeeAndDate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(s.FindByEmployeeAndDate).AnyTimes()
	m.EXPECT().FindAll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, filter attendance.ListFilter) ([]attendance.AttendanceRecord, error) {
			return s.findAllFn(ctx, filter)
		}).AnyTimes()
	m.EXPECT().EmployeeIDsWithRecord(gomock.Any(), gomock.Any()).DoAndReturn(s.EmployeeIDsWithRecord).AnyTimes()
	m.EXPECT().FindOpen(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, day time.Time) ([]attendance.AttendanceRecord, error) {
			return s.openFn(ctx, day)
		}).AnyTimes()
	return s
}

func (s *recordStore) Create(ctx context.Context, a *attendance.AttendanceRecord) error {
	if s.createFn != nil {
		if err := s.createFn(ctx, a); err != nil {
			return err
		}
	}
	s.created = append(s.created, a)
	s.records[a.EmployeeID] = a
	return nil
}

func (s *recordStore) Update(ctx context.Context, a *attendance.AttendanceRecord) error {
	s.updated = append(s.updated, a)
	s.records[a.EmployeeID] = a
	return nil
}

func (s *recordStore) FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, day time.Time) (*attendance.AttendanceRecord, error) {
	if r, ok := s.records[employeeID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *recordStore) EmployeeIDsWithRecord(ctx context.Context, day time.Time) (map[uuid.UUID]bool, error) {
	out := map[uuid.UUID]bool{}
	for id := range s.records {
		out[id] = true
	}
	return out, nil
}

// newEmployeeRepo answers the employee lookups the attendance package
// makes from a fixed staff list.
func newEmployeeRepo(t *testing.T, staff, admins []employee.Employee) *employeeMock.MockRepository {
	t.Helper()
	m := employeeMock.NewMockRepository(gomock.NewController(t))
	m.EXPECT().FindByID(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
			for _, e := range staff {
				if e.ID == id {
					cp := e
					return &cp, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		}).AnyTimes()
	m.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, ids []uuid.UUID) ([]employee.Employee, error) {
			var out []employee.Employee
			for _, e := range append(append([]employee.Employee{}, staff...), admins...) {
				for _, id := range ids {
					if e.ID == id {
						out = append(out, e)
					}
				}
			}
			return out, nil
		}).AnyTimes()
	m.EXPECT().FindAttendanceEligible(gomock.Any(), gomock.Any()).Return(staff, nil).AnyTimes()
	m.EXPECT().FindAdmins(gomock.Any()).Return(admins, nil).AnyTimes()
	return m
}
