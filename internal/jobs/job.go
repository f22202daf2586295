package jobs

import (
	"context"
	"fmt"
	"slices"
	"time"

	joberrors "github.com/Funnel-Builder/people-pulse/internal/jobs/errors"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
)

const (
	CalculateAccrual     = "leave:calculate-accrual"
	MarkAbsent           = "attendance:mark-absent"
	DeactivateSeparated  = "employees:deactivate-separated"
	NotifyMissedClockIn  = "attendance:notify-missed-clockin"
	RemindClockOut       = "attendance:remind-clockout"
	NotifyMissedClockOut = "attendance:notify-missed-clockout"
)

// Params are the inputs every entry point (CLI flags, HTTP body, cron
// tick) reduces to. Zero values mean "today" and "this year".
type Params struct {
	Date       time.Time
	Year       int
	EmployeeID *uuid.UUID
	DryRun     bool
	// Force skips the per-key lock.
	Force bool
}

// Result is a batch report. Failures counts items that failed on their own
// without stopping the run.
type Result interface {
	Failures() int
}

type Job struct {
	Name        string
	Description string
	Run         func(ctx context.Context, p Params) (Result, error)
	// LockKey scopes the run lock; runs with the same key do not overlap
	// and a successful run is not repeated until the lock expires.
	LockKey func(p Params) string
}

type Registry struct {
	jobs map[string]Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: map[string]Job{}}
}

func (r *Registry) Register(j Job) {
	if _, dup := r.jobs[j.Name]; dup {
		panic(fmt.Sprintf("jobs: %s registered twice", j.Name))
	}
	r.jobs[j.Name] = j
}

func (r *Registry) Get(name string) (Job, error) {
	j, ok := r.jobs[name]
	if !ok {
		return Job{}, joberrors.ErrUnknownJob
	}
	return j, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.jobs))
	for n := range r.jobs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func dateKey(p Params) string {
	return dateutil.Format(p.Date)
}

// ParseParams turns the string inputs shared by the CLI and the HTTP
// trigger into Params.
func ParseParams(date string, year int, employeeID string, dryRun, force bool, loc *time.Location) (Params, error) {
	p := Params{Year: year, DryRun: dryRun, Force: force}
	if date != "" {
		d, err := dateutil.Parse(date, loc)
		if err != nil {
			return Params{}, joberrors.ErrInvalidDate
		}
		p.Date = d
	}
	if employeeID != "" {
		id, err := uuid.Parse(employeeID)
		if err != nil {
			return Params{}, joberrors.ErrInvalidEmployeeID
		}
		p.EmployeeID = &id
	}
	return p, nil
}
