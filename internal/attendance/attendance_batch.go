package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/calendar"
	"github.com/Funnel-Builder/people-pulse/internal/employee"
	"github.com/Funnel-Builder/people-pulse/internal/events"
	"github.com/Funnel-Builder/people-pulse/internal/notification"
	"github.com/Funnel-Builder/people-pulse/internal/shared/contextutil"
	"github.com/Funnel-Builder/people-pulse/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeaveLookup reports which employees have an approved leave covering day.
type LeaveLookup interface {
	ApprovedLeaveEmployeeIDs(ctx context.Context, day time.Time) (map[uuid.UUID]bool, error)
}

// Batch runs the daily attendance jobs. Every method takes the target date
// and is safe to run again for the same date.
type Batch struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	holidays  calendar.Provider
	leaves    LeaveLookup
	notifier  notification.Notifier
	clock     dateutil.Clock
	logger    *zap.Logger
}

func NewBatch(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	holidays calendar.Provider,
	leaves LeaveLookup,
	notifier notification.Notifier,
	clock dateutil.Clock,
	logger ...*zap.Logger,
) *Batch {
	l := zap.L().Named("attendance.batch")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.batch")
	}
	if notifier == nil {
		notifier = notification.Noop{}
	}
	if clock == nil {
		clock = dateutil.SystemClock(time.UTC)
	}
	return &Batch{
		db:        db,
		repo:      repo,
		employees: employees,
		holidays:  holidays,
		leaves:    leaves,
		notifier:  notifier,
		clock:     clock,
		logger:    l,
	}
}

func label(e employee.Employee) string {
	if e.EmployeeNumber == "" {
		return e.FullName
	}
	return fmt.Sprintf("%s (%s)", e.FullName, e.EmployeeNumber)
}

func recipient(e employee.Employee) events.Recipient {
	return events.Recipient{ID: e.ID.String(), Name: e.FullName, Email: e.Email}
}

func (b *Batch) envelope(ctx context.Context, eventType string) events.Envelope {
	return events.Envelope{
		EventType:  eventType,
		RequestID:  contextutil.GetRequestID(ctx),
		OccurredAt: b.clock().UTC(),
	}
}

// MarkAbsent makes sure every eligible employee has a record for day.
// Holidays skip the whole run; otherwise each employee is, in order,
// skipped for a weekend, skipped when a record already exists, recorded as
// leave when an approved leave covers the day, or recorded as absent. Each
// write commits on its own so one failure does not undo the others.
func (b *Batch) MarkAbsent(ctx context.Context, day time.Time) (MarkReport, error) {
	day = dateutil.Day(day)
	report := MarkReport{Date: dateutil.Format(day)}

	holiday, err := b.holidays.IsHoliday(ctx, day)
	if err != nil {
		return report, err
	}
	if holiday {
		report.Holiday = true
		b.logger.Info("holiday, attendance marking skipped", zap.String("date", report.Date))
		return report, nil
	}

	staff, err := b.employees.FindAttendanceEligible(ctx, day)
	if err != nil {
		b.logger.Error("failed to load employees", zap.Error(err))
		return report, err
	}
	report.TotalEmployees = len(staff)
	if len(staff) == 0 {
		b.logger.Warn("no eligible employees", zap.String("date", report.Date))
		return report, nil
	}

	existing, err := b.repo.EmployeeIDsWithRecord(ctx, day)
	if err != nil {
		b.logger.Error("failed to load existing records", zap.Error(err))
		return report, err
	}
	onLeave, err := b.leaves.ApprovedLeaveEmployeeIDs(ctx, day)
	if err != nil {
		b.logger.Error("failed to load approved leaves", zap.Error(err))
		return report, err
	}

	for _, e := range staff {
		name := label(e)
		switch {
		case e.IsWeekend(day):
			report.SkippedWeekend = append(report.SkippedWeekend, name)
			continue
		case existing[e.ID]:
			report.SkippedExisting = append(report.SkippedExisting, name)
			continue
		}

		status := StatusAbsent
		if onLeave[e.ID] {
			status = StatusLeave
		}
		created, err := b.writeRecord(ctx, Synthesized(e.ID, day, status))
		switch {
		case err != nil:
			b.logger.Error("failed to mark attendance",
				zap.String("employee_id", e.ID.String()),
				zap.String("status", status),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, name)
		case !created:
			report.SkippedExisting = append(report.SkippedExisting, name)
		case status == StatusLeave:
			report.MarkedLeave = append(report.MarkedLeave, name)
		default:
			report.MarkedAbsent = append(report.MarkedAbsent, name)
		}
	}

	b.logger.Info("attendance marking completed",
		zap.String("date", report.Date),
		zap.Int("total_employees", report.TotalEmployees),
		zap.Int("marked_absent", len(report.MarkedAbsent)),
		zap.Int("marked_leave", len(report.MarkedLeave)),
		zap.Int("skipped_existing", len(report.SkippedExisting)),
		zap.Int("skipped_weekend", len(report.SkippedWeekend)),
		zap.Int("failed", len(report.Failed)),
		zap.Strings("absent_employees", report.MarkedAbsent),
		zap.Strings("leave_employees", report.MarkedLeave),
	)
	return report, nil
}

// writeRecord inserts row in its own transaction. A row that lost the race
// to a concurrent clock-in reports created=false.
func (b *Batch) writeRecord(ctx context.Context, row *AttendanceRecord) (bool, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if err := b.repo.WithTx(tx).Create(ctx, row); err != nil {
		if isDuplicateDay(err) {
			return false, nil
		}
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// NotifyMissedClockIn reminds every eligible employee who has neither a
// record nor an approved leave for day and is not on a weekend.
func (b *Batch) NotifyMissedClockIn(ctx context.Context, day time.Time) (ReminderReport, error) {
	day = dateutil.Day(day)
	report := ReminderReport{Date: dateutil.Format(day)}

	holiday, err := b.holidays.IsHoliday(ctx, day)
	if err != nil {
		return report, err
	}
	if holiday {
		report.Holiday = true
		b.logger.Info("holiday, clock-in reminders skipped", zap.String("date", report.Date))
		return report, nil
	}

	staff, err := b.employees.FindAttendanceEligible(ctx, day)
	if err != nil {
		return report, err
	}
	clocked, err := b.repo.EmployeeIDsWithRecord(ctx, day)
	if err != nil {
		return report, err
	}
	onLeave, err := b.leaves.ApprovedLeaveEmployeeIDs(ctx, day)
	if err != nil {
		return report, err
	}

	for _, e := range staff {
		if e.IsWeekend(day) || clocked[e.ID] || onLeave[e.ID] {
			report.Skipped++
			continue
		}
		err := b.notifier.NotifyClockInMissing(ctx, events.ClockInMissingEvent{
			Envelope: b.envelope(ctx, events.EventClockInMissing),
			Employee: recipient(e),
			Date:     report.Date,
		})
		if err != nil {
			b.logger.Warn("clock-in reminder failed", zap.String("employee_id", e.ID.String()), zap.Error(err))
			report.Failed = append(report.Failed, label(e))
			continue
		}
		report.Sent = append(report.Sent, label(e))
	}

	b.logger.Info("clock-in reminders sent",
		zap.String("date", report.Date),
		zap.Int("sent", len(report.Sent)),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

type openRecord struct {
	employee employee.Employee
	clockIn  time.Time
}

// openRecords pairs the day's unclosed records with their owners, leaving
// out admins and inactive employees.
func (b *Batch) openRecords(ctx context.Context, day time.Time) ([]openRecord, error) {
	rows, err := b.repo.FindOpen(ctx, day)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.EmployeeID)
	}
	staff, err := b.employees.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]employee.Employee, len(staff))
	for _, e := range staff {
		byID[e.ID] = e
	}

	out := make([]openRecord, 0, len(rows))
	for _, r := range rows {
		e, ok := byID[r.EmployeeID]
		if !ok || !e.Active() || e.IsAdmin() {
			continue
		}
		out = append(out, openRecord{employee: e, clockIn: *r.ClockIn})
	}
	return out, nil
}

// RemindClockOut reminds employees who clocked in on day but have not
// clocked out.
func (b *Batch) RemindClockOut(ctx context.Context, day time.Time) (ReminderReport, error) {
	day = dateutil.Day(day)
	report := ReminderReport{Date: dateutil.Format(day)}

	holiday, err := b.holidays.IsHoliday(ctx, day)
	if err != nil {
		return report, err
	}
	if holiday {
		report.Holiday = true
		return report, nil
	}

	open, err := b.openRecords(ctx, day)
	if err != nil {
		b.logger.Error("failed to load open records", zap.Error(err))
		return report, err
	}
	for _, o := range open {
		err := b.notifier.NotifyClockOutMissing(ctx, events.ClockOutMissingEvent{
			Envelope: b.envelope(ctx, events.EventClockOutMissing),
			Employee: recipient(o.employee),
			Date:     report.Date,
			ClockIn:  o.clockIn,
		})
		if err != nil {
			b.logger.Warn("clock-out reminder failed", zap.String("employee_id", o.employee.ID.String()), zap.Error(err))
			report.Failed = append(report.Failed, label(o.employee))
			continue
		}
		report.Sent = append(report.Sent, label(o.employee))
	}

	b.logger.Info("clock-out reminders sent",
		zap.String("date", report.Date),
		zap.Int("sent", len(report.Sent)),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

// NotifyAdminsMissedClockOut sends admins one digest of the day's unclosed
// records. Nothing is sent on a holiday or when every record was closed.
func (b *Batch) NotifyAdminsMissedClockOut(ctx context.Context, day time.Time) (ReminderReport, error) {
	day = dateutil.Day(day)
	report := ReminderReport{Date: dateutil.Format(day)}

	holiday, err := b.holidays.IsHoliday(ctx, day)
	if err != nil {
		return report, err
	}
	if holiday {
		report.Holiday = true
		b.logger.Info("holiday, missed clock-out digest skipped", zap.String("date", report.Date))
		return report, nil
	}

	open, err := b.openRecords(ctx, day)
	if err != nil {
		b.logger.Error("failed to load open records", zap.Error(err))
		return report, err
	}
	if len(open) == 0 {
		b.logger.Info("no missed clock-outs", zap.String("date", report.Date))
		return report, nil
	}

	admins, err := b.employees.FindAdmins(ctx)
	if err != nil {
		return report, err
	}
	if len(admins) == 0 {
		b.logger.Warn("no admins to notify", zap.String("date", report.Date))
		report.Skipped = len(open)
		return report, nil
	}

	evt := events.AdminsMissedClockOutEvent{
		Envelope: b.envelope(ctx, events.EventAdminsMissedClockOut),
		Date:     report.Date,
	}
	for _, a := range admins {
		evt.Admins = append(evt.Admins, recipient(a))
	}
	for _, o := range open {
		evt.Entries = append(evt.Entries, events.MissedClockOutEntry{Employee: recipient(o.employee), ClockIn: o.clockIn})
	}

	if err := b.notifier.NotifyAdminsMissedClockOut(ctx, evt); err != nil {
		b.logger.Warn("missed clock-out digest failed", zap.Error(err))
		for _, o := range open {
			report.Failed = append(report.Failed, label(o.employee))
		}
		return report, nil
	}
	for _, o := range open {
		report.Sent = append(report.Sent, label(o.employee))
	}
	b.logger.Info("missed clock-out digest sent",
		zap.String("date", report.Date),
		zap.Int("entries", len(open)),
		zap.Int("admins", len(admins)),
	)
	return report, nil
}
