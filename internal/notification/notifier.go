package notification

import (
	"context"
	"errors"

	"github.com/Funnel-Builder/people-pulse/internal/events"
)

// Notifier is the outbound side of the core: approvals and attendance
// reminders call it after their own work is committed. Callers log a
// returned error and carry on.
//
//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	NotifyLeaveApproved(ctx context.Context, evt events.LeaveApprovedEvent) error
	NotifyClockInMissing(ctx context.Context, evt events.ClockInMissingEvent) error
	NotifyClockOutMissing(ctx context.Context, evt events.ClockOutMissingEvent) error
	NotifyAdminsMissedClockOut(ctx context.Context, evt events.AdminsMissedClockOutEvent) error
	AlertBalanceShortfall(ctx context.Context, evt events.BalanceShortfallEvent) error
}

// Multi fans every call out to all notifiers and joins their errors.
type Multi []Notifier

func (m Multi) NotifyLeaveApproved(ctx context.Context, evt events.LeaveApprovedEvent) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.NotifyLeaveApproved(ctx, evt))
	}
	return errors.Join(errs...)
}

func (m Multi) NotifyClockInMissing(ctx context.Context, evt events.ClockInMissingEvent) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.NotifyClockInMissing(ctx, evt))
	}
	return errors.Join(errs...)
}

func (m Multi) NotifyClockOutMissing(ctx context.Context, evt events.ClockOutMissingEvent) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.NotifyClockOutMissing(ctx, evt))
	}
	return errors.Join(errs...)
}

func (m Multi) NotifyAdminsMissedClockOut(ctx context.Context, evt events.AdminsMissedClockOutEvent) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.NotifyAdminsMissedClockOut(ctx, evt))
	}
	return errors.Join(errs...)
}

func (m Multi) AlertBalanceShortfall(ctx context.Context, evt events.BalanceShortfallEvent) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.AlertBalanceShortfall(ctx, evt))
	}
	return errors.Join(errs...)
}

// Noop drops everything. Used when a binary runs without a broker.
type Noop struct{}

func (Noop) NotifyLeaveApproved(context.Context, events.LeaveApprovedEvent) error { return nil }
func (Noop) NotifyClockInMissing(context.Context, events.ClockInMissingEvent) error { return nil }
func (Noop) NotifyClockOutMissing(context.Context, events.ClockOutMissingEvent) error {
	return nil
}
func (Noop) NotifyAdminsMissedClockOut(context.Context, events.AdminsMissedClockOutEvent) error {
	return nil
}
func (Noop) AlertBalanceShortfall(context.Context, events.BalanceShortfallEvent) error { return nil }
