package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/Funnel-Builder/people-pulse/internal/events"

	"github.com/slack-go/slack"
)

type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

// SlackAlerter mirrors admin-facing notifications into Slack. Employee
// reminders are left to e-mail.
type SlackAlerter struct {
	client  SlackPoster
	options SlackOption
}

func NewSlack(token string, options SlackOption) *SlackAlerter {
	return NewSlackWithClient(slack.New(token), options)
}

func NewSlackWithClient(client SlackPoster, options SlackOption) *SlackAlerter {
	return &SlackAlerter{client: client, options: options}
}

func (s *SlackAlerter) postMessage(ctx context.Context, channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessageContext(ctx,
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *SlackAlerter) Info(ctx context.Context, message string) error {
	return s.postMessage(ctx, s.options.InfoChannelID, message)
}

func (s *SlackAlerter) Error(ctx context.Context, message string) error {
	return s.postMessage(ctx, s.options.ErrorChannelID, message)
}

func (s *SlackAlerter) NotifyLeaveApproved(context.Context, events.LeaveApprovedEvent) error {
	return nil
}

func (s *SlackAlerter) NotifyClockInMissing(context.Context, events.ClockInMissingEvent) error {
	return nil
}

func (s *SlackAlerter) NotifyClockOutMissing(context.Context, events.ClockOutMissingEvent) error {
	return nil
}

func (s *SlackAlerter) NotifyAdminsMissedClockOut(ctx context.Context, evt events.AdminsMissedClockOutEvent) error {
	var b strings.Builder
	fmt.Fprintf(&b, ":clock6: %d employee(s) did not clock out on %s\n", len(evt.Entries), evt.Date)
	for _, e := range evt.Entries {
		fmt.Fprintf(&b, "• %s (clocked in %s)\n", e.Employee.Name, e.ClockIn.Format("15:04"))
	}
	return s.Info(ctx, b.String())
}

func (s *SlackAlerter) AlertBalanceShortfall(ctx context.Context, evt events.BalanceShortfallEvent) error {
	msg := fmt.Sprintf(
		":warning: Leave %s for %s was approved but the %s balance could not cover it (requested %s, available %s). The balance was not deducted.",
		evt.ReferenceNo, evt.Employee.Name, evt.LeaveType, evt.Days, evt.Available,
	)
	return s.Error(ctx, msg)
}
