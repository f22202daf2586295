package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Funnel-Builder/people-pulse/internal/events"

	"go.uber.org/zap"
)

// ErrUndeliverable marks a message that can never be delivered, such as
// malformed JSON or an unknown event type.
var ErrUndeliverable = errors.New("undeliverable notification")

func IsUndeliverable(err error) bool {
	return errors.Is(err, ErrUndeliverable)
}

// Dispatcher turns a notification message from the topic into e-mail.
type Dispatcher struct {
	mailer Mailer
	logger *zap.Logger
}

func NewDispatcher(mailer Mailer, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &Dispatcher{mailer: mailer, logger: l}
}

func (d *Dispatcher) Handle(ctx context.Context, payload []byte) error {
	var env events.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("%w: decode envelope: %v", ErrUndeliverable, err)
	}

	email, err := buildEmail(env.EventType, payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUndeliverable, err)
	}
	if len(email.To) == 0 {
		d.logger.Warn("notification has no recipients", zap.String("event_type", env.EventType))
		return nil
	}

	if err := d.mailer.Send(ctx, email); err != nil {
		return err
	}
	d.logger.Info("notification sent",
		zap.String("event_type", env.EventType),
		zap.String("request_id", env.RequestID),
		zap.Int("recipients", len(email.To)),
	)
	return nil
}

func buildEmail(eventType string, payload []byte) (Email, error) {
	switch eventType {
	case events.EventLeaveApproved:
		var evt events.LeaveApprovedEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			return Email{}, err
		}
		return Email{
			To:      emails(evt.Employee),
			Subject: fmt.Sprintf("Leave %s approved", evt.ReferenceNo),
			Text: fmt.Sprintf("Hi %s,\n\nYour %s leave for %s has been approved.\n",
				evt.Employee.Name, evt.LeaveType, strings.Join(evt.Dates, ", ")),
		}, nil

	case events.EventClockInMissing:
		var evt events.ClockInMissingEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			return Email{}, err
		}
		return Email{
			To:      emails(evt.Employee),
			Subject: "Clock-in reminder",
			Text:    fmt.Sprintf("Hi %s,\n\nWe have no clock-in from you for %s.\n", evt.Employee.Name, evt.Date),
		}, nil

	case events.EventClockOutMissing:
		var evt events.ClockOutMissingEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			return Email{}, err
		}
		return Email{
			To:      emails(evt.Employee),
			Subject: "Clock-out reminder",
			Text: fmt.Sprintf("Hi %s,\n\nYou clocked in at %s on %s and have not clocked out yet.\n",
				evt.Employee.Name, evt.ClockIn.Format("15:04"), evt.Date),
		}, nil

	case events.EventAdminsMissedClockOut:
		var evt events.AdminsMissedClockOutEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			return Email{}, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Employees without a clock-out on %s:\n\n", evt.Date)
		for _, e := range evt.Entries {
			fmt.Fprintf(&b, "- %s (in at %s)\n", e.Employee.Name, e.ClockIn.Format("15:04"))
		}
		return Email{
			To:      emails(evt.Admins...),
			Subject: fmt.Sprintf("Missed clock-outs for %s", evt.Date),
			Text:    b.String(),
		}, nil

	case events.EventBalanceShortfall:
		var evt events.BalanceShortfallEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			return Email{}, err
		}
		return Email{
			To:      emails(evt.Admins...),
			Subject: fmt.Sprintf("Leave balance shortfall on %s", evt.ReferenceNo),
			Text: fmt.Sprintf("%s's %s leave %s was approved for %s day(s) but only %s were available. The balance was not deducted.\n",
				evt.Employee.Name, evt.LeaveType, evt.ReferenceNo, evt.Days, evt.Available),
		}, nil
	}
	return Email{}, fmt.Errorf("unknown notification event type %q", eventType)
}

func emails(rs ...events.Recipient) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		if r.Email != "" {
			out = append(out, r.Email)
		}
	}
	return out
}
