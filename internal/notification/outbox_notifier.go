package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/events"
	"github.com/Funnel-Builder/people-pulse/internal/messaging/kafka"
	"github.com/Funnel-Builder/people-pulse/internal/shared/contextutil"

	"github.com/google/uuid"
)

// OutboxNotifier queues notifications as outbox rows; the worker publishes
// them to Kafka and the consumer delivers the e-mail.
type OutboxNotifier struct {
	outbox kafka.OutboxRepository
	now    func() time.Time
}

func NewOutboxNotifier(outbox kafka.OutboxRepository) *OutboxNotifier {
	return &OutboxNotifier{outbox: outbox, now: time.Now}
}

func (n *OutboxNotifier) envelope(ctx context.Context, eventType string) events.Envelope {
	return events.Envelope{
		EventType:  eventType,
		RequestID:  contextutil.GetRequestID(ctx),
		OccurredAt: n.now().UTC(),
	}
}

func (n *OutboxNotifier) enqueue(ctx context.Context, env events.Envelope, aggregateType, aggregateID string, evt any) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     env.RequestID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     env.EventType,
		Topic:         events.NotificationTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (n *OutboxNotifier) NotifyLeaveApproved(ctx context.Context, evt events.LeaveApprovedEvent) error {
	evt.Envelope = n.envelope(ctx, events.EventLeaveApproved)
	return n.enqueue(ctx, evt.Envelope, "leave_request", evt.LeaveRequestID, evt)
}

func (n *OutboxNotifier) NotifyClockInMissing(ctx context.Context, evt events.ClockInMissingEvent) error {
	evt.Envelope = n.envelope(ctx, events.EventClockInMissing)
	return n.enqueue(ctx, evt.Envelope, "employee", evt.Employee.ID, evt)
}

func (n *OutboxNotifier) NotifyClockOutMissing(ctx context.Context, evt events.ClockOutMissingEvent) error {
	evt.Envelope = n.envelope(ctx, events.EventClockOutMissing)
	return n.enqueue(ctx, evt.Envelope, "employee", evt.Employee.ID, evt)
}

func (n *OutboxNotifier) NotifyAdminsMissedClockOut(ctx context.Context, evt events.AdminsMissedClockOutEvent) error {
	evt.Envelope = n.envelope(ctx, events.EventAdminsMissedClockOut)
	return n.enqueue(ctx, evt.Envelope, "attendance_day", evt.Date, evt)
}

func (n *OutboxNotifier) AlertBalanceShortfall(ctx context.Context, evt events.BalanceShortfallEvent) error {
	evt.Envelope = n.envelope(ctx, events.EventBalanceShortfall)
	return n.enqueue(ctx, evt.Envelope, "leave_request", evt.LeaveRequestID, evt)
}
