package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/events"
	"github.com/Funnel-Builder/people-pulse/internal/messaging/kafka"
	kafkamock "github.com/Funnel-Builder/people-pulse/internal/messaging/kafka/mock"
	"github.com/Funnel-Builder/people-pulse/internal/notification/mock"
	"github.com/Funnel-Builder/people-pulse/internal/shared/contextutil"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOutboxNotifier_NotifyLeaveApproved(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := kafkamock.NewMockOutboxRepository(ctrl)

	var got kafka.OutboxEvent
	outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, e kafka.OutboxEvent) error {
			got = e
			return nil
		})

	n := NewOutboxNotifier(outbox)
	n.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }

	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	err := n.NotifyLeaveApproved(ctx, events.LeaveApprovedEvent{
		LeaveRequestID: "req-1",
		ReferenceNo:    "LV-000001",
		Employee:       events.Recipient{ID: "e-1", Name: "Ann", Email: "ann@example.com"},
		Dates:          []string{"2026-03-10"},
	})
	require.NoError(t, err)

	assert.Equal(t, events.NotificationTopic, got.Topic)
	assert.Equal(t, events.EventLeaveApproved, got.EventType)
	assert.Equal(t, "req-1", got.AggregateID)
	assert.Equal(t, "rid-1", got.RequestID)
	assert.Equal(t, kafka.OutboxStatusPending, got.Status)

	var decoded events.LeaveApprovedEvent
	require.NoError(t, json.Unmarshal(got.Payload, &decoded))
	assert.Equal(t, events.EventLeaveApproved, decoded.EventType)
	assert.Equal(t, "LV-000001", decoded.ReferenceNo)
}

func TestMulti_JoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mock.NewMockNotifier(ctrl)
	second := mock.NewMockNotifier(ctrl)

	boom := errors.New("boom")
	first.EXPECT().NotifyClockInMissing(gomock.Any(), gomock.Any()).Return(boom)
	second.EXPECT().NotifyClockInMissing(gomock.Any(), gomock.Any()).Return(nil)

	err := Multi{first, second}.NotifyClockInMissing(context.Background(), events.ClockInMissingEvent{})
	assert.ErrorIs(t, err, boom)
}

type fakePoster struct {
	channels []string
	err      error
}

func (f *fakePoster) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.channels = append(f.channels, channelID)
	return channelID, "1", f.err
}

func TestSlackAlerter(t *testing.T) {
	ctx := context.Background()

	t.Run("shortfall goes to error channel", func(t *testing.T) {
		poster := &fakePoster{}
		s := NewSlackWithClient(poster, SlackOption{InfoChannelID: "info", ErrorChannelID: "err"})
		require.NoError(t, s.AlertBalanceShortfall(ctx, events.BalanceShortfallEvent{ReferenceNo: "LV-1"}))
		assert.Equal(t, []string{"err"}, poster.channels)
	})

	t.Run("missed clock-out goes to info channel", func(t *testing.T) {
		poster := &fakePoster{}
		s := NewSlackWithClient(poster, SlackOption{InfoChannelID: "info", ErrorChannelID: "err"})
		require.NoError(t, s.NotifyAdminsMissedClockOut(ctx, events.AdminsMissedClockOutEvent{Date: "2026-03-02"}))
		assert.Equal(t, []string{"info"}, poster.channels)
	})

	t.Run("employee reminders are not posted", func(t *testing.T) {
		poster := &fakePoster{}
		s := NewSlackWithClient(poster, SlackOption{InfoChannelID: "info", ErrorChannelID: "err"})
		require.NoError(t, s.NotifyClockInMissing(ctx, events.ClockInMissingEvent{}))
		assert.Empty(t, poster.channels)
	})

	t.Run("unset channel is skipped", func(t *testing.T) {
		poster := &fakePoster{}
		s := NewSlackWithClient(poster, SlackOption{})
		require.NoError(t, s.Error(ctx, "x"))
		assert.Empty(t, poster.channels)
	})

	t.Run("post error is wrapped", func(t *testing.T) {
		poster := &fakePoster{err: errors.New("rate limited")}
		s := NewSlackWithClient(poster, SlackOption{ErrorChannelID: "err"})
		assert.Error(t, s.Error(ctx, "x"))
	})
}

type fakeMailer struct {
	sent []Email
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, email Email) error {
	f.sent = append(f.sent, email)
	return f.err
}

func TestDispatcher_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("clock-out reminder", func(t *testing.T) {
		mailer := &fakeMailer{}
		d := NewDispatcher(mailer)
		payload, _ := json.Marshal(events.ClockOutMissingEvent{
			Envelope: events.Envelope{EventType: events.EventClockOutMissing},
			Employee: events.Recipient{Name: "Ann", Email: "ann@example.com"},
			Date:     "2026-03-02",
			ClockIn:  time.Date(2026, 3, 2, 9, 12, 0, 0, time.UTC),
		})

		require.NoError(t, d.Handle(ctx, payload))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, []string{"ann@example.com"}, mailer.sent[0].To)
		assert.Contains(t, mailer.sent[0].Text, "09:12")
	})

	t.Run("admin digest goes to every admin", func(t *testing.T) {
		mailer := &fakeMailer{}
		d := NewDispatcher(mailer)
		payload, _ := json.Marshal(events.AdminsMissedClockOutEvent{
			Envelope: events.Envelope{EventType: events.EventAdminsMissedClockOut},
			Admins:   []events.Recipient{{Email: "a@example.com"}, {Email: "b@example.com"}, {Name: "no mail"}},
			Date:     "2026-03-02",
		})

		require.NoError(t, d.Handle(ctx, payload))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, []string{"a@example.com", "b@example.com"}, mailer.sent[0].To)
	})

	t.Run("no recipients is not an error", func(t *testing.T) {
		mailer := &fakeMailer{}
		d := NewDispatcher(mailer)
		payload, _ := json.Marshal(events.ClockInMissingEvent{
			Envelope: events.Envelope{EventType: events.EventClockInMissing},
		})
		require.NoError(t, d.Handle(ctx, payload))
		assert.Empty(t, mailer.sent)
	})

	t.Run("unknown type", func(t *testing.T) {
		d := NewDispatcher(&fakeMailer{})
		err := d.Handle(ctx, []byte(`{"event_type":"nope"}`))
		assert.True(t, IsUndeliverable(err))
	})

	t.Run("bad json", func(t *testing.T) {
		d := NewDispatcher(&fakeMailer{})
		assert.True(t, IsUndeliverable(d.Handle(ctx, []byte(`{`))))
	})

	t.Run("mailer failure is retryable", func(t *testing.T) {
		d := NewDispatcher(&fakeMailer{err: errors.New("throttled")})
		payload, _ := json.Marshal(events.ClockInMissingEvent{
			Envelope: events.Envelope{EventType: events.EventClockInMissing},
			Employee: events.Recipient{Email: "ann@example.com"},
		})
		err := d.Handle(ctx, payload)
		assert.Error(t, err)
		assert.False(t, IsUndeliverable(err))
	})
}

type fakeSES struct {
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	return &ses.SendEmailOutput{}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := NewSESMailerWithClient(client, "hr@example.com")

	require.NoError(t, m.Send(context.Background(), Email{To: []string{"ann@example.com"}, Subject: "Hi", Text: "Body"}))
	require.NotNil(t, client.input)
	assert.Equal(t, "hr@example.com", *client.input.Source)
	assert.Equal(t, []string{"ann@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", *client.input.Message.Subject.Data)

	client.input = nil
	require.NoError(t, m.Send(context.Background(), Email{}))
	assert.Nil(t, client.input)
}
