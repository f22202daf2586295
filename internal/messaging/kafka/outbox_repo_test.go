package kafka

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOutboxRepository(db)
	event := OutboxEvent{
		ID:            "11111111-1111-1111-1111-111111111111",
		AggregateType: "leave_request",
		AggregateID:   "req-1",
		EventType:     "leave_approved",
		Topic:         "hr.notifications.v1",
		Payload:       []byte(`{}`),
		Status:        OutboxStatusPending,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
		WithArgs(event.ID, event.RequestID, event.AggregateType, event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := OutboxEvent{ID: "x", Topic: "t", EventType: "leave_approved", Payload: []byte(`{}`), Status: OutboxStatusPending}

	tests := []struct {
		name   string
		mutate func(e *OutboxEvent)
	}{
		{"missing id", func(e *OutboxEvent) { e.ID = "" }},
		{"missing topic", func(e *OutboxEvent) { e.Topic = "" }},
		{"missing event type", func(e *OutboxEvent) { e.EventType = "" }},
		{"empty payload", func(e *OutboxEvent) { e.Payload = nil }},
		{"already sent", func(e *OutboxEvent) { e.Status = OutboxStatusSent }},
	}

	assert.NoError(t, ValidateOutboxEvent(valid))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			assert.Error(t, ValidateOutboxEvent(e))
		})
	}
}

func TestOutboxRepository_Create_InvalidSkipsInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewOutboxRepository(db).Create(context.Background(), OutboxEvent{ID: "x", Status: OutboxStatusPending})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_Claim(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "attempts", "available_at"}).
		AddRow("id-1", "rid", "employee", "e-1", "clock_in_missing", "hr.notifications.v1", []byte(`{}`), OutboxStatusFailed, 3, now)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(OutboxStatusPending, OutboxStatusFailed, 10, float64(60)).
		WillReturnRows(rows)

	claimed, err := NewOutboxRepository(db).Claim(context.Background(), 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, "rid", claimed[0].RequestID)
	assert.Equal(t, 3, claimed[0].Attempts)
	assert.Equal(t, "clock_in_missing", claimed[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("id-1", OutboxStatusFailed, OutboxStatusDead, MaxOutboxAttempts, "broker unavailable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewOutboxRepository(db).MarkFailed(context.Background(), "id-1", "broker unavailable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
