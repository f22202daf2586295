package producer

import (
	"context"
	"strconv"

	"github.com/Funnel-Builder/people-pulse/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// toMessage keys by aggregate so every notification about one leave request
// or employee lands on the same partition, in order.
func toMessage(event kafka.OutboxEvent) kafkago.Message {
	return kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateType + ":" + event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "outbox_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "request_id", Value: []byte(event.RequestID)},
			{Key: "attempt", Value: []byte(strconv.Itoa(event.Attempts + 1))},
		},
	}
}
