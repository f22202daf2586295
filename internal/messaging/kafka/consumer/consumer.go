package consumer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Reader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type Handler interface {
	Handle(ctx context.Context, payload []byte) error
}

// Consume feeds every message to h and commits it once handled. A failed
// message is committed anyway when discard reports the error as permanent,
// so a poison message cannot block the partition; otherwise it is left
// uncommitted for redelivery after a rebalance or restart.
func Consume(
	ctx context.Context,
	reader Reader,
	h Handler,
	discard func(error) bool,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notifications")
	log.Info("notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		if err := h.Handle(ctx, msg.Value); err != nil {
			if discard != nil && discard(err) {
				log.Error("discarding undeliverable notification",
					zap.Int64("offset", msg.Offset),
					zap.Int("partition", msg.Partition),
					zap.Error(err),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("handle notification failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
			continue
		}
	}
}
