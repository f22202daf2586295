package producer

import (
	"context"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/messaging/kafka"

	"go.uber.org/zap"
)

const (
	batchSize = 50
	claimTTL  = time.Minute
)

// ProcessOutboxEvents publishes claimed outbox rows every pollInterval until
// ctx is cancelled. Several workers may run side by side.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := publishBatch(ctx, repo, writer, log); err != nil {
				log.Error("publish outbox batch failed", zap.Error(err))
			}
		}
	}
}

func publishBatch(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) error {
	events, err := repo.Claim(ctx, batchSize, claimTTL)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	logger.Debug("claimed outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.Int("attempt", event.Attempts+1),
		}

		if err := writer.WriteMessages(ctx, toMessage(event)); err != nil {
			if event.Attempts+1 >= kafka.MaxOutboxAttempts {
				logger.Error("outbox event dead-lettered", append(fields, zap.Error(err))...)
			} else {
				logger.Warn("publish outbox event failed", append(fields, zap.Error(err))...)
			}
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				logger.Error("mark outbox event failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// The lease expires and the row is published again; the
			// consumer sees a duplicate rather than a loss.
			logger.Error("mark outbox event sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
			continue
		}
		logger.Info("outbox event published", fields...)
	}
	return nil
}
