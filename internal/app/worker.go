package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Funnel-Builder/people-pulse/internal/messaging/kafka"
	"github.com/Funnel-Builder/people-pulse/internal/messaging/kafka/producer"
	"github.com/Funnel-Builder/people-pulse/internal/shared/connection"
)

// RunWorker relays outbox rows to Kafka until SIGINT or SIGTERM.
func RunWorker(in *Infra) error {
	logger := in.Logger.Named("app.worker")

	if in.Config.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}
	kafkaWriter, err := connection.ConnectKafkaWithRetry(in.Config.KafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(in.SQL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
