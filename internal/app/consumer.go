package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Funnel-Builder/people-pulse/internal/config"
	"github.com/Funnel-Builder/people-pulse/internal/events"
	"github.com/Funnel-Builder/people-pulse/internal/messaging/kafka/consumer"
	"github.com/Funnel-Builder/people-pulse/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer delivers notification events as e-mail until SIGINT or
// SIGTERM. It needs no database.
func RunConsumer(cfg config.Config, baseLogger *zap.Logger) error {
	logger := baseLogger.Named("app.consumer")
	kafkaBroker, mailFrom := cfg.KafkaBroker, cfg.MailFrom

	if kafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}
	if mailFrom == "" {
		return errors.New("MAIL_FROM is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer, err := notification.NewSESMailer(ctx, mailFrom)
	if err != nil {
		return err
	}
	dispatcher := notification.NewDispatcher(mailer, baseLogger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.NotificationTopic,
		GroupID:        "people-pulse-notifications",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	go consumer.Consume(ctx, reader, dispatcher, notification.IsUndeliverable, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
