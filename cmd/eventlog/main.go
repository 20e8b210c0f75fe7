// Command eventlog tails the change-event topic and logs every event.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/observatorio/internal/observatorio/config"
	"github.com/gartstein/observatorio/internal/observatorio/events"
	"go.uber.org/zap"
)

const groupID = "observatorio-eventlog"

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if len(cfg.KafkaBrokers) == 0 {
		logger.Fatal("KAFKA_BROKERS is empty")
	}

	consumer := events.NewConsumer(cfg.KafkaBrokers, groupID, cfg.Topic, logger)
	defer consumer.Close()
	consumer.RegisterHandler(func(_ context.Context, event events.Event) error {
		logger.Info("Change event",
			zap.String("id", event.ID.String()),
			zap.String("type", string(event.Type)),
			zap.String("resource", event.Resource),
			zap.String("key", event.Key),
			zap.Time("occurred_at", event.OccurredAt),
			zap.Any("payload", event.Payload),
		)
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Consuming change events", zap.String("topic", cfg.Topic), zap.Strings("brokers", cfg.KafkaBrokers))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", zap.Error(err))
	}
}
