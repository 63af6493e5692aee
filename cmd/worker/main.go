package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/config"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/events"
	redisclient "github.com/atharvakulkarni-07/expense-tracker-version-2/internal/redis"
)

const ownerMetricsKeyPrefix = "metrics:owner:"

// The worker consumes the transaction event stream and maintains per-owner
// activity counters out of the request path.
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()

	rdb, err := redisclient.Dial(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "worker"
	}

	subscriber := events.NewSubscriber(
		rdb,
		events.TransactionEventsStream,
		"analytics",
		hostname,
		handleTransactionEvent(rdb, logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := subscriber.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal().Err(err).Msg("subscriber stopped")
	}
}

func handleTransactionEvent(client *redis.Client, logger zerolog.Logger) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		switch event.Type {
		case events.TransactionCreated:
			var data events.TransactionCreatedEvent
			if err := decodeEventData(event.Data, &data); err != nil {
				return err
			}
			if err := client.Incr(ctx, ownerMetricsKeyPrefix+data.OwnerID+":transactions").Err(); err != nil {
				return fmt.Errorf("failed to increment counter: %w", err)
			}
			logger.Info().Str("owner_id", data.OwnerID).Str("transaction_id", data.TransactionID).Msg("transaction created")
		case events.TransactionDeleted:
			var data events.TransactionDeletedEvent
			if err := decodeEventData(event.Data, &data); err != nil {
				return err
			}
			if err := client.Decr(ctx, ownerMetricsKeyPrefix+data.OwnerID+":transactions").Err(); err != nil {
				return fmt.Errorf("failed to decrement counter: %w", err)
			}
			logger.Info().Str("owner_id", data.OwnerID).Str("transaction_id", data.TransactionID).Msg("transaction deleted")
		case events.TransactionUpdated:
			var data events.TransactionUpdatedEvent
			if err := decodeEventData(event.Data, &data); err != nil {
				return err
			}
			logger.Info().Str("owner_id", data.OwnerID).Str("transaction_id", data.TransactionID).Msg("transaction updated")
		}
		return nil
	}
}

// decodeEventData round-trips the generic event payload into its typed form.
func decodeEventData(data any, out any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal event data: %w", err)
	}
	return nil
}
