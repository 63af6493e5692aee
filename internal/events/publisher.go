package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher appends domain events to their Redis streams. One method per
// event keeps the stream and type pairing in one place; callers log publish
// failures but never fail the originating request over them.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishUserCreated(ctx context.Context, data UserCreatedEvent) error {
	return p.append(ctx, UserEventsStream, UserCreated, data)
}

func (p *Publisher) PublishTransactionCreated(ctx context.Context, data TransactionCreatedEvent) error {
	return p.append(ctx, TransactionEventsStream, TransactionCreated, data)
}

func (p *Publisher) PublishTransactionUpdated(ctx context.Context, data TransactionUpdatedEvent) error {
	return p.append(ctx, TransactionEventsStream, TransactionUpdated, data)
}

func (p *Publisher) PublishTransactionDeleted(ctx context.Context, data TransactionDeletedEvent) error {
	return p.append(ctx, TransactionEventsStream, TransactionDeleted, data)
}

func (p *Publisher) append(ctx context.Context, stream, eventType string, data any) error {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{eventField: payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}
