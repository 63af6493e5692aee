package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// eventField is the stream entry key holding the JSON-encoded event.
const eventField = "event"

const (
	readBatchSize = 10
	readBlock     = 5 * time.Second
	retryBackoff  = time.Second
)

// Handler processes one decoded event. Returning an error leaves the message
// pending in the consumer group, so it is redelivered on the next claim.
type Handler func(ctx context.Context, event Event) error

// Subscriber reads a stream through a consumer group, dispatching each event
// to a handler and acknowledging only the ones the handler accepts.
type Subscriber struct {
	client  *redis.Client
	stream  string
	group   string
	name    string
	handler Handler
	logger  zerolog.Logger
}

func NewSubscriber(client *redis.Client, stream, group, name string, handler Handler, logger zerolog.Logger) *Subscriber {
	return &Subscriber{
		client:  client,
		stream:  stream,
		group:   group,
		name:    name,
		handler: handler,
		logger:  logger.With().Str("stream", stream).Str("group", group).Logger(),
	}
}

// Run consumes the stream until ctx is cancelled. Read errors are logged and
// retried after a short backoff rather than stopping the consumer.
func (s *Subscriber) Run(ctx context.Context) error {
	if err := s.ensureGroup(ctx); err != nil {
		return err
	}
	s.logger.Info().Str("consumer", s.name).Msg("consuming stream")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("stopping consumer")
			return ctx.Err()
		default:
			if err := s.drain(ctx); err != nil {
				if ctx.Err() != nil {
					s.logger.Info().Msg("stopping consumer")
					return ctx.Err()
				}
				s.logger.Error().Err(err).Msg("stream read failed")
				time.Sleep(retryBackoff)
			}
		}
	}
}

// ensureGroup creates the consumer group, tolerating a concurrent or earlier
// creation.
func (s *Subscriber) ensureGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s: %w", s.group, err)
	}
	return nil
}

func (s *Subscriber) drain(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.name,
		Streams:  []string{s.stream, ">"},
		Count:    readBatchSize,
		Block:    readBlock,
	}).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := s.dispatch(ctx, message); err != nil {
				s.logger.Error().Err(err).Str("message_id", message.ID).Msg("event not processed")
				continue
			}
			if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
				s.logger.Error().Err(err).Str("message_id", message.ID).Msg("failed to ack event")
			}
		}
	}
	return nil
}

func (s *Subscriber) dispatch(ctx context.Context, message redis.XMessage) error {
	raw, ok := message.Values[eventField].(string)
	if !ok {
		return fmt.Errorf("message %s has no %s field", message.ID, eventField)
	}

	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	return s.handler(ctx, event)
}
