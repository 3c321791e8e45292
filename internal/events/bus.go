// Package events carries domain events over an in-process watermill pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quiz-gen/internal/domain"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// HandlerFunc processes one event payload.
type HandlerFunc func(ctx context.Context, payload []byte) error

// Bus publishes and delivers events in-process. Delivery is at most once:
// events published with no subscriber are dropped and handler errors are
// logged, not redelivered.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *zap.Logger
}

var _ domain.EventPublisher = (*Bus)(nil)

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, newZapAdapter(logger)),
		logger: logger,
	}
}

// Publish marshals payload to JSON and publishes it on topic.
func (b *Bus) Publish(ctx context.Context, topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("event_type", topic)
	msg.Metadata.Set("timestamp", time.Now().UTC().Format(time.RFC3339))

	if err := b.pubsub.Publish(topic, msg); err != nil {
		b.logger.Error("Failed to publish event", zap.String("topic", topic), zap.Error(err))
		return fmt.Errorf("failed to publish %s event: %w", topic, err)
	}
	b.logger.Debug("Published event", zap.String("topic", topic), zap.String("message_id", msg.UUID))
	return nil
}

// Subscribe delivers every message on topic to handler in a background
// goroutine until ctx is cancelled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler HandlerFunc) error {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	go func() {
		for msg := range messages {
			if err := handler(ctx, msg.Payload); err != nil {
				b.logger.Warn("Event handler failed",
					zap.String("topic", topic),
					zap.String("message_id", msg.UUID),
					zap.Error(err))
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Decode adapts a typed handler to a HandlerFunc.
func Decode[T any](fn func(ctx context.Context, event T) error) HandlerFunc {
	return func(ctx context.Context, payload []byte) error {
		var event T
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("failed to decode event: %w", err)
		}
		return fn(ctx, event)
	}
}
