package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// HandlerFunc processes the data section of one event
type HandlerFunc func(ctx context.Context, data json.RawMessage) error

// Consumer routes events from a subscriber to handlers keyed by event type.
// Events without a handler are acknowledged and dropped.
type Consumer struct {
	router     *message.Router
	subscriber message.Subscriber
	topic      string
	handlers   map[EventType]HandlerFunc
	logger     *slog.Logger
	retry      middleware.Retry
}

type ConsumerConfig struct {
	TopicName  string
	MaxRetries int
	Logger     *slog.Logger
}

// NewKafkaSubscriber creates a consumer-group subscriber for the event topic
func NewKafkaSubscriber(brokers []string, consumerGroup string, logger *slog.Logger) (message.Subscriber, error) {
	sub, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               brokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
		ConsumerGroup:         consumerGroup,
	}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}
	return sub, nil
}

func NewConsumer(subscriber message.Subscriber, config ConsumerConfig) (*Consumer, error) {
	wmLogger := watermill.NewSlogLogger(config.Logger)

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event router: %w", err)
	}

	retries := config.MaxRetries
	if retries <= 0 {
		retries = 3
	}

	return &Consumer{
		router:     router,
		subscriber: subscriber,
		topic:      config.TopicName,
		handlers:   make(map[EventType]HandlerFunc),
		logger:     config.Logger.With("component", "event_consumer"),
		retry: middleware.Retry{
			MaxRetries:      retries,
			InitialInterval: 200 * time.Millisecond,
			Multiplier:      2,
			Logger:          wmLogger,
		},
	}, nil
}

// Handle registers fn for eventType. It must be called before Run.
func (c *Consumer) Handle(eventType EventType, fn HandlerFunc) {
	c.handlers[eventType] = fn
}

// Run blocks until ctx is cancelled or the router fails.
func (c *Consumer) Run(ctx context.Context) error {
	handler := c.retry.Middleware(middleware.Recoverer(c.dispatch))

	c.router.AddNoPublisherHandler("academy_events", c.topic, c.subscriber, func(msg *message.Message) error {
		if _, err := handler(msg); err != nil {
			// Failed events are acknowledged, never redelivered.
			c.logger.Error("Dropping event after retries",
				"message_uuid", msg.UUID,
				"event_type", msg.Metadata.Get("event_type"),
				"error", err)
		}
		return nil
	})

	return c.router.Run(ctx)
}

// Running is closed once the router has started all handlers
func (c *Consumer) Running() chan struct{} {
	return c.router.Running()
}

func (c *Consumer) Close() error {
	return c.router.Close()
}

func (c *Consumer) dispatch(msg *message.Message) ([]*message.Message, error) {
	eventType := EventType(msg.Metadata.Get("event_type"))

	fn, ok := c.handlers[eventType]
	if !ok {
		c.logger.Debug("No handler for event", "event_type", eventType)
		return nil, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		c.logger.Error("Malformed event payload",
			"message_uuid", msg.UUID,
			"event_type", eventType,
			"error", err)
		return nil, nil
	}

	if err := fn(msg.Context(), envelope.Data); err != nil {
		return nil, fmt.Errorf("handle %s: %w", eventType, err)
	}
	return nil, nil
}
