package config

import (
	"log/slog"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/tdsa-academy/academy-service/internal/events"
)

// EventConfig holds configuration for event publishing and consumption
type EventConfig struct {
	Enabled           bool
	Publisher         string // kafka, gochannel or mock
	KafkaBrokers      string
	NotificationTopic string
	ConsumerGroup     string
}

// EventBus bundles the publisher with the subscriber the consumer reads from.
// Subscriber is nil when events are not consumed in-process.
type EventBus struct {
	Publisher  events.EventPublisher
	Subscriber message.Subscriber
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// CreateEventBus creates the publisher and matching subscriber based on configuration
func (c *EventConfig) CreateEventBus(logger *slog.Logger) (*EventBus, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return &EventBus{Publisher: events.NewMockEventPublisher(logger)}, nil
	}

	pubConfig := events.PublisherConfig{
		KafkaBrokers: c.GetKafkaBrokers(),
		TopicName:    c.NotificationTopic,
		Logger:       logger,
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event bus",
			"brokers", c.KafkaBrokers,
			"topic", c.NotificationTopic,
			"consumer_group", c.ConsumerGroup)

		publisher, err := events.NewKafkaEventPublisher(pubConfig)
		if err != nil {
			return nil, err
		}
		subscriber, err := events.NewKafkaSubscriber(pubConfig.KafkaBrokers, c.ConsumerGroup, logger)
		if err != nil {
			_ = publisher.Close()
			return nil, err
		}
		return &EventBus{Publisher: publisher, Subscriber: subscriber}, nil
	case "gochannel":
		logger.Info("Creating in-process event bus", "topic", c.NotificationTopic)
		pubSub := events.NewGoChannel(logger)
		return &EventBus{
			Publisher:  events.NewGoChannelEventPublisher(pubSub, pubConfig),
			Subscriber: pubSub,
		}, nil
	case "mock":
		logger.Info("Using mock event publisher")
		return &EventBus{Publisher: events.NewMockEventPublisher(logger)}, nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return &EventBus{Publisher: events.NewMockEventPublisher(logger)}, nil
	}
}
