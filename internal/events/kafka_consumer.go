package events

import (
	"context"

	"github.com/go-playground/validator/v10"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-kennel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/apperror"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/kafka"
)

// DogCreator is the part of the dog service the intake consumer drives.
type DogCreator interface {
	Create(ctx context.Context, in application.DogInput) (*application.DogDTO, error)
}

// IntakeEventConsumer listens to intake events and registers new dogs.
type IntakeEventConsumer struct {
	consumer *kafka.Consumer
	service  DogCreator
	validate *validator.Validate
	logger   *zap.Logger
}

// NewIntakeEventConsumer creates a new IntakeEventConsumer.
func NewIntakeEventConsumer(
	brokers []string,
	groupID string,
	topic string,
	service DogCreator,
	logger *zap.Logger,
) *IntakeEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, topic, logger)
	return newIntakeEventConsumer(consumer, service, logger)
}

func newIntakeEventConsumer(consumer *kafka.Consumer, service DogCreator, logger *zap.Logger) *IntakeEventConsumer {
	return &IntakeEventConsumer{
		consumer: consumer,
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// Start begins consuming intake events. This blocks until the context is cancelled.
func (c *IntakeEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *IntakeEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *IntakeEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from intake topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case DogIntakeRequested:
		return c.handleIntakeRequested(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled intake event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *IntakeEventConsumer) handleIntakeRequested(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt DogIntakeRequestedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse DogIntakeRequestedEvent data",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	if err := c.validate.Struct(evt); err != nil {
		c.logger.Warn("rejecting invalid intake event",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil
	}

	input, err := evt.toDogInput()
	if err != nil {
		c.logger.Warn("rejecting invalid intake event",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil
	}

	c.logger.Info("processing dog intake event",
		zap.String("event_id", cloudEvent.ID),
		zap.String("source", cloudEvent.Source),
		zap.String("supplier", evt.Supplier),
	)

	created, err := c.service.Create(ctx, input)
	if err != nil {
		if apperror.IsNotFound(err) {
			c.logger.Warn("intake event references unknown data",
				zap.String("event_id", cloudEvent.ID),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to register dog from intake event",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("dog registered from intake event",
		zap.String("event_id", cloudEvent.ID),
		zap.Int64("dog_id", created.ID),
	)
	return nil
}
