package events

import (
	"context"
	"time"

	"sellora/internal/repository"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const batchSize = 100

// MessageWriter is the subset of kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher drains the transactional outbox to Kafka. Events are written
// to the outbox in the same transaction as the order change they describe,
// so a crash between commit and publish only delays delivery.
type Publisher struct {
	repo     repository.OutboxRepository
	writer   MessageWriter
	interval time.Duration
	logger   zerolog.Logger
}

// NewWriter creates a Kafka writer for the order events topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// NewPublisher creates a new outbox publisher.
func NewPublisher(repo repository.OutboxRepository, writer MessageWriter, interval time.Duration, logger zerolog.Logger) *Publisher {
	return &Publisher{
		repo:     repo,
		writer:   writer,
		interval: interval,
		logger:   logger.With().Str("component", "events").Logger(),
	}
}

// Run polls the outbox until the context is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.drain(ctx)
		case <-ctx.Done():
			if err := p.writer.Close(); err != nil {
				p.logger.Warn().Err(err).Msg("failed to close event writer")
			}
			return
		}
	}
}

func (p *Publisher) drain(ctx context.Context) {
	events, err := p.repo.GetUnprocessed(ctx, batchSize)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to fetch pending events")
		return
	}

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			p.logger.Error().
				Err(err).
				Int64("event_id", event.ID).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
			continue
		}

		if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
			p.logger.Error().
				Err(err).
				Int64("event_id", event.ID).
				Msg("failed to mark event as processed")
		}
	}
}

func (p *Publisher) publish(ctx context.Context, event repository.OutboxEvent) error {
	// Keyed by order ID so per-order events stay in sequence.
	msg := kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
