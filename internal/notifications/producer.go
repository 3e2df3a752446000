package notifications

import (
	"context"
	"fmt"
	"time"

	"aerobook/internal/shared/config"
	"aerobook/internal/tickets"
	"aerobook/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Producer publishes ticket lifecycle events. It satisfies both the ticket
// service's and the change workflow's publisher interfaces; publishing is
// best effort and never fails the calling operation.
type Producer interface {
	PublishCheckedIn(ctx context.Context, ticketID, tripID uuid.UUID)
	PublishTicketChanged(ctx context.Context, oldTicket, newTicket *tickets.Ticket, totalPaid float64)
	Close() error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducer connects a synchronous producer with idempotent writes
// and hash partitioning, so per-ticket ordering holds across retries.
func NewKafkaProducer(cfg *config.Config) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		topic:    cfg.Kafka.TicketTopic,
	}, nil
}

func (p *kafkaProducer) PublishCheckedIn(ctx context.Context, ticketID, tripID uuid.UUID) {
	p.publish(ctx, &TicketEvent{
		ID:         uuid.New(),
		Type:       EventTicketCheckedIn,
		TicketID:   ticketID,
		TripID:     tripID,
		OccurredAt: time.Now(),
	})
}

func (p *kafkaProducer) PublishTicketChanged(ctx context.Context, oldTicket, newTicket *tickets.Ticket, totalPaid float64) {
	oldID := oldTicket.ID
	p.publish(ctx, &TicketEvent{
		ID:          uuid.New(),
		Type:        EventTicketChanged,
		TicketID:    newTicket.ID,
		TripID:      newTicket.TripID,
		OldTicketID: &oldID,
		TotalPaid:   totalPaid,
		OccurredAt:  time.Now(),
	})
}

func (p *kafkaProducer) publish(ctx context.Context, event *TicketEvent) {
	payload, err := event.ToJSON()
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to marshal ticket event", err, map[string]interface{}{
			"event_type": string(event.Type),
			"ticket_id":  event.TicketID.String(),
		})
		return
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		},
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to publish ticket event", err, map[string]interface{}{
			"event_type": string(event.Type),
			"ticket_id":  event.TicketID.String(),
		})
	}
}

func (p *kafkaProducer) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// noopProducer is used when Kafka is disabled in configuration.
type noopProducer struct{}

func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) PublishCheckedIn(ctx context.Context, ticketID, tripID uuid.UUID) {}
func (noopProducer) PublishTicketChanged(ctx context.Context, oldTicket, newTicket *tickets.Ticket, totalPaid float64) {
}
func (noopProducer) Close() error { return nil }
