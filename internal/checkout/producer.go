package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// AllocationEvent is emitted once per paid allocation for downstream
// consumers (ticket delivery, reporting).
type AllocationEvent struct {
	AllocationID uuid.UUID `json:"allocation_id"`
	EventID      uuid.UUID `json:"event_id"`
	HoldID       uuid.UUID `json:"hold_id"`
	SeatIDs      []string  `json:"seat_ids"`
	PromoCode    *string   `json:"promo_code,omitempty"`
	GrandTotal   int64     `json:"grand_total"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}

// AllocationProducer publishes allocation-confirmed events
type AllocationProducer interface {
	PublishAllocationConfirmed(ctx context.Context, event *AllocationEvent) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka allocation producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "allocations-confirmed",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

type kafkaAllocationProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaAllocationProducer creates a Kafka-backed allocation producer
func NewKafkaAllocationProducer(config *KafkaProducerConfig) (AllocationProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keys on event ID so one event's allocations stay on
	// one partition in order.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("Kafka allocation producer created for topic %s", config.Topic)
	return &kafkaAllocationProducer{
		producer: producer,
		config:   config,
	}, nil
}

func (kp *kafkaAllocationProducer) PublishAllocationConfirmed(ctx context.Context, event *AllocationEvent) error {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal allocation event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: kp.config.Topic,
		Key:   sarama.StringEncoder(event.EventID.String()),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("allocation_id"), Value: []byte(event.AllocationID.String())},
			{Key: []byte("event_id"), Value: []byte(event.EventID.String())},
			{Key: []byte("confirmed_at"), Value: []byte(event.ConfirmedAt.Format(time.RFC3339))},
		},
		Timestamp: event.ConfirmedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send allocation event to Kafka: %w", err)
	}

	log.Printf("Allocation event published - Topic: %s, Partition: %d, Offset: %d, Allocation: %s",
		kp.config.Topic, partition, offset, event.AllocationID)
	return nil
}

func (kp *kafkaAllocationProducer) Close() error {
	if kp.producer != nil {
		if err := kp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

// noopProducer is used when Kafka is disabled; checkout proceeds without
// emitting events.
type noopProducer struct{}

// NewNoopProducer returns a producer that drops every event
func NewNoopProducer() AllocationProducer {
	return noopProducer{}
}

func (noopProducer) PublishAllocationConfirmed(ctx context.Context, event *AllocationEvent) error {
	return nil
}

func (noopProducer) Close() error {
	return nil
}
