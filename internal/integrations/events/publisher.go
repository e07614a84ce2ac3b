package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

// MessageWriter subset of *kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher sends committed ledger events to Kafka, keyed by reservation id
// so that events of one reservation stay ordered within a partition.
type Publisher struct {
	writer MessageWriter
	logger Logger
}

// NewKafkaWriter writer with hash balancing on the message key
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewPublisher(writer MessageWriter, logger Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

// Publish writes events. The ledger is already committed, so failures are logged and returned
// for the caller to decide; they never undo the ledger change.
func (p *Publisher) Publish(ctx context.Context, evs ...domain.LedgerEvent) error {
	if len(evs) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(evs))
	for _, ev := range evs {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("events: marshal %s: %w", ev.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(ev.ReservationID, 10)),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "event-type", Value: []byte(ev.Type)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("Publish: failed to write %d events: %v", len(msgs), err)
		return fmt.Errorf("events: write: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher used when kafka is disabled
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...domain.LedgerEvent) error { return nil }
