package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"messenger_service/internal/backend/domain"

	"github.com/segmentio/kafka-go"
)

// ChangePublisher change feed of collection writes
type ChangePublisher interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	Close() error
}

// MessageWriter subset of *kafka.Writer used by the publisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher events keyed by collection/id, JSON values
func NewKafkaPublisher(writer MessageWriter) ChangePublisher {
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event domain.ChangeEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Collection + "/" + event.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "op", Value: []byte(event.Op)},
		},
	})
}

func (p *kafkaPublisher) Close() error { return p.writer.Close() }

type nopPublisher struct{}

// NewNopPublisher change feed disabled
func NewNopPublisher() ChangePublisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, domain.ChangeEvent) error { return nil }
func (nopPublisher) Close() error                                    { return nil }
