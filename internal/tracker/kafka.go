package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

// KafkaSink publishes journey events to a broker topic instead of the HTTP
// endpoint, for deployments where analytics is consumed off a stream.
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (s *KafkaSink) Deliver(ctx context.Context, event domain.JourneyEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal journey event: %w", err)
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
