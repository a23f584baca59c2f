package kafka

import (
	"context"
	"encoding/json"

	"github.com/awtadhr/payroll-backend-go/internal/pkg/events"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher forwards EntityChanged events to a kafka topic for downstream
// consumers (reporting, search indexing). The core never depends on it; it is
// wired as a bus subscriber.
type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkago.LeastBytes{},
		},
	}
}

// Subscriber returns the bus subscriber that publishes events to kafka.
func (p *Publisher) Subscriber() events.Subscriber {
	return func(ctx context.Context, event events.EntityChanged) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		return p.writer.WriteMessages(ctx, kafkago.Message{
			Key:   []byte(event.Collection + ":" + event.EntityID),
			Value: payload,
		})
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
