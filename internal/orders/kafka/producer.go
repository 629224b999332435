package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders/db"
)

// Producer streams order lifecycle events for downstream dashboards. Publish
// failures are the caller's problem to log; nothing here retries.
type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

func (p *Producer) PublishOrderUpdated(order db.Order) error {
	msgBytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(order.OrderID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
