package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/medigo/orders-service/internal/domain"
	"github.com/medigo/orders-service/internal/logger"
)

// StatusEvent is published on every order status transition. Downstream
// consumers (notifications, analytics) key on the order id.
type StatusEvent struct {
	OrderID  string             `json:"order_id"`
	Status   domain.OrderStatus `json:"status"`
	Amount   int64              `json:"amount"`
	Currency string             `json:"currency"`
	Delivery *domain.Waypoint   `json:"delivery,omitempty"`
	At       time.Time          `json:"at"`
}

type Producer struct {
	w *kafka.Writer
}

func NewProducer(brokersSTR, topic string) *Producer {
	brokers := strings.Split(brokersSTR, ",")

	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
		},
	}
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.w.Close()
}

// PublishStatus is best-effort: a broker outage must never fail an order
// operation. A nil receiver (kafka not configured) is a no-op.
func (p *Producer) PublishStatus(ctx context.Context, o domain.Order) {
	if p == nil {
		return
	}
	b, err := json.Marshal(StatusEvent{
		OrderID:  o.ID,
		Status:   o.Status,
		Amount:   o.Amount,
		Currency: o.Currency,
		Delivery: o.Delivery,
		At:       time.Now().UTC(),
	})
	if err != nil {
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(o.ID),
		Value: b,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
	if err != nil {
		logger.Warn("publish status event failed", "id", o.ID, "err", err)
	}
}
