// Package messaging announces persisted orders on a RabbitMQ topic exchange.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

const (
	ExchangeName = "storefront.orders"
	ExchangeType = "topic"
)

// OrderEvent is the JSON body of an order.<status> message.
type OrderEvent struct {
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	PaymentID     *string   `json:"paymentId"`
	Total         string    `json:"total"`
	Items         int       `json:"items"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// RoutingKey is order.<status>, e.g. order.confirmed or order.failed.
func RoutingKey(o *entity.Order) string {
	return "order." + string(o.Status)
}

func NewOrderEvent(o *entity.Order, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:       o.ID,
		UserID:        o.UserID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentID:     o.PaymentID,
		Total:         o.Total.StringFixed(2),
		Items:         len(o.Items),
		OccurredAt:    at.UTC(),
	}
}

// Connect dials RabbitMQ, retrying up to attempts times, and declares the
// orders exchange.
func Connect(url string, attempts int) (*amqp.Connection, *amqp.Channel, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	for i := range max(attempts, 1) {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		slog.Warn("rabbitmq connection failed", "attempt", i+1, "error", err)
		if i+1 < attempts {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("messaging: connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("messaging: open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("messaging: declare exchange: %w", err)
	}
	return conn, ch, nil
}

type Publisher struct {
	mu  sync.Mutex
	ch  *amqp.Channel
	now func() time.Time
}

func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch, now: time.Now}
}

var _ ports.OrderEventPublisher = (*Publisher)(nil)

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *entity.Order) error {
	body, err := json.Marshal(NewOrderEvent(o, p.now()))
	if err != nil {
		return fmt.Errorf("messaging: marshal order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		ExchangeName,  // exchange
		RoutingKey(o), // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    o.ID,
			Timestamp:    p.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("messaging: publish order %s: %w", o.ID, err)
	}
	return nil
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

var _ ports.OrderEventPublisher = NopPublisher{}

func (NopPublisher) PublishOrderPlaced(ctx context.Context, o *entity.Order) error {
	slog.DebugContext(ctx, "order events disabled, dropping event", "order_id", o.ID)
	return nil
}
