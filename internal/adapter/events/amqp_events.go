package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Dee-Rock/soucey/internal/core/domain"
	"github.com/Dee-Rock/soucey/internal/core/service"
)

const (
	orderEventsQueue    = "order_events"
	paymentUpdatesQueue = "payment_updates"
)

// OrderEvent is the message published for every order creation and
// status change, consumed by notification and dashboard services.
type OrderEvent struct {
	Event         string    `json:"event"`
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Total         float64   `json:"total"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// AMQPPublisher publishes order events to the order_events queue.
type AMQPPublisher struct {
	conn *amqp.Connection
}

func NewAMQPPublisher(conn *amqp.Connection) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(orderEventsQueue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &AMQPPublisher{conn: conn}, nil
}

func (p *AMQPPublisher) OrderCreated(ctx context.Context, order domain.Order) error {
	return p.publish(ctx, "order_created", order)
}

func (p *AMQPPublisher) OrderStatusChanged(ctx context.Context, order domain.Order) error {
	return p.publish(ctx, "status_changed", order)
}

func (p *AMQPPublisher) publish(ctx context.Context, event string, order domain.Order) error {
	body, err := json.Marshal(OrderEvent{
		Event:         event,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Total:         order.Total,
		OccurredAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx,
		"",               // exchange
		orderEventsQueue, // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PaymentUpdateConsumer consumes gateway payment confirmations from the
// payment_updates queue and applies them to orders. This is the
// out-of-band path that flips paymentStatus for non-cash orders.
type PaymentUpdateConsumer struct {
	conn   *amqp.Connection
	orders *service.OrderService
}

func NewPaymentUpdateConsumer(conn *amqp.Connection, orders *service.OrderService) *PaymentUpdateConsumer {
	return &PaymentUpdateConsumer{conn: conn, orders: orders}
}

// Start declares the queue and consumes it on a background goroutine
// until the channel closes.
func (c *PaymentUpdateConsumer) Start(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(paymentUpdatesQueue, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return fmt.Errorf("consume: %w", err)
	}

	go func() {
		defer ch.Close()
		for d := range msgs {
			var update service.PaymentUpdate
			if err := json.Unmarshal(d.Body, &update); err != nil {
				log.Printf("payment update: bad message: %v", err)
				d.Ack(false)
				continue
			}

			if err := c.orders.ApplyPaymentUpdate(ctx, update); err != nil {
				log.Printf("payment update for order %s failed: %v", update.OrderID, err)
				d.Nack(false, false)
				continue
			}

			log.Printf("payment update applied: order=%s status=%s reference=%s",
				update.OrderID, update.Status, update.Reference)
			d.Ack(false)
		}
	}()

	return nil
}
