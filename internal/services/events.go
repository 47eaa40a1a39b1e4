package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/RajaSunrise/toko/pkg/money"
	"github.com/RajaSunrise/toko/pkg/rabbitmq"
)

// Routing keys of the order exchange.
const (
	EventOrderCreated       = "order.created"
	EventOrderPaid          = "order.paid"
	EventOrderPaymentFailed = "order.payment_failed"
)

// EventPublisher is satisfied by *rabbitmq.Client.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderEvent is the message body published for every order lifecycle event.
type OrderEvent struct {
	OrderID       uint      `json:"order_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Total         string    `json:"total"`
	Currency      string    `json:"currency"`
	GatewayRef    string    `json:"gateway_ref,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func orderEvent(o *models.Order) OrderEvent {
	ev := OrderEvent{
		OrderID:       o.ID,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Total:         money.Format(o.Total),
		Currency:      o.Currency,
		OccurredAt:    time.Now().UTC(),
	}
	if o.GatewayRef != nil {
		ev.GatewayRef = *o.GatewayRef
	}
	return ev
}

// publishOrderEvent is best effort: the order is already committed, so a broker failure is
// only logged.
func publishOrderEvent(ctx context.Context, pub EventPublisher, log *logger.Logger, routingKey string, o *models.Order) {
	if pub == nil {
		log.Debug(ctx, "event publisher not configured, skipping "+routingKey)
		return
	}
	body, err := json.Marshal(orderEvent(o))
	if err != nil {
		log.Warn(ctx, "failed to marshal "+routingKey, err)
		return
	}
	if err := pub.Publish(rabbitmq.OrderExchange, routingKey, body); err != nil {
		log.Warn(log.WithField(ctx, "order_id", o.ID), "failed to publish "+routingKey, err)
	}
}
