package services

import (
	"context"
	"errors"
	"time"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/internal/repositories"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/RajaSunrise/toko/pkg/metrics"
	"github.com/RajaSunrise/toko/pkg/pagadito"
)

// Result of applying a gateway notification.
type Result string

const (
	ResultApplied   Result = "applied"
	ResultIgnored   Result = "ignored"
	ResultDuplicate Result = "duplicate"
	resultError     Result = "error"
)

const notificationScope = "pagadito"

// guardWriteTimeout bounds recording a delivery once the order update has committed.
const guardWriteTimeout = 2 * time.Second

// IdempotencyStore is satisfied by *redis.Client.
type IdempotencyStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
}

// ReconcilerService applies gateway outcomes to orders. Only the server-to-server
// notification changes payment state to paid; browser returns are advisory.
type ReconcilerService struct {
	orders    repositories.OrderRepository
	guard     IdempotencyStore
	guardTTL  time.Duration
	publisher EventPublisher
	metrics   *metrics.Checkout
	log       *logger.Logger
}

// NewReconcilerService creates a ReconcilerService. guard and publisher may be nil.
func NewReconcilerService(
	orders repositories.OrderRepository,
	guard IdempotencyStore,
	guardTTL time.Duration,
	publisher EventPublisher,
	m *metrics.Checkout,
	log *logger.Logger,
) *ReconcilerService {
	if guardTTL <= 0 {
		guardTTL = 24 * time.Hour
	}
	return &ReconcilerService{
		orders:    orders,
		guard:     guard,
		guardTTL:  guardTTL,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// ApplyNotification converges the order on the notified outcome. A paid order never
// moves again: a later failed notification and a repeated paid one are both ignored.
// The paid transition also empties the cart of the user who placed the order.
func (s *ReconcilerService) ApplyNotification(ctx context.Context, n pagadito.Notification) (Result, error) {
	ctx = s.log.WithField(ctx, "order_id", n.OrderID)
	outcome := string(n.Outcome)

	key, seen := s.seen(ctx, n)
	if seen {
		s.metrics.IncNotification(outcome, string(ResultDuplicate))
		s.log.Info(ctx, "duplicate payment notification skipped")
		return ResultDuplicate, nil
	}

	var ref *string
	if n.GatewayRef != "" {
		ref = &n.GatewayRef
	}

	var (
		applied bool
		err     error
	)
	if n.Outcome == pagadito.OutcomePaid {
		applied, err = s.orders.MarkPaid(ctx, n.OrderID, ref)
	} else {
		applied, err = s.orders.MarkPaymentFailed(ctx, n.OrderID, ref)
	}
	if err != nil {
		s.metrics.IncNotification(outcome, string(resultError))
		return resultError, storeError("apply notification", err, ErrOrderNotFound)
	}
	s.record(ctx, key)

	if !applied {
		s.metrics.IncNotification(outcome, string(ResultIgnored))
		s.log.Info(ctx, "payment notification ignored, order already paid")
		return ResultIgnored, nil
	}

	s.metrics.IncNotification(outcome, string(ResultApplied))
	s.log.Info(ctx, "payment notification applied: "+outcome)

	routingKey := EventOrderPaymentFailed
	if n.Outcome == pagadito.OutcomePaid {
		routingKey = EventOrderPaid
	}
	order, err := s.orders.GetByID(ctx, n.OrderID)
	if err != nil {
		s.log.Warn(ctx, "failed to reload order for event", err)
		return ResultApplied, nil
	}
	publishOrderEvent(ctx, s.publisher, s.log, routingKey, order)
	return ResultApplied, nil
}

// seen reports whether this delivery was already processed. The key is empty when there
// is no guard or the guard is unavailable, in which case processing continues unguarded.
func (s *ReconcilerService) seen(ctx context.Context, n pagadito.Notification) (string, bool) {
	if s.guard == nil {
		return "", false
	}
	key := s.guard.IdempotencyKey(notificationScope, n.IdempotencyKey())
	ok, err := s.guard.Exists(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "idempotency guard unavailable", err)
		return "", false
	}
	return key, ok
}

// record marks the delivery as processed. It runs only after the order update committed,
// on a context detached from the request so an expired request still records it.
func (s *ReconcilerService) record(ctx context.Context, key string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), guardWriteTimeout)
	defer cancel()
	if _, err := s.guard.SetNX(ctx, key, time.Now().Unix(), s.guardTTL); err != nil {
		s.log.Warn(ctx, "failed to record payment notification", err)
	}
}

// ConfirmReturn handles the browser landing on the success page. The return URL is
// user controlled, so it only checks ownership and leaves the order as it is.
func (s *ReconcilerService) ConfirmReturn(ctx context.Context, userID string, orderID uint) (*models.Order, error) {
	o, err := s.orders.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, storeError("payment return", err, ErrOrderNotFound)
	}
	return o, nil
}

// FailReturn records a provisional failed payment for an order of userID. A paid order
// is left as it is.
func (s *ReconcilerService) FailReturn(ctx context.Context, userID string, orderID uint) (bool, error) {
	if _, err := s.orders.GetForUser(ctx, userID, orderID); err != nil {
		return false, storeError("payment return", err, ErrOrderNotFound)
	}
	applied, err := s.orders.MarkPaymentFailed(ctx, orderID, nil)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrOrderNotFound
		}
		return false, &RemoteStoreError{Op: "payment return", Err: err}
	}
	return applied, nil
}
