package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/internal/repositories"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/RajaSunrise/toko/internal/testutil"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/RajaSunrise/toko/pkg/metrics"
	"github.com/RajaSunrise/toko/pkg/pagadito"
	"github.com/RajaSunrise/toko/pkg/rabbitmq"
	"github.com/RajaSunrise/toko/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func (m *MockPublisher) event(t *testing.T, routingKey string) services.OrderEvent {
	t.Helper()
	for _, call := range m.Calls {
		if call.Method == "Publish" && call.Arguments.String(1) == routingKey {
			var ev services.OrderEvent
			require.NoError(t, json.Unmarshal(call.Arguments.Get(2).([]byte), &ev))
			return ev
		}
	}
	t.Fatalf("no %s event published", routingKey)
	return services.OrderEvent{}
}

type checkoutStack struct {
	db         *gorm.DB
	carts      *services.CartService
	orders     *services.OrderService
	reconciler *services.ReconcilerService
	addresses  *services.AddressService
	orderRepo  *repositories.GORMOrderRepository
	publisher  *MockPublisher
}

func newCheckoutStack(t *testing.T, guard services.IdempotencyStore) *checkoutStack {
	t.Helper()
	conn := testutil.NewDB(t)
	log := logger.Nop()
	m := metrics.NewCheckout(prometheus.NewRegistry())

	pub := new(MockPublisher)
	pub.On("Publish", rabbitmq.OrderExchange, mock.Anything, mock.Anything).Return(nil)

	productRepo := repositories.NewGORMProductRepository(conn)
	orderRepo := repositories.NewGORMOrderRepository(conn)
	addressRepo := repositories.NewGORMAddressRepository(conn)
	carts := services.NewCartService(repositories.NewGORMCartRepository(conn), productRepo, storage.NewMemoryBucket("https://cdn.test"))

	return &checkoutStack{
		db:         conn,
		carts:      carts,
		orders:     services.NewOrderService(orderRepo, carts, addressRepo, pub, m, log, "GTQ"),
		reconciler: services.NewReconcilerService(orderRepo, guard, time.Hour, pub, m, log),
		addresses:  services.NewAddressService(addressRepo),
		orderRepo:  orderRepo,
		publisher:  pub,
	}
}

func (s *checkoutStack) cart(t *testing.T, userID string) uint {
	t.Helper()
	id, err := s.carts.GetOrCreateCart(context.Background(), userID)
	require.NoError(t, err)
	return id
}

func (s *checkoutStack) order(t *testing.T, id uint) *models.Order {
	t.Helper()
	o, err := s.orderRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return o
}

func notification(t *testing.T, orderID uint, status, txid string) pagadito.Notification {
	t.Helper()
	fields := map[string]string{"reference": pagadito.Reference(orderID), "status": status, "txid": txid}
	n, err := pagadito.ParseNotification(func(k string) string { return fields[k] })
	require.NoError(t, err)
	return n
}

func TestCartService_RepeatedAddsMergeIntoOneLine(t *testing.T) {
	s := newCheckoutStack(t, nil)
	ctx := context.Background()
	p := testutil.SeedProduct(t, s.db, "Café", "12.00")
	cartID := s.cart(t, "u1")

	for _, qty := range []int{1, 2, 3, 0, -4} {
		require.NoError(t, s.carts.AddLine(ctx, cartID, p.ID, qty))
	}

	summary, err := s.carts.LoadWithTotals(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, 8, summary.Lines[0].Qty, "non-positive quantities count as 1")
	assert.Equal(t, "96.00", summary.Total.StringFixed(2))

	n, err := s.carts.Count(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCartService_AddLineRejectsInactiveProduct(t *testing.T) {
	s := newCheckoutStack(t, nil)
	ctx := context.Background()
	p := testutil.SeedProduct(t, s.db, "Descontinuado", "4.00")
	require.NoError(t, s.db.Model(&models.Product{}).Where("id = ?", p.ID).Update("active", false).Error)
	cartID := s.cart(t, "u1")

	assert.ErrorIs(t, s.carts.AddLine(ctx, cartID, p.ID, 1), services.ErrProductNotFound)
	assert.ErrorIs(t, s.carts.AddLine(ctx, cartID, 9999, 1), services.ErrProductNotFound)

	n, err := s.carts.Count(ctx, cartID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCartService_TotalRoundsOnceHalfUp(t *testing.T) {
	s := newCheckoutStack(t, nil)
	ctx := context.Background()
	a := testutil.SeedProduct(t, s.db, "A", "19.995")
	b := testutil.SeedProduct(t, s.db, "B", "10.005")
	cartID := s.cart(t, "u1")
	require.NoError(t, s.carts.AddLine(ctx, cartID, a.ID, 1))
	require.NoError(t, s.carts.AddLine(ctx, cartID, b.ID, 1))

	summary, err := s.carts.LoadWithTotals(ctx, cartID)
	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("30.00")), "got %s", summary.Total)
	assert.Equal(t, "20.00", summary.Lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "10.01", summary.Lines[1].Subtotal.StringFixed(2))
}

func TestOrderService_ChargesTheCartTotal(t *testing.T) {
	s := newCheckoutStack(t, nil)
	ctx := context.Background()
	a := testutil.SeedProduct(t, s.db, "A", "19.995")
	b := testutil.SeedProduct(t, s.db, "B", "10.005")
	cartID := s.cart(t, "u1")
	require.NoError(t, s.carts.AddLine(ctx, cartID, a.ID, 1))
	require.NoError(t, s.carts.AddLine(ctx, cartID, b.ID, 1))
	addr := testutil.SeedAddress(t, s.db, "u1")

	summary, err := s.carts.LoadWithTotals(ctx, cartID)
	require.NoError(t, err)
	order, err := s.orders.CreateOrder(ctx, "u1", addr.ID)
	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(order.Total), "cart %s, order %s", summary.Total, order.Total)

	got, err := s.orders.GetWithLines(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "30.00", got.Total.StringFixed(2))
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "20.00", got.Lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "10.01", got.Lines[1].Subtotal.StringFixed(2))
}

func TestCartService_PricesAtCurrentPrice(t *testing.T) {
	s := newCheckoutStack(t, nil)
	ctx := context.Background()
	p := testutil.SeedProduct(t, s.db, "Café", "10.00")
	gone := testutil.SeedProduct(t, s.db, "Descontinuado", "4.50")
	cartID := s.cart(t, "u1")
	require.NoError(t, s.carts.AddLine(ctx, cartID, p.ID, 2))
	require.NoError(t, s.carts.AddLine(ctx, cartID, gone.ID, 1))

	require.NoError(t, s.db.Model(&models.Product{}).Where("id = ?", p.ID).Update("price", decimal.RequireFromString("11.00")).Error)
	require.NoError(t, s.db.Delete(&models.Product{}, gone.ID).Error)

	summary, err := s.carts.LoadWithTotals(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, "22.00", summary.Lines[0].Subtotal.StringFixed(2))
	assert.True(t, summary.Lines[0].PriceAtAdd.Equal(decimal.RequireFromString("10.00")))
	assert.Nil(t, summary.Lines[1].Product)
	assert.Equal(t, "4.50", summary.Lines[1].Subtotal.StringFixed(2))
	assert.Equal(t, "26.50", summary.Total.StringFixed(2))
}

func TestCartService_OwnershipAndUnknownProduct(t *testing.T) {
	s := newCheckoutStack(t, nil)
	ctx := context.Background()
	p := testutil.SeedProduct(t, s.db, "Café", "10.00")
	mine := s.cart(t, "u1")
	theirs := s.cart(t, "u2")
	require.NoError(t, s.carts.AddLine(ctx, mine, p.ID, 1))

	assert.ErrorIs(t, s.carts.AddLine(ctx, mine, 9999, 1), services.ErrProductNotFound)

	summary, err := s.carts.LoadWithTotals(ctx, mine)
	require.NoError(t, err)
	lineID := summary.Lines[0].ID

	require.NoError(t, s.carts.UpdateLineQty(ctx, theirs, lineID, 7))
	require.NoError(t, s.carts.RemoveLine(ctx, theirs, lineID))
	summary, err = s.carts.LoadWithTotals(ctx, mine)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, 1, summary.Lines[0].Qty)

	require.NoError(t, s.carts.UpdateLineQty(ctx, mine, lineID, 0))
	summary, err = s.carts.LoadWithTotals(ctx, mine)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Lines[0].Qty, "quantity is clamped to 1")

	require.NoError(t, s.carts.Clear(ctx, mine))
	summary, err = s.carts.LoadWithTotals(ctx, mine)
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)
	assert.True(t, summary.Total.IsZero())
}

func TestParseQty(t *testing.T) {
	assert.Equal(t, 3, services.ParseQty("3"))
	assert.Equal(t, 1, services.ParseQty("0"))
	assert.Equal(t, 1, services.ParseQty("-2"))
	assert.Equal(t, 1, services.ParseQty("dos"))
	assert.Equal(t, 1, services.ParseQty(""))
}

func TestOrderService_EmptyCartCreatesNothing(t *testing.T) {
	s := newCheckoutStack(t, nil)
	addr := testutil.SeedAddress(t, s.db, "u1")

	_, err := s.orders.CreateOrder(context.Background(), "u1", addr.ID)
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	var orders, lines int64
	require.NoError(t, s.db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, s.db.Model(&models.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
	s.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_AddressMustBelongToUser(t *testing.T) {
	s := newCheckoutStack(t, nil)
	ctx := context.Background()
	p := testutil.SeedProduct(t, s.db, "Café", "10.00")
	require.NoError(t, s.carts.AddLine(ctx, s.cart(t, "u1"), p.ID, 1))
	foreign := testutil.SeedAddress(t, s.db, "u2")

	_, err := s.orders.CreateOrder(ctx, "u1", foreign.ID)
	assert.ErrorIs(t, err, services.ErrAddressNotFound)
	_, err = s.orders.CreateOrder(ctx, "u1", 424242)
	assert.ErrorIs(t, err, services.ErrAddressNotFound)
}

func TestOrderService_OrderIsASnapshot(t *testing.T) {
	s := newCheckoutStack(t, nil)
	ctx := context.Background()
	p := testutil.SeedProduct(t, s.db, "Café", "10.00")
	cartID := s.cart(t, "u1")
	require.NoError(t, s.carts.AddLine(ctx, cartID, p.ID, 3))
	addr := testutil.SeedAddress(t, s.db, "u1")

	order, err := s.orders.CreateOrder(ctx, "u1", addr.ID)
	require.NoError(t, err)

	require.NoError(t, s.db.Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]any{"price": decimal.RequireFromString("99.00"), "name": "Café Premium"}).Error)
	require.NoError(t, s.db.Model(&models.Address{}).Where("id = ?", addr.ID).Update("city", "Xela").Error)

	got, err := s.orders.GetWithLines(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "30.00", got.Total.StringFixed(2))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Café", got.Lines[0].Name)
	assert.Equal(t, "10.00", got.Lines[0].Price.StringFixed(2))
	assert.Equal(t, "30.00", got.Lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "Guatemala", got.AddressSnapshot.City)
	assert.Equal(t, addr.ID, got.AddressSnapshot.AddressID)

	summary, err := s.carts.LoadWithTotals(ctx, cartID)
	require.NoError(t, err)
	assert.Len(t, summary.Lines, 1, "checkout leaves the cart for a retry")

	ev := s.publisher.event(t, services.EventOrderCreated)
	assert.Equal(t, order.ID, ev.OrderID)
	assert.Equal(t, "30.00", ev.Total)
}

func TestOrderService_UpdateFulfilmentStatus(t *testing.T) {
	s := newCheckoutStack(t, nil)
	ctx := context.Background()
	p := testutil.SeedProduct(t, s.db, "Café", "10.00")
	require.NoError(t, s.carts.AddLine(ctx, s.cart(t, "u1"), p.ID, 1))
	addr := testutil.SeedAddress(t, s.db, "u1")
	order, err := s.orders.CreateOrder(ctx, "u1", addr.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.orders.UpdateFulfilmentStatus(ctx, order.ID, "lost"), services.ErrInvalidOrderStatus)
	assert.ErrorIs(t, s.orders.UpdateFulfilmentStatus(ctx, 9999, models.OrderStatusShipped), services.ErrOrderNotFound)

	require.NoError(t, s.orders.UpdateFulfilmentStatus(ctx, order.ID, models.OrderStatusShipped))
	got := s.order(t, order.ID)
	assert.Equal(t, models.OrderStatusShipped, got.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, got.PaymentStatus)
}

func TestOrderService_StoreFailureIsRemoteStoreError(t *testing.T) {
	s := newCheckoutStack(t, nil)
	ctx := context.Background()
	p := testutil.SeedProduct(t, s.db, "Café", "10.00")
	require.NoError(t, s.carts.AddLine(ctx, s.cart(t, "u1"), p.ID, 1))
	addr := testutil.SeedAddress(t, s.db, "u1")

	require.NoError(t, s.db.Migrator().DropTable(&models.OrderLine{}))

	_, err := s.orders.CreateOrder(ctx, "u1", addr.ID)
	var storeErr *services.RemoteStoreError
	require.True(t, errors.As(err, &storeErr), "got %v", err)

	var orders int64
	require.NoError(t, s.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders, "order and lines are written together or not at all")
}
