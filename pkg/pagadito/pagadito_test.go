package pagadito

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(m map[string]string) Fields {
	return func(key string) string { return m[key] }
}

func TestBuildRedirect(t *testing.T) {
	client := NewClient(Config{UID: "merchant", WKey: "secret", CheckoutURL: "https://gw.example/checkout"})

	u, err := client.BuildRedirect(
		Checkout{OrderID: 42, Amount: decimal.RequireFromString("25"), Currency: "GTQ"},
		Callbacks{
			ReturnOK:    "https://shop.example/payments/pagadito/return-ok?order_id=42",
			ReturnError: "https://shop.example/payments/pagadito/return-error?order_id=42",
			Notify:      "https://shop.example/payments/pagadito/ipn",
		},
	)
	require.NoError(t, err)

	assert.Equal(t, "gw.example", u.Host)
	assert.Equal(t, "/checkout", u.Path)
	q := u.Query()
	assert.Equal(t, "merchant", q.Get("uid"))
	assert.Equal(t, "secret", q.Get("wkey"))
	assert.Equal(t, "25.00", q.Get("amount"))
	assert.Equal(t, "GTQ", q.Get("currency"))
	assert.Equal(t, "ORDER-42", q.Get("reference"))
	assert.Equal(t, "https://shop.example/payments/pagadito/return-ok?order_id=42", q.Get("url_ok"))
	assert.Equal(t, "https://shop.example/payments/pagadito/return-error?order_id=42", q.Get("url_error"))
	assert.Equal(t, "https://shop.example/payments/pagadito/ipn", q.Get("url_notify"))
}

func TestBuildRedirectDefaultsAndValidation(t *testing.T) {
	client := NewClient(Config{})
	u, err := client.BuildRedirect(Checkout{OrderID: 1, Amount: decimal.NewFromFloat(9.999), Currency: "GTQ"}, Callbacks{})
	require.NoError(t, err)
	assert.Equal(t, "sandbox.pagadi.to", u.Host)
	assert.Equal(t, "10.00", u.Query().Get("amount"))

	_, err = client.BuildRedirect(Checkout{Currency: "GTQ"}, Callbacks{})
	assert.Error(t, err)
}

func TestReferenceRoundTrip(t *testing.T) {
	assert.Equal(t, "ORDER-7", Reference(7))
	id, err := ParseReference("ORDER-7")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
}

func TestParseNotification(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]string
		outcome Outcome
		orderID uint
		wantErr bool
	}{
		{name: "approved", in: map[string]string{"reference": "ORDER-3", "status": "approved", "txid": "tx-1"}, outcome: OutcomePaid, orderID: 3},
		{name: "upper case paid", in: map[string]string{"reference": "ORDER-3", "status": "PAID"}, outcome: OutcomePaid, orderID: 3},
		{name: "completed", in: map[string]string{"reference": "ORDER-3", "status": "Completed"}, outcome: OutcomePaid, orderID: 3},
		{name: "success", in: map[string]string{"reference": "ORDER-3", "status": "success"}, outcome: OutcomePaid, orderID: 3},
		{name: "declined", in: map[string]string{"reference": "ORDER-3", "status": "declined"}, outcome: OutcomeFailed, orderID: 3},
		{name: "missing status", in: map[string]string{"reference": "ORDER-3"}, wantErr: true},
		{name: "missing reference", in: map[string]string{"status": "paid"}, wantErr: true},
		{name: "no prefix", in: map[string]string{"reference": "42", "status": "paid"}, wantErr: true},
		{name: "non numeric", in: map[string]string{"reference": "ORDER-abc", "status": "paid"}, wantErr: true},
		{name: "zero id", in: map[string]string{"reference": "ORDER-0", "status": "paid"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseNotification(fields(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedNotification))
				_, hasRef := tt.in["reference"]
				_, hasStatus := tt.in["status"]
				assert.Equal(t, !hasRef || !hasStatus, errors.Is(err, ErrMissingParams))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, n.Outcome)
			assert.Equal(t, tt.orderID, n.OrderID)
			assert.Equal(t, tt.in["txid"], n.GatewayRef)
		})
	}
}

func TestParseReturn(t *testing.T) {
	id, err := ParseReturn("12")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	_, err = ParseReturn("")
	assert.ErrorIs(t, err, ErrInvalidReturn)
	_, err = ParseReturn("x")
	assert.ErrorIs(t, err, ErrInvalidReturn)
}

func TestIdempotencyKey(t *testing.T) {
	a, err := ParseNotification(fields(map[string]string{"reference": "ORDER-3", "status": "PAID", "txid": "t"}))
	require.NoError(t, err)
	b, err := ParseNotification(fields(map[string]string{"reference": "ORDER-3", "status": "paid", "txid": "t"}))
	require.NoError(t, err)
	assert.Equal(t, a.IdempotencyKey(), b.IdempotencyKey())
}
