// Package pagadito talks to the Pagadito hosted checkout. Outbound it only builds the
// redirect URL; inbound it parses the browser return and the server-to-server notification.
package pagadito

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/RajaSunrise/toko/pkg/money"
	"github.com/shopspring/decimal"
)

// ReferencePrefix is the literal the gateway echoes back in notifications.
const ReferencePrefix = "ORDER-"

const DefaultCheckoutURL = "https://sandbox.pagadi.to/checkout"

// Outcome is the normalized result reported by the gateway.
type Outcome string

const (
	OutcomePaid   Outcome = "paid"
	OutcomeFailed Outcome = "failed"
)

var paidStatuses = map[string]struct{}{
	"paid":      {},
	"approved":  {},
	"completed": {},
	"success":   {},
}

// Config holds the merchant credentials.
type Config struct {
	UID         string
	WKey        string
	CheckoutURL string
}

// Client builds gateway redirects. It holds no connections.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.CheckoutURL == "" {
		cfg.CheckoutURL = DefaultCheckoutURL
	}
	return &Client{cfg: cfg}
}

// Checkout is the part of an order the gateway needs to know about.
type Checkout struct {
	OrderID  uint
	Amount   decimal.Decimal
	Currency string
}

// Callbacks are the three absolute URLs the gateway calls back.
type Callbacks struct {
	ReturnOK    string
	ReturnError string
	Notify      string
}

// BuildRedirect returns the hosted checkout URL the browser must be sent to.
func (c *Client) BuildRedirect(co Checkout, cb Callbacks) (*url.URL, error) {
	if co.OrderID == 0 {
		return nil, fmt.Errorf("order id is required")
	}
	if co.Currency == "" {
		return nil, fmt.Errorf("currency is required")
	}
	base, err := url.Parse(c.cfg.CheckoutURL)
	if err != nil {
		return nil, fmt.Errorf("invalid checkout url %q: %w", c.cfg.CheckoutURL, err)
	}

	q := base.Query()
	q.Set("uid", c.cfg.UID)
	q.Set("wkey", c.cfg.WKey)
	q.Set("amount", money.Format(co.Amount))
	q.Set("currency", co.Currency)
	q.Set("reference", Reference(co.OrderID))
	q.Set("url_ok", cb.ReturnOK)
	q.Set("url_error", cb.ReturnError)
	q.Set("url_notify", cb.Notify)
	base.RawQuery = q.Encode()
	return base, nil
}

// Reference renders the gateway correlation key for an order.
func Reference(orderID uint) string {
	return ReferencePrefix + strconv.FormatUint(uint64(orderID), 10)
}

// ParseReference extracts the order id from ORDER-<id>.
func ParseReference(ref string) (uint, error) {
	ref = strings.TrimSpace(ref)
	idx := strings.LastIndex(ref, ReferencePrefix)
	if idx < 0 {
		return 0, fmt.Errorf("%w: bad reference %q", ErrMalformedNotification, ref)
	}
	id, err := strconv.ParseUint(ref[idx+len(ReferencePrefix):], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad reference %q", ErrMalformedNotification, ref)
	}
	return uint(id), nil
}

// ParseReturn reads the order_id query parameter of a browser return.
func ParseReturn(orderIDParam string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(orderIDParam), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidReturn, orderIDParam)
	}
	return uint(id), nil
}

// Notification is a parsed asynchronous callback.
type Notification struct {
	Reference  string
	OrderID    uint
	Status     string
	Outcome    Outcome
	GatewayRef string
}

// Fields looks a notification field up. Handlers pass a function that checks the
// form body first and the query string second.
type Fields func(key string) string

// ParseNotification validates the reference/status/txid fields.
func ParseNotification(get Fields) (Notification, error) {
	ref := strings.TrimSpace(get("reference"))
	status := strings.TrimSpace(get("status"))
	if ref == "" || status == "" {
		return Notification{}, ErrMissingParams
	}

	orderID, err := ParseReference(ref)
	if err != nil {
		return Notification{}, err
	}

	return Notification{
		Reference:  ref,
		OrderID:    orderID,
		Status:     status,
		Outcome:    OutcomeFor(status),
		GatewayRef: strings.TrimSpace(get("txid")),
	}, nil
}

// OutcomeFor maps a raw gateway status to an outcome, case-insensitively.
func OutcomeFor(status string) Outcome {
	if _, ok := paidStatuses[strings.ToLower(strings.TrimSpace(status))]; ok {
		return OutcomePaid
	}
	return OutcomeFailed
}

// IdempotencyKey identifies one delivery of a notification.
func (n Notification) IdempotencyKey() string {
	return n.Reference + "|" + strings.ToLower(n.Status) + "|" + n.GatewayRef
}
