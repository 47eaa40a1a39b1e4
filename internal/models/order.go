package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order status values.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Payment status values.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "failed"
)

const PaymentMethodPagadito = "pagadito"

// Order is created once at checkout. Total is fixed at creation.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          string          `json:"user_id" gorm:"index;type:varchar(36);not null"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	Currency        string          `json:"currency" gorm:"type:varchar(3);not null"`
	Status          string          `json:"status" gorm:"type:varchar(20);not null"`
	PaymentStatus   string          `json:"payment_status" gorm:"type:varchar(20);not null"`
	PaymentMethod   string          `json:"payment_method" gorm:"type:varchar(40);not null"`
	GatewayRef      *string         `json:"gateway_ref,omitempty" gorm:"type:varchar(255)"`
	AddressSnapshot AddressSnapshot `json:"address_snapshot" gorm:"type:jsonb"`
	Lines           []OrderLine     `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderLine is an immutable copy of a cart line at checkout time.
type OrderLine struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"not null"`
	Name      string          `json:"name" gorm:"type:varchar(200);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Qty       int             `json:"qty" gorm:"not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
}

func (OrderLine) TableName() string { return "order_items" }

// AddressSnapshot is the shipping address copied by value into an order.
type AddressSnapshot struct {
	AddressID  uint   `json:"address_id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// SnapshotOf copies an address.
func SnapshotOf(a Address) AddressSnapshot {
	return AddressSnapshot{
		AddressID:  a.ID,
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func (s AddressSnapshot) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *AddressSnapshot) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = AddressSnapshot{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported address snapshot type %T", value)
	}
	return json.Unmarshal(raw, s)
}

// IsFulfilmentStatus reports whether status may be set from the back-office.
func IsFulfilmentStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}
