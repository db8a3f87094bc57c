package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ShippingAddress is embedded in the order row as jsonb.
type ShippingAddress struct {
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	Phone      string `json:"phone" validate:"required,min=10,max=20"`
	Street     string `json:"street" validate:"required,max=200"`
	Landmark   string `json:"landmark,omitempty" validate:"omitempty,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderNumber string     `bun:"order_number,notnull,unique" json:"order_number"`
	UserID      *uuid.UUID `bun:"user_id,type:uuid" json:"user_id,omitempty"` // nil for guest checkout

	// Customer contact
	CustomerName  string `bun:"customer_name,notnull" json:"customer_name"`
	CustomerEmail string `bun:"customer_email,notnull" json:"customer_email"`
	CustomerPhone string `bun:"customer_phone,notnull" json:"customer_phone"`

	ShippingAddress ShippingAddress `bun:"shipping_address,type:jsonb,notnull" json:"shipping_address"`

	// Amounts: total = subtotal + shipping_cost + tax
	Subtotal     decimal.Decimal `bun:"subtotal,type:numeric(12,2),notnull" json:"subtotal"`
	ShippingCost decimal.Decimal `bun:"shipping_cost,type:numeric(12,2),notnull" json:"shipping_cost"`
	Tax          decimal.Decimal `bun:"tax,type:numeric(12,2),notnull" json:"tax"`
	Total        decimal.Decimal `bun:"total,type:numeric(12,2),notnull" json:"total"`

	GiftCardCode  string `bun:"gift_card_code" json:"gift_card_code,omitempty"`
	PaymentMethod string `bun:"payment_method,notnull,default:'cod'" json:"payment_method"`

	Status OrderStatus `bun:"status,notnull,default:'pending'" json:"status"`

	// Shipping, set once shipped
	TrackingNumber        string     `bun:"tracking_number" json:"tracking_number,omitempty"`
	CarrierName           string     `bun:"carrier_name" json:"carrier_name,omitempty"`
	EstimatedDeliveryDate *time.Time `bun:"estimated_delivery_date" json:"estimated_delivery_date,omitempty"`
	ShippedAt             *time.Time `bun:"shipped_at" json:"shipped_at,omitempty"`
	DeliveredAt           *time.Time `bun:"delivered_at" json:"delivered_at,omitempty"`

	// Cancellation, recording only
	CancellationReason string           `bun:"cancellation_reason" json:"cancellation_reason,omitempty"`
	RefundAmount       *decimal.Decimal `bun:"refund_amount,type:numeric(12,2)" json:"refund_amount,omitempty"`
	RefundMethod       string           `bun:"refund_method" json:"refund_method,omitempty"`
	CancelledAt        *time.Time       `bun:"cancelled_at" json:"cancelled_at,omitempty"`

	Notes string `bun:"notes" json:"notes,omitempty"`

	Items []OrderItem `bun:"rel:has-many,join:id=order_id" json:"items,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// OrderItem snapshots the product as it was at purchase time.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderID      uuid.UUID       `bun:"order_id,type:uuid,notnull" json:"order_id"`
	ProductID    *uuid.UUID      `bun:"product_id,type:uuid" json:"product_id,omitempty"`
	BundleID     *uuid.UUID      `bun:"bundle_id,type:uuid" json:"bundle_id,omitempty"`
	ProductName  string          `bun:"product_name,notnull" json:"product_name"`
	ProductImage string          `bun:"product_image" json:"product_image,omitempty"`
	UnitPrice    decimal.Decimal `bun:"unit_price,type:numeric(12,2),notnull" json:"unit_price"`
	Quantity     int             `bun:"quantity,notnull" json:"quantity"`
	LineTotal    decimal.Decimal `bun:"line_total,type:numeric(12,2),notnull" json:"line_total"`
}

type OrderStatusHistory struct {
	bun.BaseModel `bun:"table:order_status_history,alias:osh"`

	ID             uuid.UUID    `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderID        uuid.UUID    `bun:"order_id,type:uuid,notnull" json:"order_id"`
	Status         OrderStatus  `bun:"status,notnull" json:"status"`
	PreviousStatus *OrderStatus `bun:"previous_status" json:"previous_status,omitempty"`
	Notes          string       `bun:"notes" json:"notes,omitempty"`
	ChangedBy      string       `bun:"changed_by,notnull,default:'system'" json:"changed_by"`
	CreatedAt      time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}
