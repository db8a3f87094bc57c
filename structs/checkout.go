package structs

import (
	"woodzire_server/structs/tables"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine references either a product or a bundle. Prices are always
// resolved server-side.
type CartLine struct {
	ProductID *uuid.UUID `json:"product_id,omitempty" validate:"required_without=BundleID"`
	BundleID  *uuid.UUID `json:"bundle_id,omitempty" validate:"required_without=ProductID"`
	Quantity  int        `json:"quantity" validate:"required,gte=1,lte=100"`
}

type QuoteRequest struct {
	Items        []CartLine `json:"items" validate:"required,min=1,dive"`
	Country      string     `json:"country" validate:"required,max=100"`
	GiftCardCode string     `json:"gift_card_code,omitempty" validate:"omitempty,max=32"`
}

type CheckoutRequest struct {
	CustomerName    string                 `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail   string                 `json:"customer_email" validate:"required,email"`
	CustomerPhone   string                 `json:"customer_phone" validate:"required,min=10,max=20"`
	ShippingAddress tables.ShippingAddress `json:"shipping_address"`
	Items           []CartLine             `json:"items" validate:"required,min=1,dive"`
	GiftCardCode    string                 `json:"gift_card_code,omitempty" validate:"omitempty,max=32"`
	PaymentMethod   string                 `json:"payment_method,omitempty" validate:"omitempty,oneof=cod upi razorpay"`
	Notes           string                 `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type QuoteLine struct {
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	BundleID  *uuid.UUID      `json:"bundle_id,omitempty"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Quote struct {
	Lines             []QuoteLine     `json:"lines"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	ShippingCost      decimal.Decimal `json:"shipping_cost"`
	Tax               decimal.Decimal `json:"tax"`
	GiftCardDiscount  decimal.Decimal `json:"gift_card_discount"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	IsInternational   bool            `json:"is_international"`
	GiftCardMessage   string          `json:"gift_card_message,omitempty"`
	FreeShippingAbove decimal.Decimal `json:"free_shipping_above"`
}

type OrderDetails struct {
	Order   *tables.Order               `json:"order"`
	History []tables.OrderStatusHistory `json:"history"`
}

type StatusUpdateRequest struct {
	Status                tables.OrderStatus `json:"status" validate:"required,oneof=pending preparing shipped delivered cancelled"`
	TrackingNumber        string             `json:"tracking_number,omitempty" validate:"omitempty,max=100"`
	CarrierName           string             `json:"carrier_name,omitempty" validate:"omitempty,max=50"`
	EstimatedDeliveryDate string             `json:"estimated_delivery_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CancellationReason    string             `json:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
	RefundAmount          *decimal.Decimal   `json:"refund_amount,omitempty"`
	RefundMethod          string             `json:"refund_method,omitempty" validate:"omitempty,max=50"`
	Notes                 string             `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Force                 bool               `json:"force,omitempty"`
}

type ShippingCostRequest struct {
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}
