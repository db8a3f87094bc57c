package structs

import (
	"time"

	"woodzire_server/structs/tables"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleRequest struct {
	Name               string          `json:"name" validate:"required,min=2,max=200"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	SaleType           tables.SaleType `json:"sale_type" validate:"required,oneof=all category products"`
	TargetCategory     string          `json:"target_category,omitempty" validate:"omitempty,max=100"`
	TargetProductIDs   []uuid.UUID     `json:"target_product_ids,omitempty"`
	StartDate          time.Time       `json:"start_date" validate:"required"`
	EndDate            time.Time       `json:"end_date" validate:"required"`
	IsActive           bool            `json:"is_active"`
	IsPaused           bool            `json:"is_paused"`
}

// SaleBuckets groups scheduled sales by their state at read time. Every
// sale lands in at least one bucket; paused ones may land in two.
type SaleBuckets struct {
	Live     []tables.ScheduledSale `json:"live"`
	Upcoming []tables.ScheduledSale `json:"upcoming"`
	Past     []tables.ScheduledSale `json:"past"`
	Paused   []tables.ScheduledSale `json:"paused"`
	Inactive []tables.ScheduledSale `json:"inactive"`
}

type BannerRequest struct {
	Message         string     `json:"message" validate:"required,max=500"`
	Link            string     `json:"link,omitempty" validate:"omitempty,max=2000"`
	BackgroundColor string     `json:"background_color,omitempty" validate:"omitempty,hexcolor"`
	TextColor       string     `json:"text_color,omitempty" validate:"omitempty,hexcolor"`
	IsActive        bool       `json:"is_active"`
	IsSticky        bool       `json:"is_sticky"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	SortOrder       int        `json:"sort_order"`
}

type GiftCardIssueRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	RecipientEmail string          `json:"recipient_email,omitempty" validate:"omitempty,email"`
	PurchaserEmail string          `json:"purchaser_email,omitempty" validate:"omitempty,email"`
	Message        string          `json:"message,omitempty" validate:"omitempty,max=500"`
	IsPublic       bool            `json:"is_public"`
	UsageLimit     *int            `json:"usage_limit,omitempty" validate:"omitempty,gte=1"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	SendEmail      bool            `json:"send_email"`
}

type GiftCardUpdateRequest struct {
	IsActive    *bool      `json:"is_active,omitempty"`
	IsPublic    *bool      `json:"is_public,omitempty"`
	UsageLimit  *int       `json:"usage_limit,omitempty" validate:"omitempty,gte=0"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ClearExpiry bool       `json:"clear_expiry,omitempty"`
}

type GiftCardValidateRequest struct {
	Code   string          `json:"code" validate:"required,max=32"`
	Amount decimal.Decimal `json:"amount"`
}

type GiftCardValidation struct {
	Code             string          `json:"code"`
	Valid            bool            `json:"valid"`
	Message          string          `json:"message,omitempty"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	Discount         decimal.Decimal `json:"discount"`
}

// PublicGiftCard hides everything except what a shopper needs to redeem.
type PublicGiftCard struct {
	Code           string          `json:"code"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
}

type SalePauseRequest struct {
	Paused bool `json:"paused"`
}
