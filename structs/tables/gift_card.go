package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type GiftCard struct {
	bun.BaseModel `bun:"table:gift_cards,alias:gc"`

	ID             uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Code           string          `bun:"code,notnull,unique" json:"code"`
	InitialBalance decimal.Decimal `bun:"initial_balance,type:numeric(12,2),notnull" json:"initial_balance"`
	CurrentBalance decimal.Decimal `bun:"current_balance,type:numeric(12,2),notnull" json:"current_balance"`
	IsActive       bool            `bun:"is_active,notnull,default:true" json:"is_active"`
	IsPublic       bool            `bun:"is_public,notnull,default:false" json:"is_public"`
	UsageLimit     *int            `bun:"usage_limit" json:"usage_limit,omitempty"`
	UsageCount     int             `bun:"usage_count,notnull,default:0" json:"usage_count"`
	RecipientEmail string          `bun:"recipient_email" json:"recipient_email,omitempty"`
	PurchaserEmail string          `bun:"purchaser_email" json:"purchaser_email,omitempty"`
	Message        string          `bun:"message" json:"message,omitempty"`
	ExpiresAt      *time.Time      `bun:"expires_at" json:"expires_at,omitempty"`
	CreatedAt      time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type GiftCardTransactionType string

const (
	GiftCardTransactionPurchase   GiftCardTransactionType = "purchase"
	GiftCardTransactionRedemption GiftCardTransactionType = "redemption"
	GiftCardTransactionAdjustment GiftCardTransactionType = "adjustment"
)

// GiftCardTransaction is an append-only ledger row.
type GiftCardTransaction struct {
	bun.BaseModel `bun:"table:gift_card_transactions,alias:gct"`

	ID           uuid.UUID               `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	GiftCardID   uuid.UUID               `bun:"gift_card_id,type:uuid,notnull" json:"gift_card_id"`
	OrderID      *uuid.UUID              `bun:"order_id,type:uuid" json:"order_id,omitempty"`
	Amount       decimal.Decimal         `bun:"amount,type:numeric(12,2),notnull" json:"amount"`
	Type         GiftCardTransactionType `bun:"type,notnull" json:"type"`
	BalanceAfter decimal.Decimal         `bun:"balance_after,type:numeric(12,2),notnull" json:"balance_after"`
	CreatedAt    time.Time               `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
