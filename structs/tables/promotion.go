package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type SaleType string

const (
	SaleTypeAll      SaleType = "all"
	SaleTypeCategory SaleType = "category"
	SaleTypeProducts SaleType = "products"
)

type ScheduledSale struct {
	bun.BaseModel `bun:"table:scheduled_sales,alias:ss"`

	ID                 uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name               string          `bun:"name,notnull" json:"name"`
	DiscountPercentage decimal.Decimal `bun:"discount_percentage,type:numeric(5,2),notnull" json:"discount_percentage"`
	SaleType           SaleType        `bun:"sale_type,notnull,default:'all'" json:"sale_type"`
	TargetCategory     string          `bun:"target_category" json:"target_category,omitempty"`
	TargetProductIDs   []uuid.UUID     `bun:"target_product_ids,type:jsonb" json:"target_product_ids,omitempty"`
	StartDate          time.Time       `bun:"start_date,notnull" json:"start_date"`
	EndDate            time.Time       `bun:"end_date,notnull" json:"end_date"`
	IsActive           bool            `bun:"is_active,notnull,default:true" json:"is_active"`
	IsPaused           bool            `bun:"is_paused,notnull,default:false" json:"is_paused"`
	CreatedAt          time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type PromotionalBanner struct {
	bun.BaseModel `bun:"table:promotional_banners,alias:pbn"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Message         string     `bun:"message,notnull" json:"message"`
	Link            string     `bun:"link" json:"link,omitempty"`
	BackgroundColor string     `bun:"background_color,notnull,default:'#3d2b1f'" json:"background_color"`
	TextColor       string     `bun:"text_color,notnull,default:'#ffffff'" json:"text_color"`
	IsActive        bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	IsSticky        bool       `bun:"is_sticky,notnull,default:false" json:"is_sticky"`
	StartDate       *time.Time `bun:"start_date" json:"start_date,omitempty"`
	EndDate         *time.Time `bun:"end_date" json:"end_date,omitempty"`
	SortOrder       int        `bun:"sort_order,notnull,default:0" json:"sort_order"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// SiteSetting is one key of the store configuration.
type SiteSetting struct {
	bun.BaseModel `bun:"table:site_settings,alias:st"`

	Key       string    `bun:"key,pk" json:"key"`
	Value     string    `bun:"value,notnull" json:"value"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
