package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID   uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name string    `bun:"name,notnull" json:"name"`
	Slug string    `bun:"slug,notnull,unique" json:"slug"`

	Description      string `bun:"description" json:"description,omitempty"`
	CareInstructions string `bun:"care_instructions" json:"care_instructions,omitempty"`
	ShippingInfo     string `bun:"shipping_info" json:"shipping_info,omitempty"`

	// Pricing, whole rupees
	Price              decimal.Decimal  `bun:"price,type:numeric(12,2),notnull" json:"price"`
	CompareAtPrice     *decimal.Decimal `bun:"compare_at_price,type:numeric(12,2)" json:"compare_at_price,omitempty"`
	IsOnSale           bool             `bun:"is_on_sale,notnull,default:false" json:"is_on_sale"`
	DiscountPercentage decimal.Decimal  `bun:"discount_percentage,type:numeric(5,2),notnull,default:0" json:"discount_percentage"`

	// Filled on read from the product's own discount and live sales
	EffectiveDiscount decimal.Decimal `bun:"-" json:"effective_discount"`
	EffectivePrice    decimal.Decimal `bun:"-" json:"effective_price"`

	Category string `bun:"category" json:"category,omitempty"`
	WoodType string `bun:"wood_type" json:"wood_type,omitempty"`

	// Inventory
	StockQuantity     int  `bun:"stock_quantity,notnull,default:0" json:"stock_quantity"`
	LowStockThreshold int  `bun:"low_stock_threshold,notnull,default:5" json:"low_stock_threshold"`
	IsMadeToOrder     bool `bun:"is_made_to_order,notnull,default:false" json:"is_made_to_order"`

	// Fulfilment
	PrepTimeDays                int             `bun:"prep_time_days,notnull,default:0" json:"prep_time_days"`
	EstimatedDeliveryDays       int             `bun:"estimated_delivery_days,notnull,default:0" json:"estimated_delivery_days"`
	DeliveryCharge              decimal.Decimal `bun:"delivery_charge,type:numeric(12,2),notnull,default:0" json:"delivery_charge"`
	InternationalDeliveryCharge decimal.Decimal `bun:"international_delivery_charge,type:numeric(12,2),notnull,default:0" json:"international_delivery_charge"`

	// Merchandising flags
	IsActive   bool `bun:"is_active,notnull,default:true" json:"is_active"`
	IsFeatured bool `bun:"is_featured,notnull,default:false" json:"is_featured"`
	IsTrending bool `bun:"is_trending,notnull,default:false" json:"is_trending"`

	Images     []string          `bun:"images,type:jsonb" json:"images"`
	Dimensions map[string]string `bun:"dimensions,type:jsonb" json:"dimensions,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// PrimaryImage returns the first image URL or an empty string.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	Description string    `bun:"description" json:"description,omitempty"`
	ImageURL    string    `bun:"image_url" json:"image_url,omitempty"`
	SortOrder   int       `bun:"sort_order,notnull,default:0" json:"sort_order"`
	IsActive    bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type ProductBundle struct {
	bun.BaseModel `bun:"table:product_bundles,alias:pb"`

	ID          uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name        string          `bun:"name,notnull" json:"name"`
	Slug        string          `bun:"slug,notnull,unique" json:"slug"`
	Description string          `bun:"description" json:"description,omitempty"`
	ProductIDs  []uuid.UUID     `bun:"product_ids,type:jsonb,notnull" json:"product_ids"`
	BundlePrice decimal.Decimal `bun:"bundle_price,type:numeric(12,2),notnull" json:"bundle_price"`
	ImageURL    string          `bun:"image_url" json:"image_url,omitempty"`
	IsActive    bool            `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
