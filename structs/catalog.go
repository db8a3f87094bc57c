package structs

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRequest carries a full create or a partial update; nil fields
// are left untouched.
type ProductRequest struct {
	Name                        *string           `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Slug                        *string           `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description                 *string           `json:"description,omitempty" validate:"omitempty,max=10000"`
	CareInstructions            *string           `json:"care_instructions,omitempty" validate:"omitempty,max=5000"`
	ShippingInfo                *string           `json:"shipping_info,omitempty" validate:"omitempty,max=5000"`
	Price                       *decimal.Decimal  `json:"price,omitempty"`
	CompareAtPrice              *decimal.Decimal  `json:"compare_at_price,omitempty"`
	IsOnSale                    *bool             `json:"is_on_sale,omitempty"`
	DiscountPercentage          *decimal.Decimal  `json:"discount_percentage,omitempty"`
	Category                    *string           `json:"category,omitempty" validate:"omitempty,max=100"`
	WoodType                    *string           `json:"wood_type,omitempty" validate:"omitempty,max=100"`
	StockQuantity               *int              `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	LowStockThreshold           *int              `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
	IsMadeToOrder               *bool             `json:"is_made_to_order,omitempty"`
	PrepTimeDays                *int              `json:"prep_time_days,omitempty" validate:"omitempty,gte=0,lte=365"`
	EstimatedDeliveryDays       *int              `json:"estimated_delivery_days,omitempty" validate:"omitempty,gte=0,lte=365"`
	DeliveryCharge              *decimal.Decimal  `json:"delivery_charge,omitempty"`
	InternationalDeliveryCharge *decimal.Decimal  `json:"international_delivery_charge,omitempty"`
	IsActive                    *bool             `json:"is_active,omitempty"`
	IsFeatured                  *bool             `json:"is_featured,omitempty"`
	IsTrending                  *bool             `json:"is_trending,omitempty"`
	Images                      []string          `json:"images,omitempty" validate:"omitempty,max=20,dive,max=2000"`
	Dimensions                  map[string]string `json:"dimensions,omitempty"`
}

type RestockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,max=2000"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

type BundleRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Slug        string          `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	ProductIDs  []uuid.UUID     `json:"product_ids" validate:"required,min=2,max=20"`
	BundlePrice decimal.Decimal `json:"bundle_price"`
	ImageURL    string          `json:"image_url,omitempty" validate:"omitempty,max=2000"`
	IsActive    bool            `json:"is_active"`
}

// BundleView is a bundle with its savings against buying items singly.
type BundleView struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	ProductIDs  []uuid.UUID     `json:"product_ids"`
	BundlePrice decimal.Decimal `json:"bundle_price"`
	ItemsTotal  decimal.Decimal `json:"items_total"`
	Savings     decimal.Decimal `json:"savings"`
}

type ImportReport struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors"`
}

type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}
