package structs

import (
	"woodzire_server/structs/tables"

	"github.com/google/uuid"
)

type AddressRequest struct {
	Label string `json:"label,omitempty" validate:"omitempty,max=50"`
	tables.ShippingAddress
	IsDefault bool `json:"is_default"`
}

type WishlistRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type StockAlertRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
}

type EmailPreferenceRequest struct {
	Email          string `json:"email" validate:"required,email"`
	MarketingOptIn *bool  `json:"marketing_opt_in,omitempty"`
	OrderUpdates   *bool  `json:"order_updates,omitempty"`
}

type AbandonedCartRequest struct {
	Email string                     `json:"email" validate:"required,email"`
	Items []tables.AbandonedCartItem `json:"items" validate:"required,min=1,max=50"`
}

type CampaignRequest struct {
	Name    string         `json:"name" validate:"required,min=2,max=200"`
	Subject string         `json:"subject" validate:"required,max=200"`
	Content string         `json:"content" validate:"required"`
	ABTest  *ABTestRequest `json:"ab_test,omitempty"`
}

type ABTestRequest struct {
	SubjectB        string `json:"subject_b" validate:"required,max=200"`
	SplitPercentage int    `json:"split_percentage" validate:"required,gte=1,lte=99"`
}

type CampaignStats struct {
	CampaignID uuid.UUID              `json:"campaign_id"`
	Total      int                    `json:"total"`
	Sent       int                    `json:"sent"`
	Failed     int                    `json:"failed"`
	Opened     int                    `json:"opened"`
	Clicked    int                    `json:"clicked"`
	Variants   map[string]VariantStat `json:"variants"`
}

type VariantStat struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Opened int `json:"opened"`
}

type CampaignSendResult struct {
	Recipients int `json:"recipients"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

type DashboardStats struct {
	OrdersByStatus   map[tables.OrderStatus]int `json:"orders_by_status"`
	Revenue          string                     `json:"revenue"`
	RevenueFormatted string                     `json:"revenue_formatted"`
	TodayOrders      int                        `json:"today_orders"`
	LowStockProducts []tables.Product           `json:"low_stock_products"`
	PendingReviews   int                        `json:"pending_reviews"`
	UnreadInquiries  int                        `json:"unread_inquiries"`
}
