package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CampaignStatus string

const (
	CampaignStatusDraft   CampaignStatus = "draft"
	CampaignStatusSending CampaignStatus = "sending"
	CampaignStatusSent    CampaignStatus = "sent"
)

type EmailCampaign struct {
	bun.BaseModel `bun:"table:email_campaigns,alias:ec"`

	ID             uuid.UUID      `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name           string         `bun:"name,notnull" json:"name"`
	Subject        string         `bun:"subject,notnull" json:"subject"`
	Content        string         `bun:"content,notnull" json:"content"`
	Status         CampaignStatus `bun:"status,notnull,default:'draft'" json:"status"`
	RecipientCount int            `bun:"recipient_count,notnull,default:0" json:"recipient_count"`
	SentAt         *time.Time     `bun:"sent_at" json:"sent_at,omitempty"`
	CreatedAt      time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// EmailABTest splits a campaign's audience between two subject lines.
type EmailABTest struct {
	bun.BaseModel `bun:"table:email_ab_tests,alias:eab"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	CampaignID      uuid.UUID  `bun:"campaign_id,type:uuid,notnull,unique" json:"campaign_id"`
	SubjectB        string     `bun:"subject_b,notnull" json:"subject_b"`
	SplitPercentage int        `bun:"split_percentage,notnull,default:50" json:"split_percentage"`
	WinnerVariant   string     `bun:"winner_variant" json:"winner_variant,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	CompletedAt     *time.Time `bun:"completed_at" json:"completed_at,omitempty"`
}

type EmailAnalytics struct {
	bun.BaseModel `bun:"table:email_analytics,alias:ea"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	CampaignID     uuid.UUID  `bun:"campaign_id,type:uuid,notnull" json:"campaign_id"`
	RecipientEmail string     `bun:"recipient_email,notnull" json:"recipient_email"`
	Variant        string     `bun:"variant,notnull,default:'a'" json:"variant"`
	Status         string     `bun:"status,notnull" json:"status"` // sent | failed | opened | clicked
	Error          string     `bun:"error" json:"error,omitempty"`
	OpenedAt       *time.Time `bun:"opened_at" json:"opened_at,omitempty"`
	ClickedAt      *time.Time `bun:"clicked_at" json:"clicked_at,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type EmailPreference struct {
	bun.BaseModel `bun:"table:email_preferences,alias:ep"`

	ID               uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Email            string    `bun:"email,notnull,unique" json:"email"`
	MarketingOptIn   bool      `bun:"marketing_opt_in,notnull,default:false" json:"marketing_opt_in"`
	OrderUpdates     bool      `bun:"order_updates,notnull,default:true" json:"order_updates"`
	UnsubscribeToken string    `bun:"unsubscribe_token,notnull,unique" json:"-"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// AbandonedCartItem is stored as part of the jsonb cart snapshot.
type AbandonedCartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
}

type AbandonedCart struct {
	bun.BaseModel `bun:"table:abandoned_carts,alias:ac"`

	ID             uuid.UUID           `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Email          string              `bun:"email,notnull,unique" json:"email"`
	Items          []AbandonedCartItem `bun:"items,type:jsonb,notnull" json:"items"`
	ReminderSentAt *time.Time          `bun:"reminder_sent_at" json:"reminder_sent_at,omitempty"`
	RecoveredAt    *time.Time          `bun:"recovered_at" json:"recovered_at,omitempty"`
	CreatedAt      time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
