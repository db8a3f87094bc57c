package structs

import "github.com/shopspring/decimal"

// Keys of the site_settings table
const (
	SettingGSTPercentage               = "gst_percentage"
	SettingDomesticShippingCharge      = "domestic_shipping_charge"
	SettingInternationalShippingCharge = "international_shipping_charge"
	SettingFreeShippingThreshold       = "free_shipping_threshold"
	SettingUPIID                       = "upi_id"
	SettingCODEnabled                  = "cod_enabled"
	SettingUPIEnabled                  = "upi_enabled"
	SettingRazorpayEnabled             = "razorpay_enabled"
	SettingRazorpayKeyID               = "razorpay_key_id"
	SettingRazorpayKeySecret           = "razorpay_key_secret"
	SettingStoreEmail                  = "store_email"
	SettingAdminNotificationEmails     = "admin_notification_emails"
)

// StoreSettings is the typed view over site_settings rows.
type StoreSettings struct {
	GSTPercentage               decimal.Decimal `json:"gst_percentage"`
	DomesticShippingCharge      decimal.Decimal `json:"domestic_shipping_charge"`
	InternationalShippingCharge decimal.Decimal `json:"international_shipping_charge"`
	FreeShippingThreshold       decimal.Decimal `json:"free_shipping_threshold"`
	UPIID                       string          `json:"upi_id"`
	CODEnabled                  bool            `json:"cod_enabled"`
	UPIEnabled                  bool            `json:"upi_enabled"`
	RazorpayEnabled             bool            `json:"razorpay_enabled"`
	RazorpayKeyID               string          `json:"razorpay_key_id"`
	RazorpayKeySecret           string          `json:"-"`
	StoreEmail                  string          `json:"store_email"`
	AdminNotificationEmails     []string        `json:"admin_notification_emails"`
}

// PublicSettings is what the storefront may see.
type PublicSettings struct {
	GSTPercentage               decimal.Decimal `json:"gst_percentage"`
	DomesticShippingCharge      decimal.Decimal `json:"domestic_shipping_charge"`
	InternationalShippingCharge decimal.Decimal `json:"international_shipping_charge"`
	FreeShippingThreshold       decimal.Decimal `json:"free_shipping_threshold"`
	UPIID                       string          `json:"upi_id,omitempty"`
	CODEnabled                  bool            `json:"cod_enabled"`
	UPIEnabled                  bool            `json:"upi_enabled"`
	RazorpayEnabled             bool            `json:"razorpay_enabled"`
	RazorpayKeyID               string          `json:"razorpay_key_id,omitempty"`
	StoreEmail                  string          `json:"store_email,omitempty"`
}

func (s *StoreSettings) Public() *PublicSettings {
	return &PublicSettings{
		GSTPercentage:               s.GSTPercentage,
		DomesticShippingCharge:      s.DomesticShippingCharge,
		InternationalShippingCharge: s.InternationalShippingCharge,
		FreeShippingThreshold:       s.FreeShippingThreshold,
		UPIID:                       s.UPIID,
		CODEnabled:                  s.CODEnabled,
		UPIEnabled:                  s.UPIEnabled,
		RazorpayEnabled:             s.RazorpayEnabled,
		RazorpayKeyID:               s.RazorpayKeyID,
		StoreEmail:                  s.StoreEmail,
	}
}

// AdminSettings adds a flag for the stored secret without revealing it.
type AdminSettings struct {
	*StoreSettings
	HasRazorpaySecret bool `json:"has_razorpay_secret"`
}

type SettingsUpdateRequest struct {
	GSTPercentage               *decimal.Decimal `json:"gst_percentage,omitempty"`
	DomesticShippingCharge      *decimal.Decimal `json:"domestic_shipping_charge,omitempty"`
	InternationalShippingCharge *decimal.Decimal `json:"international_shipping_charge,omitempty"`
	FreeShippingThreshold       *decimal.Decimal `json:"free_shipping_threshold,omitempty"`
	UPIID                       *string          `json:"upi_id,omitempty" validate:"omitempty,max=100"`
	CODEnabled                  *bool            `json:"cod_enabled,omitempty"`
	UPIEnabled                  *bool            `json:"upi_enabled,omitempty"`
	RazorpayEnabled             *bool            `json:"razorpay_enabled,omitempty"`
	RazorpayKeyID               *string          `json:"razorpay_key_id,omitempty" validate:"omitempty,max=100"`
	RazorpayKeySecret           *string          `json:"razorpay_key_secret,omitempty" validate:"omitempty,max=200"`
	StoreEmail                  *string          `json:"store_email,omitempty" validate:"omitempty,email"`
	AdminNotificationEmails     []string         `json:"admin_notification_emails,omitempty" validate:"omitempty,dive,email"`
}
