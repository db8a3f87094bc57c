package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"woodzire_server/database"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// SettingsStore persists raw site_settings rows.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (map[string]string, error)
	SaveSettings(ctx context.Context, rows map[string]string) error
}

// SettingsCache is the read-through layer in front of the store.
type SettingsCache interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	SetSettings(ctx context.Context, rows map[string]string) error
	InvalidateSettings(ctx context.Context) error
}

// SettingsProvider is what pricing and notifications read settings through.
type SettingsProvider interface {
	GetSettings(ctx context.Context) (*structs.StoreSettings, error)
}

var settingsDefaults = map[string]string{
	structs.SettingGSTPercentage:               "18",
	structs.SettingDomesticShippingCharge:      "99",
	structs.SettingInternationalShippingCharge: "999",
	structs.SettingFreeShippingThreshold:       "2000",
	structs.SettingCODEnabled:                  "true",
	structs.SettingUPIEnabled:                  "false",
	structs.SettingRazorpayEnabled:             "false",
}

type SettingsService struct {
	logger *gecho.Logger
	store  SettingsStore
	cache  SettingsCache
	key    string
}

func NewSettingsService(logger *gecho.Logger, cfg *structs.Config, store SettingsStore, cache SettingsCache) *SettingsService {
	return &SettingsService{
		logger: logger,
		store:  store,
		cache:  cache,
		key:    cfg.Encryption.Key,
	}
}

// GetSettings serves from cache when it can and repopulates it on a miss.
func (ss *SettingsService) GetSettings(ctx context.Context) (*structs.StoreSettings, error) {
	rows, err := ss.cache.GetSettings(ctx)
	if err != nil {
		ss.logger.Warn("Failed to read settings cache", gecho.Field("error", err))
	}

	if rows == nil {
		rows, err = ss.store.LoadSettings(ctx)
		if err != nil {
			ss.logger.Error("Failed to load site settings", gecho.Field("error", err))
			return nil, fmt.Errorf("failed to load site settings: %w", err)
		}

		go func(rows map[string]string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := ss.cache.SetSettings(ctx, rows); err != nil {
				ss.logger.Warn("Failed to cache site settings", gecho.Field("error", err))
			}
		}(rows)
	}

	return ss.parse(rows), nil
}

func (ss *SettingsService) GetPublicSettings(ctx context.Context) (*structs.PublicSettings, error) {
	settings, err := ss.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return settings.Public(), nil
}

func (ss *SettingsService) GetAdminSettings(ctx context.Context) (*structs.AdminSettings, error) {
	settings, err := ss.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &structs.AdminSettings{StoreSettings: settings, HasRazorpaySecret: settings.RazorpayKeySecret != ""}, nil
}

// UpdateSettings writes only the fields present in req, then drops the cache.
func (ss *SettingsService) UpdateSettings(ctx context.Context, req *structs.SettingsUpdateRequest) (*structs.AdminSettings, error) {
	rows := make(map[string]string)

	money := map[string]*decimal.Decimal{
		structs.SettingGSTPercentage:               req.GSTPercentage,
		structs.SettingDomesticShippingCharge:      req.DomesticShippingCharge,
		structs.SettingInternationalShippingCharge: req.InternationalShippingCharge,
		structs.SettingFreeShippingThreshold:       req.FreeShippingThreshold,
	}
	for key, val := range money {
		if val == nil {
			continue
		}
		if val.IsNegative() {
			return nil, lib.NewValidationError(key, "must not be negative")
		}
		rows[key] = val.String()
	}
	if req.GSTPercentage != nil && req.GSTPercentage.GreaterThan(hundred) {
		return nil, lib.NewValidationError(structs.SettingGSTPercentage, "must be at most 100")
	}

	for key, val := range map[string]*bool{
		structs.SettingCODEnabled:      req.CODEnabled,
		structs.SettingUPIEnabled:      req.UPIEnabled,
		structs.SettingRazorpayEnabled: req.RazorpayEnabled,
	} {
		if val != nil {
			rows[key] = strconv.FormatBool(*val)
		}
	}

	for key, val := range map[string]*string{
		structs.SettingUPIID:         req.UPIID,
		structs.SettingRazorpayKeyID: req.RazorpayKeyID,
		structs.SettingStoreEmail:    req.StoreEmail,
	} {
		if val != nil {
			rows[key] = strings.TrimSpace(*val)
		}
	}

	if req.RazorpayKeySecret != nil {
		encrypted, err := lib.Encrypt(strings.TrimSpace(*req.RazorpayKeySecret), ss.key)
		if err != nil {
			ss.logger.Error("Failed to encrypt razorpay secret", gecho.Field("error", err))
			return nil, fmt.Errorf("failed to encrypt razorpay secret: %w", err)
		}
		rows[structs.SettingRazorpayKeySecret] = encrypted
	}

	if req.AdminNotificationEmails != nil {
		rows[structs.SettingAdminNotificationEmails] = strings.Join(req.AdminNotificationEmails, ",")
	}

	if len(rows) > 0 {
		if err := ss.store.SaveSettings(ctx, rows); err != nil {
			ss.logger.Error("Failed to save site settings", gecho.Field("error", err))
			return nil, fmt.Errorf("failed to save site settings: %w", err)
		}
		if err := ss.cache.InvalidateSettings(ctx); err != nil {
			ss.logger.Warn("Failed to invalidate settings cache", gecho.Field("error", err))
		}
		ss.logger.Info("Site settings updated", gecho.Field("keys", len(rows)))
	}

	return ss.GetAdminSettings(ctx)
}

func (ss *SettingsService) parse(rows map[string]string) *structs.StoreSettings {
	get := func(key string) string {
		if v, ok := rows[key]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return settingsDefaults[key]
	}
	money := func(key string) decimal.Decimal {
		d, err := decimal.NewFromString(get(key))
		if err != nil {
			ss.logger.Warn("Invalid numeric setting, using default", gecho.Field("key", key), gecho.Field("value", rows[key]))
			return decimal.RequireFromString(settingsDefaults[key])
		}
		return d
	}
	flag := func(key string) bool {
		b, err := strconv.ParseBool(get(key))
		if err != nil {
			b, _ = strconv.ParseBool(settingsDefaults[key])
		}
		return b
	}

	settings := &structs.StoreSettings{
		GSTPercentage:               money(structs.SettingGSTPercentage),
		DomesticShippingCharge:      money(structs.SettingDomesticShippingCharge),
		InternationalShippingCharge: money(structs.SettingInternationalShippingCharge),
		FreeShippingThreshold:       money(structs.SettingFreeShippingThreshold),
		UPIID:                       get(structs.SettingUPIID),
		CODEnabled:                  flag(structs.SettingCODEnabled),
		UPIEnabled:                  flag(structs.SettingUPIEnabled),
		RazorpayEnabled:             flag(structs.SettingRazorpayEnabled),
		RazorpayKeyID:               get(structs.SettingRazorpayKeyID),
		StoreEmail:                  get(structs.SettingStoreEmail),
		AdminNotificationEmails:     splitList(get(structs.SettingAdminNotificationEmails)),
	}

	if secret := get(structs.SettingRazorpayKeySecret); secret != "" {
		plain, err := lib.Decrypt(secret, ss.key)
		if err != nil {
			ss.logger.Warn("Failed to decrypt razorpay secret", gecho.Field("error", err))
		} else {
			settings.RazorpayKeySecret = plain
		}
	}
	return settings
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// dbSettingsStore keeps settings in the site_settings table.
type dbSettingsStore struct {
	db *database.DB
}

func NewDBSettingsStore(db *database.DB) SettingsStore {
	return &dbSettingsStore{db: db}
}

func (s *dbSettingsStore) LoadSettings(ctx context.Context) (map[string]string, error) {
	settings, err := database.Query[tables.SiteSetting](s.db).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	rows := make(map[string]string, len(settings))
	for _, setting := range settings {
		rows[setting.Key] = setting.Value
	}
	return rows, nil
}

func (s *dbSettingsStore) SaveSettings(ctx context.Context, rows map[string]string) error {
	return database.Transaction(s.db, ctx, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()
		for key, value := range rows {
			row := &tables.SiteSetting{Key: key, Value: value, UpdatedAt: now}
			if _, err := database.QueryTx[tables.SiteSetting](tx).Upsert(ctx, row, "key", "value", "updated_at"); err != nil {
				return lib.MapPgError(err)
			}
		}
		return nil
	})
}
