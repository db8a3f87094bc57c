package services

import (
	"woodzire_server/database"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService         *AuthService
	CacheService        *CacheService
	EmailService        *EmailService
	HealthService       *HealthService
	SettingsService     *SettingsService
	NotificationService *NotificationService
	ProductService      *ProductService
	CatalogService      *CatalogService
	OrderService        *OrderService
	PromotionService    *PromotionService
	ModerationService   *ModerationService
	CustomerService     *CustomerService
	CampaignService     *CampaignService
	DashboardService    *DashboardService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	settingsService := NewSettingsService(logger, cfg, NewDBSettingsStore(db), cacheService)
	notificationService := NewNotificationService(logger, cfg, emailService, settingsService)

	return &ServiceManager{
		AuthService:         NewAuthService(cfg, logger, db, cacheService),
		CacheService:        cacheService,
		EmailService:        emailService,
		HealthService:       NewHealthService(logger, db, cacheService),
		SettingsService:     settingsService,
		NotificationService: notificationService,
		ProductService:      NewProductService(logger, db, cacheService, notificationService),
		CatalogService:      NewCatalogService(logger, db),
		OrderService:        NewOrderService(logger, cfg, db, cacheService, settingsService, notificationService),
		PromotionService:    NewPromotionService(logger, db, cacheService, notificationService),
		ModerationService:   NewModerationService(logger, db, notificationService),
		CustomerService:     NewCustomerService(logger, db, notificationService),
		CampaignService:     NewCampaignService(logger, db, notificationService),
		DashboardService:    NewDashboardService(logger, db),
	}
}
