package api

import (
	"woodzire_server/api/admin"
	"woodzire_server/api/auth"
	"woodzire_server/api/customers"
	"woodzire_server/api/debug"
	"woodzire_server/api/health"
	"woodzire_server/api/middleware"
	"woodzire_server/api/orders"
	"woodzire_server/api/products"
	"woodzire_server/api/promotions"
	"woodzire_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	productRoutes   *products.ProductRoutesManager
	healthRoutes    *health.HealthRoutesManager
	authRoutes      *auth.AuthRoutesManager
	adminRoutes     *admin.AdminRoutesManager
	orderRoutes     *orders.OrderRoutesManager
	promotionRoutes *promotions.PromotionRoutesManager
	customerRoutes  *customers.CustomerRoutesManager
	debugRoutes     *debug.DebugRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware, debugEnabled bool) *routerManager {
	return &routerManager{
		productRoutes:   products.NewProductRoutesManager(logger, sm.ProductService, sm.CatalogService, sm.ModerationService, mw),
		healthRoutes:    health.NewHealthRoutesManager(logger, sm.HealthService),
		authRoutes:      auth.NewAuthRoutesManager(logger, sm.AuthService, sm.CustomerService, mw),
		adminRoutes:     admin.NewAdminRoutesManager(logger, sm, mw),
		orderRoutes:     orders.NewOrderRoutesManager(logger, sm.OrderService, mw),
		promotionRoutes: promotions.NewPromotionRoutesManager(logger, sm.PromotionService, sm.SettingsService),
		customerRoutes:  customers.NewCustomerRoutesManager(logger, sm.CustomerService, sm.ModerationService, mw),
		debugRoutes:     debug.NewDebugRoutesManager(logger, sm.CacheService, debugEnabled),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.productRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
	rm.promotionRoutes.RegisterRoutes(r)
	rm.customerRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
