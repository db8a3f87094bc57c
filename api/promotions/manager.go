package promotions

import (
	"woodzire_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// PromotionRoutesManager serves the storefront's read side of promotions
// and the public store settings.
type PromotionRoutesManager struct {
	logger           *gecho.Logger
	promotionService *services.PromotionService
	settingsService  *services.SettingsService
}

func NewPromotionRoutesManager(
	logger *gecho.Logger,
	promotionService *services.PromotionService,
	settingsService *services.SettingsService,
) *PromotionRoutesManager {
	return &PromotionRoutesManager{
		logger:           logger,
		promotionService: promotionService,
		settingsService:  settingsService,
	}
}

func (prm *PromotionRoutesManager) RegisterRoutes(r chi.Router) {
	r.Post("/gift-cards/validate", prm.ValidateGiftCard)
	r.Get("/gift-cards/public", prm.PublicGiftCards)
	r.Get("/banners/active", prm.ActiveBanners)
	r.Get("/sales/active", prm.ActiveSales)
	r.Get("/settings/public", prm.PublicSettings)
}
