package customers

import (
	"woodzire_server/api/middleware"
	"woodzire_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CustomerRoutesManager struct {
	logger            *gecho.Logger
	customerService   *services.CustomerService
	moderationService *services.ModerationService
	mw                *middleware.Middleware
}

func NewCustomerRoutesManager(
	logger *gecho.Logger,
	customerService *services.CustomerService,
	moderationService *services.ModerationService,
	mw *middleware.Middleware,
) *CustomerRoutesManager {
	return &CustomerRoutesManager{
		logger:            logger,
		customerService:   customerService,
		moderationService: moderationService,
		mw:                mw,
	}
}

func (crm *CustomerRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/testimonials", crm.FetchTestimonials)
	r.Post("/inquiries", crm.SubmitInquiry)
	r.Post("/stock-alerts", crm.SubscribeStockAlert)
	r.Post("/email-preferences", crm.SaveEmailPreference)
	r.Get("/email-preferences/unsubscribe", crm.Unsubscribe)
	r.Post("/abandoned-carts", crm.SaveAbandonedCart)

	r.Route("/wishlist", func(r chi.Router) {
		r.Use(crm.mw.UserAuthMiddleware)
		r.Get("/", crm.FetchWishlist)
		r.Post("/", crm.AddToWishlist)
		r.Delete("/{productId}", crm.RemoveFromWishlist)
	})
}
