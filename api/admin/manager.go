package admin

import (
	"net/http"
	"woodzire_server/api/middleware"
	"woodzire_server/handling"
	"woodzire_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AdminRoutesManager struct {
	logger *gecho.Logger
	sm     *services.ServiceManager
	mw     *middleware.Middleware
}

func NewAdminRoutesManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger: logger,
		sm:     sm,
		mw:     mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.UserAuthMiddleware)

		// Moderators share the moderation queues with admins
		r.Route("/moderation", func(r chi.Router) {
			r.Use(ar.mw.StaffAuthMiddleware)
			r.Get("/reviews", ar.ListReviews)
			r.Put("/reviews/{id}/approve", ar.ApproveReview)
			r.Delete("/reviews/{id}", ar.DeleteReview)

			r.Get("/testimonials", ar.ListTestimonials)
			r.Post("/testimonials", ar.CreateTestimonial)
			r.Put("/testimonials/{id}/toggle", ar.ToggleTestimonial)
			r.Delete("/testimonials/{id}", ar.DeleteTestimonial)

			r.Get("/inquiries", ar.ListInquiries)
			r.Put("/inquiries/{id}/read", ar.MarkInquiryRead)
			r.Delete("/inquiries/{id}", ar.DeleteInquiry)
		})

		r.Group(func(r chi.Router) {
			r.Use(ar.mw.AdminAuthMiddleware)

			r.Get("/dashboard", ar.Dashboard)

			r.Get("/products", ar.ListProducts)
			r.Post("/products", ar.CreateProduct)
			r.Get("/products/export", ar.ExportProducts)
			r.Post("/products/import", ar.ImportProducts)
			r.Put("/products/{id}", ar.UpdateProduct)
			r.Delete("/products/{id}", ar.DeleteProduct)
			r.Post("/products/{id}/restock", ar.RestockProduct)

			r.Get("/categories", ar.ListCategories)
			r.Post("/categories", ar.CreateCategory)
			r.Put("/categories/{id}", ar.UpdateCategory)
			r.Delete("/categories/{id}", ar.DeleteCategory)

			r.Get("/bundles", ar.ListBundles)
			r.Post("/bundles", ar.CreateBundle)
			r.Put("/bundles/{id}", ar.UpdateBundle)
			r.Delete("/bundles/{id}", ar.DeleteBundle)

			// Order management routes
			r.Get("/orders", ar.ListOrders)
			r.Get("/orders/{id}", ar.GetOrderDetails)
			r.Get("/orders/{id}/history", ar.GetOrderHistory)
			r.Put("/orders/{id}/status", ar.UpdateOrderStatus)
			r.Put("/orders/{id}/shipping-cost", ar.SetShippingCost)
			r.Delete("/orders/{id}", ar.DeleteOrder)

			r.Get("/sales", ar.ListSales)
			r.Post("/sales", ar.CreateSale)
			r.Put("/sales/{id}", ar.UpdateSale)
			r.Put("/sales/{id}/pause", ar.PauseSale)
			r.Post("/sales/{id}/apply", ar.ApplySale)
			r.Post("/sales/{id}/clear", ar.ClearSale)
			r.Delete("/sales/{id}", ar.DeleteSale)

			r.Get("/banners", ar.ListBanners)
			r.Post("/banners", ar.CreateBanner)
			r.Put("/banners/{id}", ar.UpdateBanner)
			r.Delete("/banners/{id}", ar.DeleteBanner)

			r.Get("/gift-cards", ar.ListGiftCards)
			r.Post("/gift-cards", ar.IssueGiftCard)
			r.Put("/gift-cards/{id}", ar.UpdateGiftCard)
			r.Get("/gift-cards/{id}/transactions", ar.GiftCardTransactions)

			r.Get("/settings", ar.GetSettings)
			r.Put("/settings", ar.UpdateSettings)

			r.Get("/campaigns", ar.ListCampaigns)
			r.Post("/campaigns", ar.CreateCampaign)
			r.Get("/campaigns/{id}", ar.GetCampaign)
			r.Put("/campaigns/{id}", ar.UpdateCampaign)
			r.Delete("/campaigns/{id}", ar.DeleteCampaign)
			r.Post("/campaigns/{id}/send", ar.SendCampaign)
			r.Get("/campaigns/{id}/stats", ar.CampaignStats)

			r.Get("/abandoned-carts", ar.ListAbandonedCarts)
			r.Post("/abandoned-carts/{id}/remind", ar.RemindAbandonedCart)

			r.Post("/users/{id}/roles", ar.GrantRole)
			r.Delete("/users/{id}/roles/{role}", ar.RevokeRole)
		})
	})

	r.With(ar.mw.UserAuthMiddleware, ar.mw.StaffAuthMiddleware).
		Post("/functions/send-notification", ar.SendNotification)
}

// pathID parses {id} and answers 400 itself when it is malformed.
func (ar *AdminRoutesManager) pathID(w http.ResponseWriter, r *http.Request, domain string) (uuid.UUID, bool) {
	id, err := handling.ParseUUIDParam(r, "id")
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error."+domain+".invalidId"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)
		return uuid.Nil, false
	}
	return id, true
}
