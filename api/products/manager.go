package products

import (
	"woodzire_server/api/middleware"
	"woodzire_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger            *gecho.Logger
	productService    *services.ProductService
	catalogService    *services.CatalogService
	moderationService *services.ModerationService
	mw                *middleware.Middleware
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	catalogService *services.CatalogService,
	moderationService *services.ModerationService,
	mw *middleware.Middleware,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:            logger,
		productService:    productService,
		catalogService:    catalogService,
		moderationService: moderationService,
		mw:                mw,
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", prm.FetchProducts)
		r.Get("/id/{id}", prm.FetchProductByID)

		// {ref} is a slug for the product page and a slug or id for reviews
		r.Route("/{ref}", func(r chi.Router) {
			r.Get("/", prm.FetchProductBySlug)
			r.Get("/reviews", prm.FetchReviews)
			r.With(prm.mw.OptionalClaims).Post("/reviews", prm.SubmitReview)
		})
	})

	r.Get("/categories", prm.FetchCategories)
	r.Get("/bundles", prm.FetchBundles)
	r.Get("/bundles/{id}", prm.FetchBundle)
}
