package orders

import (
	"woodzire_server/api/middleware"
	"woodzire_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger       *gecho.Logger
	orderService *services.OrderService
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(logger *gecho.Logger, orderService *services.OrderService, mw *middleware.Middleware) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		orderService: orderService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Post("/checkout/quote", orm.Quote)

	r.Route("/orders", func(r chi.Router) {
		r.With(orm.mw.OptionalClaims).Post("/", orm.CreateOrder)
		r.Get("/track/{number}", orm.TrackOrder)

		r.Group(func(r chi.Router) {
			r.Use(orm.mw.UserAuthMiddleware)
			r.Get("/me", orm.MyOrders)
		})
	})
}
