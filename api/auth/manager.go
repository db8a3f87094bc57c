package auth

import (
	"woodzire_server/api/middleware"
	"woodzire_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger          *gecho.Logger
	authService     *services.AuthService
	customerService *services.CustomerService
	mw              *middleware.Middleware
}

func NewAuthRoutesManager(
	logger *gecho.Logger,
	authService *services.AuthService,
	customerService *services.CustomerService,
	mw *middleware.Middleware,
) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:          logger,
		authService:     authService,
		customerService: customerService,
		mw:              mw,
	}
}

func (arm *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		// CSRF token endpoint (must be called before any POST)
		r.Get("/csrf", arm.HandleCSRF)

		r.Post("/register", arm.HandleRegister)
		r.Post("/login", arm.HandleLogin)
		r.Post("/logout", arm.HandleLogout)
		r.Post("/refresh", arm.HandleRefresh)

		// Protected routes for user data
		r.Group(func(r chi.Router) {
			r.Use(arm.mw.UserAuthMiddleware)
			r.Get("/me", arm.HandleMe)
			r.Get("/addresses", arm.HandleGetAddresses)
			r.Post("/addresses", arm.HandleCreateAddress)
			r.Put("/addresses/{id}", arm.HandleUpdateAddress)
			r.Delete("/addresses/{id}", arm.HandleDeleteAddress)
		})
	})
}
