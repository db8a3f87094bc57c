package debug

import (
	"woodzire_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	logger       *gecho.Logger
	cacheService *services.CacheService
	enabled      bool
}

// NewDebugRoutesManager registers nothing unless enabled is true.
func NewDebugRoutesManager(logger *gecho.Logger, cacheService *services.CacheService, enabled bool) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger:       logger,
		cacheService: cacheService,
		enabled:      enabled,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if !drm.enabled {
		return
	}
	r.Route("/debug", func(r chi.Router) {
		r.Post("/cache/clear", drm.ClearCache)
		r.Get("/ratelimit", drm.RateLimitStatus)
	})
}
