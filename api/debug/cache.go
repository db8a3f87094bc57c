package debug

import (
	"net"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := drm.cacheService.ClearAll(r.Context()); err != nil {
		drm.logger.Error("Failed to clear cache", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.cache.clearFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.cache.cleared"),
		gecho.Send(),
	)
}

// RateLimitStatus shows the caller's current window for ?group= (default "general").
func (drm *DebugRoutesManager) RateLimitStatus(w http.ResponseWriter, r *http.Request) {
	group := strings.TrimSpace(r.URL.Query().Get("group"))
	if group == "" {
		group = "general"
	}
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	status, err := drm.cacheService.GetRateLimitStatus(r.Context(), ip, group)
	if err != nil {
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("error.cache.unavailable"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)
		return
	}
	gecho.Success(w, gecho.WithData(status), gecho.Send())
}
