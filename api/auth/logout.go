package auth

import (
	"net/http"
	"woodzire_server/lib"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	refreshToken, tokenErr := lib.GetCookieValue(lib.RefreshCookieName, r)

	// Cookies are cleared even when the refresh token is missing or already invalid
	lib.ClearCookie(lib.AccessCookieName, w)
	lib.ClearCookie(lib.RefreshCookieName, w)

	if tokenErr == nil {
		if err := arm.authService.Logout(r.Context(), refreshToken); err != nil {
			arm.logger.Warn("Failed to blacklist refresh token during logout", gecho.Field("error", err))
		}
	}

	gecho.Success(w, gecho.WithMessage("success.auth.loggedOut"), gecho.Send())
}
