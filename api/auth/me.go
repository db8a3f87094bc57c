package auth

import (
	"net/http"
	"woodzire_server/api/middleware"
	"woodzire_server/handling"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	user, err := arm.authService.GetUser(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleServiceError(err, "auth", arm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(user), gecho.Send())
}
