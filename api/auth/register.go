package auth

import (
	"net/http"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.RegisterRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "auth", arm.logger, w)
		return
	}

	resp, err := arm.authService.Register(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "auth", arm.logger, w)
		return
	}

	arm.setSessionCookies(w, resp)

	gecho.Success(w,
		gecho.WithMessage("success.auth.userRegistered"),
		gecho.WithData(resp.User),
		gecho.Send(),
	)
}

func (arm *AuthRoutesManager) setSessionCookies(w http.ResponseWriter, resp *structs.AuthResponse) {
	lib.SetCookie(lib.AccessCookieName, resp.AccessToken, arm.authService.AccessTokenExpiry(), w)
	lib.SetCookie(lib.RefreshCookieName, resp.RefreshToken, arm.authService.RefreshTokenExpiry(), w)
}
