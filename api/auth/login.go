package auth

import (
	"errors"
	"net/http"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.LoginRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("error.auth.checkLoginInformation"), gecho.Send())
		return
	}

	resp, err := arm.authService.Login(r.Context(), body)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidCredentials) {
			gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidCredentials"), gecho.Send())
			return
		}
		handling.HandleServiceError(err, "auth", arm.logger, w)
		return
	}

	arm.setSessionCookies(w, resp)

	gecho.Success(w,
		gecho.WithMessage("success.auth.loggedIn"),
		gecho.WithData(resp.User),
		gecho.Send(),
	)
}

// HandleRefresh rotates both tokens using the refresh cookie.
func (arm *AuthRoutesManager) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := lib.GetCookieValue(lib.RefreshCookieName, r)
	if err != nil {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.refreshTokenMissing"), gecho.Send())
		return
	}

	resp, err := arm.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		arm.logger.Debug("Refresh rejected", gecho.Field("error", err))
		lib.ClearCookie(lib.AccessCookieName, w)
		lib.ClearCookie(lib.RefreshCookieName, w)
		handling.HandleServiceError(err, "auth", arm.logger, w)
		return
	}

	arm.setSessionCookies(w, resp)

	gecho.Success(w,
		gecho.WithMessage("success.auth.refreshed"),
		gecho.WithData(resp.User),
		gecho.Send(),
	)
}
