package auth

import (
	"net/http"
	"time"
	"woodzire_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleCSRF generates and sets a CSRF token
func (arm *AuthRoutesManager) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := lib.GenerateCSRFToken()
	if err != nil {
		arm.logger.Error("Failed to generate CSRF token", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.csrf.failedToGenerate"),
			gecho.Send(),
		)
		return
	}

	expiry := time.Now().Add(24 * time.Hour)
	lib.SetCSRFCookie(token, expiry, w)

	arm.logger.Debug("CSRF token issued",
		gecho.Field("origin", r.Header.Get("Origin")),
		gecho.Field("expiry", expiry),
	)

	// Return the token in the response as well
	gecho.Success(w,
		gecho.WithMessage("success.csrf.generated"),
		gecho.WithData(map[string]string{
			"csrf_token": token,
		}),
		gecho.Send(),
	)
}
