package lib

import (
	"net/http"
	"time"

	"woodzire_server/config"
)

const (
	AccessCookieName  = "wz_access_token"
	RefreshCookieName = "wz_refresh_token"
	CSRFCookieName    = "wz_csrf_token"
	CSRFHeaderName    = "X-CSRF-Token"
)

func baseCookie(key, val string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     key,
		Value:    val,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	}

	// Cross-subdomain (www <-> api) in production
	if config.IsProduction() {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
		cookie.Domain = config.GetConfig().Server.CookieDomain
	}
	return cookie
}

// SetCookie sets a secure, HttpOnly cookie for authentication/session usage
func SetCookie(key, val string, expiry time.Time, w http.ResponseWriter) {
	cookie := baseCookie(key, val)
	cookie.Expires = expiry
	http.SetCookie(w, cookie)
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie removes the cookie from the browser
func ClearCookie(key string, w http.ResponseWriter) {
	cookie := baseCookie(key, "")
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	if key == CSRFCookieName {
		cookie.HttpOnly = false
	}
	http.SetCookie(w, cookie)
}

// SetCSRFCookie sets the double-submit token; it must stay readable by JS.
func SetCSRFCookie(val string, expiry time.Time, w http.ResponseWriter) {
	cookie := baseCookie(CSRFCookieName, val)
	cookie.Expires = expiry
	cookie.MaxAge = int(time.Until(expiry).Seconds())
	cookie.HttpOnly = false
	http.SetCookie(w, cookie)
}
