package middleware

import (
	"context"
	"net/http"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// UserAuthMiddleware protects routes to only logged-in users
func (mw *Middleware) UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.cfg.Auth.AccessTokenSecret)
		if err != nil {
			mw.logger.Debug("Rejected request without a valid access token", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffAuthMiddleware admits admins and moderators.
// Must be used after UserAuthMiddleware
func (mw *Middleware) StaffAuthMiddleware(next http.Handler) http.Handler {
	return mw.requireRole(next, "Staff access required", tables.Role.IsStaff)
}

// AdminAuthMiddleware protects routes to only admin users
// Must be used after UserAuthMiddleware
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return mw.requireRole(next, "Admin access required", func(r tables.Role) bool {
		return r == tables.RoleAdmin
	})
}

func (mw *Middleware) requireRole(next http.Handler, message string, allowed func(tables.Role) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaimsFromContext(r.Context())
		if !ok {
			gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
			return
		}

		if !allowed(tables.Role(claims.Role)) {
			mw.logger.Warn("User attempted to access a restricted route",
				gecho.Field("user_id", claims.Sub),
				gecho.Field("role", claims.Role),
				gecho.Field("path", r.URL.Path),
			)
			gecho.Forbidden(w, gecho.WithMessage(message), gecho.Send())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// OptionalClaims attaches claims when a valid access token is present and
// never rejects the request.
func (mw *Middleware) OptionalClaims(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := lib.ExtractClaims(r, mw.cfg.Auth.AccessTokenSecret); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), ClaimsContextKey, claims))
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}
