package admin

import (
	"net/http"
	"woodzire_server/api/middleware"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ar *AdminRoutesManager) GrantRole(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "roles")
	if !ok {
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.RoleRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "roles", ar.logger, w)
		return
	}
	if err := ar.sm.AuthService.GrantRole(r.Context(), id, body.Role); err != nil {
		handling.HandleServiceError(err, "roles", ar.logger, w)
		return
	}

	claims, _ := middleware.GetClaimsFromContext(r.Context())
	ar.logger.Info("Role granted",
		gecho.Field("user_id", id),
		gecho.Field("role", body.Role),
		gecho.Field("granted_by", claims.Sub),
	)
	gecho.Success(w, gecho.WithMessage("success.roles.granted"), gecho.Send())
}

// RevokeRole refuses to let an admin drop their own admin role.
func (ar *AdminRoutesManager) RevokeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "roles")
	if !ok {
		return
	}
	role := tables.Role(chi.URLParam(r, "role"))
	if !role.IsValid() {
		gecho.BadRequest(w, gecho.WithMessage("error.roles.invalidRole"), gecho.Send())
		return
	}

	claims, _ := middleware.GetClaimsFromContext(r.Context())
	if claims != nil && claims.Sub == id && role == tables.RoleAdmin {
		gecho.BadRequest(w, gecho.WithMessage("error.roles.selfRevoke"), gecho.Send())
		return
	}

	if err := ar.sm.AuthService.RevokeRole(r.Context(), id, role); err != nil {
		handling.HandleServiceError(err, "roles", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.roles.revoked"), gecho.Send())
}
