package orders

import (
	"net/http"
	"woodzire_server/api/middleware"
	"woodzire_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (orm *OrderRoutesManager) MyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
		return
	}

	orders, err := orm.orderService.ListUserOrders(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(orders), gecho.Send())
}

// TrackOrder needs the order number and the email it was placed with.
func (orm *OrderRoutesManager) TrackOrder(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		gecho.BadRequest(w, gecho.WithMessage("error.order.emailRequired"), gecho.Send())
		return
	}

	details, err := orm.orderService.TrackOrder(r.Context(), chi.URLParam(r, "number"), email)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(details), gecho.Send())
}
