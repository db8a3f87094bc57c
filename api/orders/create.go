package orders

import (
	"net/http"
	"woodzire_server/api/middleware"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// Quote prices a cart without reserving anything.
func (orm *OrderRoutesManager) Quote(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.QuoteRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "checkout", orm.logger, w)
		return
	}

	quote, err := orm.orderService.Quote(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "checkout", orm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(quote), gecho.Send())
}

func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CheckoutRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "order", orm.logger, w)
		return
	}

	// Guests can check out; signed-in customers get the order linked
	var userID *uuid.UUID
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		userID = &claims.Sub
	}

	order, err := orm.orderService.Checkout(r.Context(), body, userID)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.created"),
		gecho.WithData(map[string]any{
			"order_number": order.OrderNumber,
			"order_id":     order.ID,
			"status":       order.Status,
			"order":        order,
		}),
		gecho.Send(),
	)
}
