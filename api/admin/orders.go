package admin

import (
	"net/http"
	"woodzire_server/api/middleware"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListOrders supports ?status=, ?search= and pagination.
func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseOrderListOptions(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.invalidQueryParameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}

	result, err := ar.sm.OrderService.ListOrders(r.Context(), opts)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (ar *AdminRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "order")
	if !ok {
		return
	}
	details, err := ar.sm.OrderService.GetOrder(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(details), gecho.Send())
}

func (ar *AdminRoutesManager) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "order")
	if !ok {
		return
	}
	history, err := ar.sm.OrderService.GetHistory(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(history), gecho.Send())
}

// UpdateOrderStatus records the acting admin in the status history.
func (ar *AdminRoutesManager) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "order")
	if !ok {
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.StatusUpdateRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "order", ar.logger, w)
		return
	}

	changedBy := ""
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		changedBy = claims.Sub.String()
	}

	order, err := ar.sm.OrderService.UpdateStatus(r.Context(), id, body, changedBy)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	ar.logger.Info("Order status updated",
		gecho.Field("order_id", id),
		gecho.Field("status", order.Status),
		gecho.Field("changed_by", changedBy),
	)
	gecho.Success(w, gecho.WithMessage("success.order.statusUpdated"), gecho.WithData(order), gecho.Send())
}

func (ar *AdminRoutesManager) SetShippingCost(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "order")
	if !ok {
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.ShippingCostRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "order", ar.logger, w)
		return
	}
	changedBy := ""
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		changedBy = claims.Sub.String()
	}

	order, err := ar.sm.OrderService.SetShippingCost(r.Context(), id, body.ShippingCost, changedBy)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.order.shippingCostUpdated"), gecho.WithData(order), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "order")
	if !ok {
		return
	}
	if err := ar.sm.OrderService.DeleteOrder(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.order.deleted"), gecho.Send())
}
