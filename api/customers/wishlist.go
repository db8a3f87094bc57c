package customers

import (
	"net/http"
	"woodzire_server/api/middleware"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

func (crm *CustomerRoutesManager) FetchWishlist(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	items, err := crm.customerService.ListWishlist(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleServiceError(err, "wishlist", crm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(items), gecho.Send())
}

func (crm *CustomerRoutesManager) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	body, err := lib.ExtractAndValidateBody[structs.WishlistRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "wishlist", crm.logger, w)
		return
	}

	if err := crm.customerService.AddToWishlist(r.Context(), claims.Sub, body.ProductID); err != nil {
		handling.HandleServiceError(err, "wishlist", crm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.wishlist.added"), gecho.Send())
}

func (crm *CustomerRoutesManager) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	productID, err := handling.ParseUUIDParam(r, "productId")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.wishlist.invalidProductId"), gecho.Send())
		return
	}

	if err := crm.customerService.RemoveFromWishlist(r.Context(), claims.Sub, productID); err != nil {
		handling.HandleServiceError(err, "wishlist", crm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.wishlist.removed"), gecho.Send())
}
