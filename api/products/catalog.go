package products

import (
	"net/http"
	"woodzire_server/handling"

	"github.com/MonkyMars/gecho"
)

func (prm *ProductRoutesManager) FetchCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := prm.catalogService.ListCategories(r.Context(), false)
	if err != nil {
		handling.HandleServiceError(err, "categories", prm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(categories), gecho.Send())
}

func (prm *ProductRoutesManager) FetchBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := prm.catalogService.ListBundles(r.Context(), false)
	if err != nil {
		handling.HandleServiceError(err, "bundles", prm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(bundles), gecho.Send())
}

func (prm *ProductRoutesManager) FetchBundle(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.bundles.invalidBundleId"), gecho.Send())
		return
	}

	bundle, err := prm.catalogService.GetBundle(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "bundles", prm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(bundle), gecho.Send())
}
