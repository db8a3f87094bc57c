package admin

import (
	"net/http"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := ar.sm.CatalogService.ListCategories(r.Context(), true)
	if err != nil {
		handling.HandleServiceError(err, "categories", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(categories), gecho.Send())
}

func (ar *AdminRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "categories", ar.logger, w)
		return
	}
	category, err := ar.sm.CatalogService.CreateCategory(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "categories", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.categories.created"), gecho.WithData(category), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "categories")
	if !ok {
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "categories", ar.logger, w)
		return
	}
	category, err := ar.sm.CatalogService.UpdateCategory(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "categories", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.categories.updated"), gecho.WithData(category), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "categories")
	if !ok {
		return
	}
	if err := ar.sm.CatalogService.DeleteCategory(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "categories", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.categories.deleted"), gecho.Send())
}

func (ar *AdminRoutesManager) ListBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := ar.sm.CatalogService.ListBundles(r.Context(), true)
	if err != nil {
		handling.HandleServiceError(err, "bundles", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(bundles), gecho.Send())
}

func (ar *AdminRoutesManager) CreateBundle(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.BundleRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "bundles", ar.logger, w)
		return
	}
	bundle, err := ar.sm.CatalogService.CreateBundle(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "bundles", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.bundles.created"), gecho.WithData(bundle), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "bundles")
	if !ok {
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.BundleRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "bundles", ar.logger, w)
		return
	}
	bundle, err := ar.sm.CatalogService.UpdateBundle(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "bundles", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.bundles.updated"), gecho.WithData(bundle), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "bundles")
	if !ok {
		return
	}
	if err := ar.sm.CatalogService.DeleteBundle(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "bundles", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.bundles.deleted"), gecho.Send())
}
