package products

import (
	"net/http"
	"woodzire_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchProducts handles GET /products with filtering, pagination and sorting
func (prm *ProductRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		prm.logger.Warn("Invalid query parameters", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("error.invalidQueryParameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}
	opts.IncludeInactive = false

	result, err := prm.productService.ListProducts(r.Context(), opts)
	if err != nil {
		handling.HandleServiceError(err, "products", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   result.Products,
			"pagination": result.Pagination,
			"filters":    result.Filters,
			"meta": map[string]any{
				"query_time_ms": result.QueryTime.Milliseconds(),
				"count":         len(result.Products),
			},
		}),
		gecho.Send(),
	)
}

// FetchProductByID handles GET /products/id/{id}
func (prm *ProductRoutesManager) FetchProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.products.invalidProductId"), gecho.Send())
		return
	}

	product, err := prm.productService.GetProductByID(r.Context(), id, false)
	if err != nil {
		handling.HandleServiceError(err, "products", prm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]any{"product": product}), gecho.Send())
}

// FetchProductBySlug handles GET /products/{ref}
func (prm *ProductRoutesManager) FetchProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := prm.productService.GetProductBySlug(r.Context(), chi.URLParam(r, "ref"), false)
	if err != nil {
		handling.HandleServiceError(err, "products", prm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]any{"product": product}), gecho.Send())
}
