package admin

import (
	"mime"
	"net/http"
	"time"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListProducts is the catalogue listing including inactive products
func (ar *AdminRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.invalidQueryParameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}
	opts.IncludeInactive = true

	result, err := ar.sm.ProductService.ListProducts(r.Context(), opts)
	if err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   result.Products,
			"pagination": result.Pagination,
			"filters":    result.Filters,
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "products", ar.logger, w)
		return
	}

	product, err := ar.sm.ProductService.CreateProduct(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.products.created"), gecho.WithData(product), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "products")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "products", ar.logger, w)
		return
	}

	product, err := ar.sm.ProductService.UpdateProduct(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.products.updated"), gecho.WithData(product), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "products")
	if !ok {
		return
	}

	if err := ar.sm.ProductService.DeleteProduct(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.products.deleted"), gecho.Send())
}

// RestockProduct adjusts stock by a signed delta.
func (ar *AdminRoutesManager) RestockProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "products")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.RestockRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "products", ar.logger, w)
		return
	}

	product, err := ar.sm.ProductService.RestockProduct(r.Context(), id, body.Delta)
	if err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.products.restocked"), gecho.WithData(product), gecho.Send())
}

func (ar *AdminRoutesManager) ExportProducts(w http.ResponseWriter, r *http.Request) {
	filename := "products-" + time.Now().UTC().Format("20060102") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))

	n, err := ar.sm.ProductService.ExportCSV(r.Context(), w)
	if err != nil {
		// headers are already out, so the client sees a truncated file
		ar.logger.Error("Product export failed", gecho.Field("error", err), gecho.Field("rows", n))
		return
	}
	ar.logger.Info("Products exported", gecho.Field("rows", n))
}

// ImportProducts accepts a multipart "file" field or a raw text/csv body.
func (ar *AdminRoutesManager) ImportProducts(w http.ResponseWriter, r *http.Request) {
	source := r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			gecho.BadRequest(w,
				gecho.WithMessage("error.products.importFileMissing"),
				gecho.WithData(map[string]string{"error": err.Error()}),
				gecho.Send(),
			)
			return
		}
		defer file.Close()
		source = file
	}

	report, err := ar.sm.ProductService.ImportCSV(r.Context(), source)
	if err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.products.imported"), gecho.WithData(report), gecho.Send())
}
