package admin

import (
	"net/http"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

// ListSales groups sales into live, upcoming, paused and expired.
func (ar *AdminRoutesManager) ListSales(w http.ResponseWriter, r *http.Request) {
	buckets, err := ar.sm.PromotionService.ListSales(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "sales", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(buckets), gecho.Send())
}

func (ar *AdminRoutesManager) CreateSale(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SaleRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "sales", ar.logger, w)
		return
	}
	sale, err := ar.sm.PromotionService.CreateSale(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "sales", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.sales.created"), gecho.WithData(sale), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateSale(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "sales")
	if !ok {
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.SaleRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "sales", ar.logger, w)
		return
	}
	sale, err := ar.sm.PromotionService.UpdateSale(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "sales", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.sales.updated"), gecho.WithData(sale), gecho.Send())
}

func (ar *AdminRoutesManager) PauseSale(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "sales")
	if !ok {
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.SalePauseRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "sales", ar.logger, w)
		return
	}
	sale, err := ar.sm.PromotionService.SetSalePaused(r.Context(), id, body.Paused)
	if err != nil {
		handling.HandleServiceError(err, "sales", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(sale), gecho.Send())
}

// ApplySale writes the sale percentage onto every matching product.
func (ar *AdminRoutesManager) ApplySale(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "sales")
	if !ok {
		return
	}
	n, err := ar.sm.PromotionService.ApplySale(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "sales", ar.logger, w)
		return
	}
	gecho.Success(w,
		gecho.WithMessage("success.sales.applied"),
		gecho.WithData(map[string]int{"products_updated": n}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) ClearSale(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "sales")
	if !ok {
		return
	}
	n, err := ar.sm.PromotionService.ClearSale(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "sales", ar.logger, w)
		return
	}
	gecho.Success(w,
		gecho.WithMessage("success.sales.cleared"),
		gecho.WithData(map[string]int{"products_updated": n}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "sales")
	if !ok {
		return
	}
	if err := ar.sm.PromotionService.DeleteSale(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "sales", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.sales.deleted"), gecho.Send())
}

func (ar *AdminRoutesManager) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := ar.sm.PromotionService.ListBanners(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "banners", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(banners), gecho.Send())
}

func (ar *AdminRoutesManager) CreateBanner(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.BannerRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "banners", ar.logger, w)
		return
	}
	banner, err := ar.sm.PromotionService.CreateBanner(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "banners", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.banners.created"), gecho.WithData(banner), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "banners")
	if !ok {
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.BannerRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "banners", ar.logger, w)
		return
	}
	banner, err := ar.sm.PromotionService.UpdateBanner(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "banners", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.banners.updated"), gecho.WithData(banner), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "banners")
	if !ok {
		return
	}
	if err := ar.sm.PromotionService.DeleteBanner(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "banners", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.banners.deleted"), gecho.Send())
}

func (ar *AdminRoutesManager) ListGiftCards(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePagination(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.invalidQueryParameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}
	cards, err := ar.sm.PromotionService.ListGiftCards(r.Context(), page, pageSize)
	if err != nil {
		handling.HandleServiceError(err, "giftCards", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(cards), gecho.Send())
}

// IssueGiftCard generates a code and emails the recipient when one is given.
func (ar *AdminRoutesManager) IssueGiftCard(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.GiftCardIssueRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "giftCards", ar.logger, w)
		return
	}
	card, err := ar.sm.PromotionService.IssueGiftCard(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "giftCards", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.giftCards.issued"), gecho.WithData(card), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateGiftCard(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "giftCards")
	if !ok {
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.GiftCardUpdateRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "giftCards", ar.logger, w)
		return
	}
	card, err := ar.sm.PromotionService.UpdateGiftCard(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "giftCards", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.giftCards.updated"), gecho.WithData(card), gecho.Send())
}

func (ar *AdminRoutesManager) GiftCardTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "giftCards")
	if !ok {
		return
	}
	txs, err := ar.sm.PromotionService.GiftCardTransactions(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "giftCards", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(txs), gecho.Send())
}
