package promotions

import (
	"net/http"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

func (prm *PromotionRoutesManager) ValidateGiftCard(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.GiftCardValidateRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "giftCard", prm.logger, w)
		return
	}

	result, err := prm.promotionService.ValidateGiftCard(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "giftCard", prm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (prm *PromotionRoutesManager) PublicGiftCards(w http.ResponseWriter, r *http.Request) {
	cards, err := prm.promotionService.PublicGiftCards(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "giftCard", prm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(cards), gecho.Send())
}

func (prm *PromotionRoutesManager) ActiveBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := prm.promotionService.ActiveBanners(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "banners", prm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(banners), gecho.Send())
}

// ActiveSales returns only the sales that are live right now.
func (prm *PromotionRoutesManager) ActiveSales(w http.ResponseWriter, r *http.Request) {
	buckets, err := prm.promotionService.ListSales(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "sales", prm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(buckets.Live), gecho.Send())
}

func (prm *PromotionRoutesManager) PublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := prm.settingsService.GetPublicSettings(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "settings", prm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(settings), gecho.Send())
}
