package admin

import (
	"net/http"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := ar.sm.CampaignService.ListCampaigns(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "campaigns", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(campaigns), gecho.Send())
}

func (ar *AdminRoutesManager) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "campaigns")
	if !ok {
		return
	}
	campaign, err := ar.sm.CampaignService.GetCampaign(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "campaigns", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(campaign), gecho.Send())
}

func (ar *AdminRoutesManager) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CampaignRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "campaigns", ar.logger, w)
		return
	}
	campaign, err := ar.sm.CampaignService.CreateCampaign(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "campaigns", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.campaigns.created"), gecho.WithData(campaign), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "campaigns")
	if !ok {
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.CampaignRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "campaigns", ar.logger, w)
		return
	}
	campaign, err := ar.sm.CampaignService.UpdateCampaign(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "campaigns", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.campaigns.updated"), gecho.WithData(campaign), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "campaigns")
	if !ok {
		return
	}
	if err := ar.sm.CampaignService.DeleteCampaign(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "campaigns", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.campaigns.deleted"), gecho.Send())
}

// SendCampaign delivers a draft to every opted-in subscriber.
func (ar *AdminRoutesManager) SendCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "campaigns")
	if !ok {
		return
	}
	result, err := ar.sm.CampaignService.SendCampaign(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "campaigns", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.campaigns.sent"), gecho.WithData(result), gecho.Send())
}

func (ar *AdminRoutesManager) CampaignStats(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "campaigns")
	if !ok {
		return
	}
	stats, err := ar.sm.CampaignService.CampaignStats(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "campaigns", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(stats), gecho.Send())
}

func (ar *AdminRoutesManager) ListAbandonedCarts(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePagination(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.invalidQueryParameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}
	carts, err := ar.sm.CustomerService.ListAbandonedCarts(r.Context(), handling.QueryFlag(r, "include_recovered"), page, pageSize)
	if err != nil {
		handling.HandleServiceError(err, "carts", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(carts), gecho.Send())
}

func (ar *AdminRoutesManager) RemindAbandonedCart(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "carts")
	if !ok {
		return
	}
	cart, err := ar.sm.CustomerService.SendCartReminder(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "carts", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.carts.reminded"), gecho.WithData(cart), gecho.Send())
}
