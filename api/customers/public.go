package customers

import (
	"net/http"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

func (crm *CustomerRoutesManager) FetchTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := crm.moderationService.ListTestimonials(r.Context(), false)
	if err != nil {
		handling.HandleServiceError(err, "testimonials", crm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(testimonials), gecho.Send())
}

func (crm *CustomerRoutesManager) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.InquiryRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "inquiries", crm.logger, w)
		return
	}

	inquiry, err := crm.moderationService.SubmitInquiry(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "inquiries", crm.logger, w)
		return
	}
	gecho.Success(w,
		gecho.WithMessage("success.inquiries.received"),
		gecho.WithData(map[string]any{"id": inquiry.ID}),
		gecho.Send(),
	)
}

func (crm *CustomerRoutesManager) SubscribeStockAlert(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.StockAlertRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "stockAlerts", crm.logger, w)
		return
	}

	alert, err := crm.customerService.SubscribeStockAlert(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "stockAlerts", crm.logger, w)
		return
	}
	gecho.Success(w,
		gecho.WithMessage("success.stockAlerts.subscribed"),
		gecho.WithData(alert),
		gecho.Send(),
	)
}

func (crm *CustomerRoutesManager) SaveEmailPreference(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.EmailPreferenceRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "emailPreferences", crm.logger, w)
		return
	}

	pref, err := crm.customerService.SaveEmailPreference(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "emailPreferences", crm.logger, w)
		return
	}
	gecho.Success(w,
		gecho.WithMessage("success.emailPreferences.saved"),
		gecho.WithData(pref),
		gecho.Send(),
	)
}

// Unsubscribe is reached from the link in marketing emails.
func (crm *CustomerRoutesManager) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		gecho.BadRequest(w, gecho.WithMessage("error.emailPreferences.tokenRequired"), gecho.Send())
		return
	}

	if err := crm.customerService.Unsubscribe(r.Context(), token); err != nil {
		handling.HandleServiceError(err, "emailPreferences", crm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.emailPreferences.unsubscribed"), gecho.Send())
}

func (crm *CustomerRoutesManager) SaveAbandonedCart(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AbandonedCartRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "abandonedCarts", crm.logger, w)
		return
	}

	if _, err := crm.customerService.SaveAbandonedCart(r.Context(), body); err != nil {
		handling.HandleServiceError(err, "abandonedCarts", crm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.abandonedCarts.saved"), gecho.Send())
}
