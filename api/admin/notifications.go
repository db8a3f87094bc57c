package admin

import (
	"net/http"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

// SendNotification dispatches one notification synchronously and reports
// how many emails went out.
func (ar *AdminRoutesManager) SendNotification(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.NotificationPayload](r)
	if err != nil {
		handling.HandleBodyError(err, "notification", ar.logger, w)
		return
	}

	result, err := ar.sm.NotificationService.Dispatch(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "notification", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}
