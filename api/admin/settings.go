package admin

import (
	"net/http"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := ar.sm.DashboardService.Stats(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "dashboard", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(stats), gecho.Send())
}

func (ar *AdminRoutesManager) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := ar.sm.SettingsService.GetAdminSettings(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "settings", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(settings), gecho.Send())
}

// UpdateSettings only writes the fields present in the body.
func (ar *AdminRoutesManager) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SettingsUpdateRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "settings", ar.logger, w)
		return
	}
	settings, err := ar.sm.SettingsService.UpdateSettings(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "settings", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.settings.updated"), gecho.WithData(settings), gecho.Send())
}
