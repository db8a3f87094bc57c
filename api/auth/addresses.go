package auth

import (
	"net/http"
	"woodzire_server/api/middleware"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

func (arm *AuthRoutesManager) HandleGetAddresses(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	addresses, err := arm.customerService.ListAddresses(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleServiceError(err, "addresses", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.addresses.fetched"),
		gecho.WithData(addresses),
		gecho.Send(),
	)
}

func (arm *AuthRoutesManager) HandleCreateAddress(w http.ResponseWriter, r *http.Request) {
	arm.saveAddress(w, r, nil)
}

func (arm *AuthRoutesManager) HandleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUIDParam(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.addresses.invalidAddressId"), gecho.Send())
		return
	}
	arm.saveAddress(w, r, &id)
}

func (arm *AuthRoutesManager) saveAddress(w http.ResponseWriter, r *http.Request, id *uuid.UUID) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	body, err := lib.ExtractAndValidateBody[structs.AddressRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "addresses", arm.logger, w)
		return
	}

	address, err := arm.customerService.SaveAddress(r.Context(), claims.Sub, id, body)
	if err != nil {
		handling.HandleServiceError(err, "addresses", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.addresses.saved"),
		gecho.WithData(address),
		gecho.Send(),
	)
}

func (arm *AuthRoutesManager) HandleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	id, err := handling.ParseUUIDParam(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.addresses.invalidAddressId"), gecho.Send())
		return
	}

	if err := arm.customerService.DeleteAddress(r.Context(), claims.Sub, id); err != nil {
		handling.HandleServiceError(err, "addresses", arm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.addresses.deleted"), gecho.Send())
}
