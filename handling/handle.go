package handling

import (
	"errors"
	"net/http"
	"woodzire_server/lib"
	"woodzire_server/services"

	"github.com/MonkyMars/gecho"
)

// HandleError logs an unexpected failure and answers 500.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))
	gecho.InternalServerError(w, gecho.Send())
}

// HandleServiceError writes the response for an error returned by a service.
// Message keys are built from domain, e.g. "error.order.notFound".
func HandleServiceError(err error, domain string, logger *gecho.Logger, w http.ResponseWriter) {
	var ve *lib.ValidationError
	var te *services.TransitionError

	switch {
	case errors.As(err, &ve):
		gecho.BadRequest(w,
			gecho.WithMessage("error."+domain+".invalid"),
			gecho.WithData(ve),
			gecho.Send(),
		)
	case errors.As(err, &te):
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidTransition"),
			gecho.WithData(map[string]string{"error": te.Error()}),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrInvalidCredentials),
		errors.Is(err, lib.ErrInvalidToken),
		errors.Is(err, lib.ErrExpiredToken):
		gecho.Unauthorized(w, gecho.WithMessage("error."+domain+".unauthorized"), gecho.Send())
	case errors.Is(err, lib.ErrForbidden):
		gecho.Forbidden(w, gecho.WithMessage("error."+domain+".forbidden"), gecho.Send())
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w,
			gecho.WithMessage("error."+domain+".notFound"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrConflict), errors.Is(err, services.ErrGiftCardConflict):
		gecho.Conflict(w,
			gecho.WithMessage("error."+domain+".conflict"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)
	case services.IsClientError(err):
		logger.Debug("Request rejected", gecho.Field("domain", domain), gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("error."+domain+".rejected"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)
	default:
		HandleError(err, domain, logger, w)
	}
}

// HandleBodyError answers a body that failed to decode or validate.
func HandleBodyError(err error, domain string, logger *gecho.Logger, w http.ResponseWriter) {
	logger.Warn("Invalid request body", gecho.Field("domain", domain), gecho.Field("error", err))

	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		gecho.BadRequest(w,
			gecho.WithMessage("error."+domain+".invalidRequestBody"),
			gecho.WithData(ve),
			gecho.Send(),
		)
		return
	}
	gecho.BadRequest(w,
		gecho.WithMessage("error."+domain+".invalidRequestBody"),
		gecho.WithData(map[string]string{"error": err.Error()}),
		gecho.Send(),
	)
}
