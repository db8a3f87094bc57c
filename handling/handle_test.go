package handling

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"woodzire_server/lib"
	"woodzire_server/services"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
)

func TestHandleServiceError(t *testing.T) {
	logger := gecho.NewDefaultLogger()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", lib.NewValidationError("price", "must not be negative"), http.StatusBadRequest},
		{"transition", &services.TransitionError{From: tables.OrderStatusDelivered, To: tables.OrderStatusPending}, http.StatusBadRequest},
		{"not found", fmt.Errorf("load: %w", services.ErrOrderNotFound), http.StatusNotFound},
		{"conflict", services.ErrSlugTaken, http.StatusConflict},
		{"gift card race", services.ErrGiftCardConflict, http.StatusConflict},
		{"gift card expired", services.ErrGiftCardExpired, http.StatusBadRequest},
		{"stock", fmt.Errorf("%w: Teak Tray", services.ErrInsufficientStock), http.StatusBadRequest},
		{"bad login", lib.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", lib.ErrForbidden, http.StatusForbidden},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleServiceError(tt.err, "order", logger, w)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"plain", assert.AnError},
		{"wrapped", fmt.Errorf("failed to load settings: %w", assert.AnError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(tt.err, "settings", gecho.NewDefaultLogger(), w)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.NotEmpty(t, w.Body.String())
		})
	}
}
