package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"woodzire_server/api/middleware"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func withParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	ar := NewAdminRoutesManager(gecho.NewDefaultLogger(), nil, nil)

	w := httptest.NewRecorder()
	_, ok := ar.pathID(w, withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "not-a-uuid"}), "order")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	want := uuid.New()
	w = httptest.NewRecorder()
	got, ok := ar.pathID(w, withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": want.String()}), "order")
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRevokeRoleRejectsBeforeServiceCall(t *testing.T) {
	ar := NewAdminRoutesManager(gecho.NewDefaultLogger(), nil, nil)
	self := uuid.New()

	tests := []struct {
		name string
		id   uuid.UUID
		role string
	}{
		{"unknown role", uuid.New(), "owner"},
		{"own admin role", self, "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodDelete, "/admin/users/x/roles/y", nil)
			r = withParams(r, map[string]string{"id": tt.id.String(), "role": tt.role})
			claims := &structs.AuthClaims{Sub: self, Role: "admin"}
			r = r.WithContext(context.WithValue(r.Context(), middleware.ClaimsContextKey, claims))

			w := httptest.NewRecorder()
			ar.RevokeRole(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
