package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/imagehub/internal/app/system/auth"
	"github.com/dalemusser/imagehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request, for calling a
// handler method directly without a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// APIUserFor builds the context user the token middleware would attach
// for u.
func APIUserFor(u models.User, tokenPrefix string) *auth.APIUser {
	return &auth.APIUser{
		ID:          u.ID,
		Username:    u.Username,
		Storage:     u.Storage,
		TokenPrefix: tokenPrefix,
	}
}

// NewAPIRequest returns a request carrying user (nil for anonymous) and
// an optional JSON body.
func NewAPIRequest(method, target, body string, user *auth.APIUser) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req = auth.WithTestUser(req, user)
	}
	return req
}
