// internal/app/features/userinfo/routes.go
package userinfo

import "github.com/go-chi/chi/v5"

// MountRoutes registers GET /user on the supplied router, which is the
// token-protected /api group.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/user", h.ServeUserInfo)
}
