// internal/app/features/storageconfig/routes.go
package storageconfig

import "github.com/go-chi/chi/v5"

// Routes is mounted at /api/config behind the token middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeConfig)
	r.Put("/", h.HandleUpdate)
	return r
}
