// internal/app/features/images/routes.go
package images

import "github.com/go-chi/chi/v5"

// Routes is mounted at /api/images behind the token middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleUpload)
	r.Get("/{name}", h.ServeImage)
	return r
}
