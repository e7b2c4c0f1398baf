// internal/app/features/tokens/routes.go
package tokens

import "github.com/go-chi/chi/v5"

// Routes is mounted at /api/tokens behind the token middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleIssue)
	r.Delete("/{prefix}", h.HandleRevoke)
	return r
}
