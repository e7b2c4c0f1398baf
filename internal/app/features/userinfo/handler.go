// internal/app/features/userinfo/handler.go
package userinfo

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/imagehub/internal/app/system/auth"
)

// Handler describes the API caller.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ServeUserInfo returns the identity behind the presented token.
//
// Response format:
//
//	{ "username": "...", "token_prefix": "...", "storage_configured": bool }
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	user, ok := auth.CurrentUser(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"username":           user.Username,
		"token_prefix":       user.TokenPrefix,
		"storage_configured": user.Storage != nil,
	})
}
