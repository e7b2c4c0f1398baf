// internal/app/features/login/handler.go
package login

import (
	"net/http"

	"github.com/dalemusser/imagehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the login view. The view is static: it carries no form
// and performs no sign-in.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type loginData struct {
	viewdata.BaseVM
	SignupPath string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeLogin renders the full page, or only the "login_view" fragment when
// the request comes from htmx.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	data := loginData{
		BaseVM:     viewdata.NewBaseVM(r, "Login"),
		SignupPath: "/signup",
	}

	if r.Header.Get("HX-Request") != "" {
		templates.RenderSnippet(w, "login_view", data)
		return
	}
	templates.Render(w, r, "login", data)
}
