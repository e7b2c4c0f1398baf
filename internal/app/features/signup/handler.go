// internal/app/features/signup/handler.go
package signup

import (
	"net/http"

	"github.com/dalemusser/imagehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the signup view. The view is static: it carries no form
// and performs no account creation.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type signupData struct {
	viewdata.BaseVM
	LoginPath string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /signup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeSignup renders the full page, or only the "signup_view" fragment when
// the request comes from htmx.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	data := signupData{
		BaseVM:    viewdata.NewBaseVM(r, "Signup"),
		LoginPath: "/login",
	}

	if r.Header.Get("HX-Request") != "" {
		templates.RenderSnippet(w, "signup_view", data)
		return
	}
	templates.Render(w, r, "signup", data)
}
