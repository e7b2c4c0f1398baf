// internal/app/features/errors/errors.go
package errors

import (
	"embed"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/imagehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| JSON API errors                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ErrorLogger logs a failed API request with its route context and writes
// a JSON body of the form {"error": "..."}.
//
// The user-facing message never carries the underlying error; that goes
// to the log only.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs at Error and writes 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, append(reqFields(r), zap.Error(err))...)
	WriteJSON(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs at Warn and writes 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	fields := reqFields(r)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	e.Log.Warn(logMsg, fields...)
	WriteJSON(w, http.StatusBadRequest, userMsg)
}

// LogNotFound logs at Info and writes 404.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, userMsg string) {
	e.Log.Info(logMsg, reqFields(r)...)
	WriteJSON(w, http.StatusNotFound, userMsg)
}

// WriteJSON writes {"error": msg} with status.
func WriteJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func reqFields(r *http.Request) []zap.Field {
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| HTML error pages                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

//go:embed templates/*.gohtml
var pagesFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "errors",
		FS:       pagesFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}

type pageData struct {
	viewdata.BaseVM
	Message string
}

// Handler renders HTML error pages. No DB needed.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// NotFound renders the friendly 404 page for browser routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_not_found", pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Page not found"),
		Message: "We couldn't find that page.",
	})
}
