// internal/app/features/signup/views/views.go
package views

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "signup",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
