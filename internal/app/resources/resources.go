// Package resources owns the page layout. Every feature page opens with
// {{ template "layout_head" . }} and closes with {{ template "layout_foot" . }}.
package resources

import (
	"embed"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
)

// SetName is the template set the layout is registered under.
const SetName = "shared"

//go:embed templates/*.gohtml
var FS embed.FS

var registerOnce sync.Once

// Set describes the layout templates.
func Set() templates.Set {
	return templates.Set{
		Name:     SetName,
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	}
}

// LoadSharedTemplates registers Set with the engine. Only the first call
// has any effect.
func LoadSharedTemplates() {
	registerOnce.Do(func() { templates.Register(Set()) })
}
