// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync"
)

// DefaultSiteName is shown until Init is called.
const DefaultSiteName = "imagehub"

var (
	mu       sync.RWMutex
	siteName = DefaultSiteName
)

// Init sets the site name used in page titles. Called once at startup.
func Init(name string) {
	if name == "" {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	siteName = name
}

// BaseVM contains the fields the shared layout reads.
// Embed it in feature view models:
//
//	type loginData struct {
//	    viewdata.BaseVM
//	}
type BaseVM struct {
	SiteName    string
	Title       string
	CurrentPath string
}

// NewBaseVM builds the layout fields for a page titled title.
func NewBaseVM(r *http.Request, title string) BaseVM {
	mu.RLock()
	name := siteName
	mu.RUnlock()

	return BaseVM{
		SiteName:    name,
		Title:       title,
		CurrentPath: r.URL.Path,
	}
}
