package resources_test

import (
	"html/template"
	"testing"

	"github.com/dalemusser/imagehub/internal/app/resources"
)

func TestLayoutDefinesHeadAndFoot(t *testing.T) {
	set := resources.Set()
	tpl, err := template.ParseFS(set.FS, set.Patterns...)
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	for _, name := range []string{"layout_head", "layout_foot"} {
		if tpl.Lookup(name) == nil {
			t.Errorf("layout does not define %q", name)
		}
	}
}
