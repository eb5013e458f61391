package render_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewtree/pkg/render"
)

type fakeFactory struct {
	name        string
	contentType string
}

func (f *fakeFactory) Name() string        { return f.name }
func (f *fakeFactory) ContentType() string { return f.contentType }
func (f *fakeFactory) New(map[string]any, render.Sink) render.Renderer {
	return nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := render.NewRegistry()
	html := &fakeFactory{name: "html", contentType: "text/html"}

	if err := registry.Register(html); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := registry.Get("text/html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != render.Factory(html) {
		t.Fatal("returned factory is not the registered instance")
	}
	if !registry.Has("text/html") {
		t.Fatal("Has must report the registered content type")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(&fakeFactory{name: "a", contentType: "text/html"})

	err := registry.Register(&fakeFactory{name: "b", contentType: "text/html"})
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("error = %v, want an already-registered failure", err)
	}
}

func TestRegistryRejectsInvalidFactories(t *testing.T) {
	registry := render.NewRegistry()

	if err := registry.Register(nil); err == nil {
		t.Fatal("nil factory must be rejected")
	}
	if err := registry.Register(&fakeFactory{name: "x"}); err == nil {
		t.Fatal("empty content type must be rejected")
	}
}

func TestRegistryMissingLookupIsConfigurationError(t *testing.T) {
	registry := render.NewRegistry()

	_, err := registry.Get("application/toml")
	if err == nil {
		t.Fatal("expected a lookup failure")
	}
	if !strings.Contains(err.Error(), `no renderer registered for content type "application/toml"`) {
		t.Fatalf("error = %v", err)
	}
}

func TestRegistryListIsSorted(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(&fakeFactory{name: "json", contentType: "application/json"})
	registry.MustRegister(&fakeFactory{name: "html", contentType: "text/html"})
	registry.MustRegister(&fakeFactory{name: "md", contentType: "text/markdown"})

	want := []string{"application/json", "text/html", "text/markdown"}
	if diff := cmp.Diff(want, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}
