package pongo_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-viewtree/pkg/render"
	"github.com/goliatone/go-viewtree/pkg/renderers/pongo"
)

type memSink struct {
	buf   bytes.Buffer
	ended bool
}

func (s *memSink) Write(p []byte) (int, error) { return s.buf.Write(p) }
func (s *memSink) End() error                  { s.ended = true; return nil }

func renderOne(t *testing.T, factory render.Factory, data map[string]any, path string) (string, error) {
	t.Helper()
	sink := &memSink{}
	r := factory.New(data, sink)

	var failure error
	completed := false
	r.OnError(func(err error) { failure = err })
	r.OnComplete(func() { completed = true })
	r.Render(path)

	if failure != nil {
		return "", failure
	}
	if !completed {
		t.Fatal("renderer signalled neither completion nor failure")
	}
	if !sink.ended {
		t.Fatal("renderer completed without ending the sink")
	}
	return sink.buf.String(), nil
}

func TestRenderTemplateWithData(t *testing.T) {
	factory, err := pongo.New(pongo.WithFS(fstest.MapFS{
		"hello.html": {Data: []byte("Hello {{ name }}!")},
	}))
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}

	out, err := renderOne(t, factory, map[string]any{"name": "World"}, "hello")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello World!" {
		t.Fatalf("output = %q, want %q", out, "Hello World!")
	}
}

func TestExtensionIsAppendedOnce(t *testing.T) {
	factory, err := pongo.New(
		pongo.WithFS(fstest.MapFS{"page.tpl": {Data: []byte("ok")}}),
		pongo.WithExtension("tpl"))
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}

	for _, path := range []string{"page", "page.tpl"} {
		out, err := renderOne(t, factory, nil, path)
		if err != nil {
			t.Fatalf("render %q: %v", path, err)
		}
		if out != "ok" {
			t.Fatalf("output for %q = %q, want ok", path, out)
		}
	}
}

func TestGlobalsMergeUnderViewData(t *testing.T) {
	factory, err := pongo.New(
		pongo.WithFS(fstest.MapFS{
			"page.html": {Data: []byte("{{ site }}:{{ name }}")},
		}),
		pongo.WithGlobals(map[string]any{"site": "example", "name": "global"}))
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}

	// View data shadows globals on key collision.
	out, err := renderOne(t, factory, map[string]any{"name": "local"}, "page")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "example:local" {
		t.Fatalf("output = %q, want example:local", out)
	}
}

func TestMissingTemplateFails(t *testing.T) {
	factory, err := pongo.New(pongo.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}

	_, err = renderOne(t, factory, nil, "ghost")
	if err == nil {
		t.Fatal("expected a load failure")
	}
	if !strings.Contains(err.Error(), `load template "ghost.html"`) {
		t.Fatalf("error = %v", err)
	}
}

func TestFactoryRequiresASource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatal("expected an error without base dir or fs.FS")
	}
}

func TestWatchRequiresBaseDir(t *testing.T) {
	_, err := pongo.New(
		pongo.WithFS(fstest.MapFS{}),
		pongo.WithWatch())
	if err == nil {
		t.Fatal("expected watch without a base dir to fail")
	}
}

func TestWatchingFactoryRendersAndCloses(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.html"), []byte("v1"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	factory, err := pongo.New(pongo.WithBaseDir(dir), pongo.WithWatch())
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}

	out, err := renderOne(t, factory, nil, "page")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "v1" {
		t.Fatalf("output = %q, want v1", out)
	}
	if err := factory.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
