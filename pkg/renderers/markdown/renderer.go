// Package markdown provides the text/markdown renderer factory: a template
// is read from the filesystem, {{key}} placeholders are expanded from the
// view's data, and the result is converted to HTML through goldmark.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/goliatone/go-viewtree/pkg/render"
)

// Option configures the factory before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	markdown  goldmark.Markdown
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithMarkdown overrides the goldmark instance, letting callers add
// extensions or parser options.
func WithMarkdown(md goldmark.Markdown) Option {
	return func(cfg *config) {
		cfg.markdown = md
	}
}

// Factory builds goldmark-backed renderers for the "text/markdown" content
// type.
type Factory struct {
	files fs.FS
	md    goldmark.Markdown
}

var _ render.Factory = (*Factory)(nil)

// New constructs a Factory using the provided options. One of WithBaseDir
// or WithFS is required.
func New(options ...Option) (*Factory, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	files := cfg.templates
	if files == nil {
		if cfg.baseDir == "" {
			return nil, errors.New("markdown: need to provide either base dir or fs.FS")
		}
		files = os.DirFS(cfg.baseDir)
	}

	md := cfg.markdown
	if md == nil {
		md = goldmark.New()
	}

	return &Factory{files: files, md: md}, nil
}

// Name identifies the factory in registry listings.
func (f *Factory) Name() string { return "markdown" }

// ContentType is the identifier views select this factory by.
func (f *Factory) ContentType() string { return "text/markdown" }

// New returns a renderer bound to one view's data and sink.
func (f *Factory) New(data map[string]any, out render.Sink) render.Renderer {
	return &renderer{factory: f, data: data, out: out}
}

type renderer struct {
	render.Notifier
	factory *Factory
	data    map[string]any
	out     render.Sink
}

func (r *renderer) Render(templatePath string) {
	name := templatePath
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}

	src, err := fs.ReadFile(r.factory.files, name)
	if err != nil {
		r.Fail(fmt.Errorf("markdown: read template %q: %w", name, err))
		return
	}

	src = expand(src, r.data)

	var out bytes.Buffer
	if err := r.factory.md.Convert(src, &out); err != nil {
		r.Fail(fmt.Errorf("markdown: convert template %q: %w", name, err))
		return
	}
	if _, err := r.out.Write(out.Bytes()); err != nil {
		r.Fail(fmt.Errorf("markdown: write output: %w", err))
		return
	}
	if err := r.out.End(); err != nil {
		r.Fail(fmt.Errorf("markdown: end output: %w", err))
		return
	}
	r.Complete()
}

// expand substitutes {{key}} placeholders with the stringified data value.
// Unknown placeholders are left untouched.
func expand(src []byte, data map[string]any) []byte {
	if len(data) == 0 {
		return src
	}
	text := string(src)
	for key, value := range data {
		text = strings.ReplaceAll(text, "{{"+key+"}}", fmt.Sprint(value))
	}
	return []byte(text)
}
