// Package pongo provides the text/html renderer factory, backed by a
// pongo2 template set loaded from a directory or an fs.FS.
package pongo

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-viewtree/pkg/render"
)

// Option configures the factory before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
	globals   map[string]any
	watch     bool
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

// WithExtension overrides the default ".html" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobals seeds context values available to every template.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[key] = value
		}
	}
}

// WithWatch invalidates the compiled-template cache when files under the
// base directory change. Requires WithBaseDir.
func WithWatch() Option {
	return func(cfg *config) {
		cfg.watch = true
	}
}

// Factory builds pongo2-backed renderers for the "text/html" content type.
type Factory struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	tplExt    string
	globals   map[string]any
	watcher   *watcher
}

var _ render.Factory = (*Factory)(nil)

// New constructs a Factory using the provided options. One of WithBaseDir
// or WithFS is required.
func New(options ...Option) (*Factory, error) {
	cfg := &config{
		extension: ".html",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("pongo: need to provide either base dir or fs.FS")
	}
	if cfg.watch && cfg.baseDir == "" {
		return nil, errors.New("pongo: watch requires a base dir")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	factory := &Factory{
		set:       pongo2.NewSet("viewtree", loaders...),
		templates: make(map[string]*pongo2.Template),
		tplExt:    cfg.extension,
		globals:   cfg.globals,
	}

	if cfg.watch {
		w, err := newWatcher(cfg.baseDir, factory.invalidate)
		if err != nil {
			return nil, fmt.Errorf("pongo: start watcher: %w", err)
		}
		factory.watcher = w
	}

	return factory, nil
}

// Name identifies the factory in registry listings.
func (f *Factory) Name() string { return "pongo" }

// ContentType is the identifier views select this factory by.
func (f *Factory) ContentType() string { return "text/html" }

// New returns a renderer bound to one view's data and sink.
func (f *Factory) New(data map[string]any, out render.Sink) render.Renderer {
	return &renderer{factory: f, data: data, out: out}
}

// Close stops the change watcher, if one was started.
func (f *Factory) Close() error {
	if f.watcher == nil {
		return nil
	}
	return f.watcher.close()
}

func (f *Factory) template(path string) (*pongo2.Template, error) {
	if !strings.HasSuffix(path, f.tplExt) {
		path += f.tplExt
	}

	f.mu.RLock()
	if tmpl, ok := f.templates[path]; ok {
		f.mu.RUnlock()
		return tmpl, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	if tmpl, ok := f.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := f.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", path, err)
	}

	f.templates[path] = tmpl
	return tmpl, nil
}

// invalidate drops every cached template; the next render recompiles from
// source.
func (f *Factory) invalidate() {
	f.mu.Lock()
	f.templates = make(map[string]*pongo2.Template)
	f.mu.Unlock()
}

type renderer struct {
	render.Notifier
	factory *Factory
	data    map[string]any
	out     render.Sink
}

func (r *renderer) Render(templatePath string) {
	tmpl, err := r.factory.template(templatePath)
	if err != nil {
		r.Fail(err)
		return
	}

	ctx := make(pongo2.Context, len(r.factory.globals)+len(r.data))
	for key, value := range r.factory.globals {
		ctx[key] = value
	}
	for key, value := range r.data {
		ctx[key] = value
	}

	if err := tmpl.ExecuteWriter(ctx, r.out); err != nil {
		r.Fail(fmt.Errorf("pongo: execute template %q: %w", templatePath, err))
		return
	}
	if err := r.out.End(); err != nil {
		r.Fail(fmt.Errorf("pongo: end output: %w", err))
		return
	}
	r.Complete()
}
