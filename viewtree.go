// Package viewtree coordinates asynchronous view-tree rendering: a route
// handler builds a root view, attaches named children that render in any
// order, and the tree guarantees the response is written exactly once, only
// after every child has produced its content.
//
// The Engine is the per-process facade: it owns the renderer registry and
// the defaults (template directory, content type, error handler, status
// override templates) each per-request root is created with. The
// coordination protocol itself lives in pkg/view; renderer contracts and
// implementations live in pkg/render and pkg/renderers.
package viewtree

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-viewtree/pkg/config"
	"github.com/goliatone/go-viewtree/pkg/render"
	"github.com/goliatone/go-viewtree/pkg/renderers/jsonview"
	"github.com/goliatone/go-viewtree/pkg/renderers/pongo"
	"github.com/goliatone/go-viewtree/pkg/view"
)

// Engine builds configured root views for incoming requests.
type Engine struct {
	registry        *render.Registry
	dir             string
	contentType     string
	errorHandler    view.ErrorHandler
	statusTemplates map[int]string
}

// Option customises the engine configuration.
type Option func(*Engine)

// WithRegistry injects a renderer registry. Without one the engine creates
// an empty registry the caller populates via Registry().
func WithRegistry(registry *render.Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithDir sets the template directory new roots inherit.
func WithDir(dir string) Option {
	return func(e *Engine) {
		e.dir = dir
	}
}

// WithContentType sets the default renderer selection for new roots.
func WithContentType(contentType string) Option {
	return func(e *Engine) {
		if contentType != "" {
			e.contentType = contentType
		}
	}
}

// WithErrorHandler installs the failure handler new roots inherit.
func WithErrorHandler(fn view.ErrorHandler) Option {
	return func(e *Engine) {
		e.errorHandler = fn
	}
}

// WithStatusTemplates configures the per-status override templates new
// roots inherit.
func WithStatusTemplates(templates map[int]string) Option {
	return func(e *Engine) {
		if len(templates) == 0 {
			return
		}
		if e.statusTemplates == nil {
			e.statusTemplates = make(map[int]string, len(templates))
		}
		for code, template := range templates {
			e.statusTemplates[code] = template
		}
	}
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:    render.NewRegistry(),
		contentType: "text/html",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromConfig creates an engine from a loaded config document: an HTML
// renderer over the configured template directory plus the JSON renderer
// are registered, and the remaining settings become the engine defaults.
// Options run last and may override anything the config set.
func FromConfig(cfg config.Config, opts ...Option) (*Engine, error) {
	var pongoOpts []pongo.Option
	if cfg.Dir != "" {
		pongoOpts = append(pongoOpts, pongo.WithBaseDir(cfg.Dir))
	}
	if cfg.Extension != "" {
		pongoOpts = append(pongoOpts, pongo.WithExtension(cfg.Extension))
	}
	if len(cfg.Globals) > 0 {
		pongoOpts = append(pongoOpts, pongo.WithGlobals(cfg.Globals))
	}
	if cfg.Watch {
		pongoOpts = append(pongoOpts, pongo.WithWatch())
	}

	html, err := pongo.New(pongoOpts...)
	if err != nil {
		return nil, fmt.Errorf("viewtree: build html renderer: %w", err)
	}

	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(jsonview.New()); err != nil {
		return nil, err
	}

	engineOpts := []Option{
		WithRegistry(registry),
		WithContentType(cfg.ContentType),
		WithStatusTemplates(cfg.StatusTemplates),
	}
	// Dir is already baked into the HTML renderer's loader; roots resolve
	// template names relative to it.
	return New(append(engineOpts, opts...)...), nil
}

// Registry exposes the engine's renderer registry for additional
// registrations.
func (e *Engine) Registry() *render.Registry { return e.registry }

// NewRoot creates the root view for one request, writing to w. Options run
// after the engine defaults and may override them.
func (e *Engine) NewRoot(w http.ResponseWriter, opts ...view.Option) *view.Node {
	base := []view.Option{
		view.WithContentType(e.contentType),
		view.WithDir(e.dir),
		view.WithErrorHandler(e.errorHandler),
		view.WithStatusTemplates(e.statusTemplates),
	}
	return view.NewRoot(e.registry, view.NewHTTPSink(w), append(base, opts...)...)
}
