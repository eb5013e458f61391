// Package jsonview provides the application/json renderer factory. It has
// no template files: the view's accumulated data mapping is marshalled
// directly, making it the natural renderer for API-facing trees.
package jsonview

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-viewtree/pkg/render"
)

// Factory builds JSON renderers for the "application/json" content type.
type Factory struct {
	indent string
}

var _ render.Factory = (*Factory)(nil)

// Option configures the factory before construction.
type Option func(*Factory)

// WithIndent emits indented output using the given prefix string.
func WithIndent(indent string) Option {
	return func(f *Factory) {
		f.indent = indent
	}
}

// New constructs a Factory.
func New(options ...Option) *Factory {
	f := &Factory{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Name identifies the factory in registry listings.
func (f *Factory) Name() string { return "json" }

// ContentType is the identifier views select this factory by.
func (f *Factory) ContentType() string { return "application/json" }

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

// Render marshals the data mapping; the template path is ignored.
func (r *renderer) Render(string) {
	var (
		payload []byte
		err     error
	)
	if r.factory.indent != "" {
		payload, err = json.MarshalIndent(r.data, "", r.factory.indent)
	} else {
		payload, err = json.Marshal(r.data)
	}
	if err != nil {
		r.Fail(fmt.Errorf("jsonview: marshal data: %w", err))
		return
	}
	if _, err := r.out.Write(payload); err != nil {
		r.Fail(fmt.Errorf("jsonview: write output: %w", err))
		return
	}
	if err := r.out.End(); err != nil {
		r.Fail(fmt.Errorf("jsonview: end output: %w", err))
		return
	}
	r.Complete()
}
