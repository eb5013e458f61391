package render

import "io"

// Sink is the write-and-finish surface a renderer drives. The view layer
// supplies either a real response stream (root views) or a buffering adapter
// (child views); renderers treat both identically.
type Sink interface {
	io.Writer

	// End marks the output finished. A renderer calls it after its last
	// Write and before signalling completion.
	End() error
}

// Renderer renders one view's accumulated data to its output sink. A
// Renderer instance is single-use: it is built for one render, invoked once,
// and must signal exactly one of completion or failure, exactly once. A
// signal raised before the matching handler is attached must be held and
// delivered when one is (see Notifier).
type Renderer interface {
	// Render triggers engine-specific rendering of the template at
	// templatePath, writing the result to the sink the renderer was built
	// with. Engines that need no template file may ignore the path.
	Render(templatePath string)

	// OnComplete registers the handler invoked after a successful render.
	OnComplete(fn func())

	// OnError registers the handler invoked with the render failure.
	OnError(fn func(error))
}

// Factory builds Renderer instances bound to a single view render. A Factory
// is registered once per content type and must be safe for concurrent use.
type Factory interface {
	// Name identifies the factory for diagnostics and registry listings.
	Name() string

	// ContentType is the identifier views select the factory by.
	ContentType() string

	// New returns a renderer bound to the given data mapping and sink.
	New(data map[string]any, out Sink) Renderer
}
