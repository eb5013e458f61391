package view

// Option configures a root node at construction.
type Option func(*Node)

// WithContentType sets the root's renderer selection. Children inherit it
// at creation time. Defaults to "text/html".
func WithContentType(contentType string) Option {
	return func(n *Node) {
		if contentType != "" {
			n.contentType = contentType
		}
	}
}

// WithDir sets the template directory prepended to template names at
// render time. Children inherit it at creation time.
func WithDir(dir string) Option {
	return func(n *Node) {
		n.dir = dir
	}
}

// WithErrorHandler installs the root's failure handler. Without one, a
// render failure is fatal.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(n *Node) {
		n.onError = fn
	}
}

// WithData seeds the root's view-local data.
func WithData(data map[string]any) Option {
	return func(n *Node) {
		for key, value := range data {
			n.data[key] = value
		}
	}
}

// WithStatusTemplates configures per-status override templates. A status
// helper called without an explicit template falls back to the template
// configured for its status code, and ends the response bodyless when
// neither exists.
func WithStatusTemplates(templates map[int]string) Option {
	return func(n *Node) {
		if len(templates) == 0 {
			return
		}
		if n.statusTemplates == nil {
			n.statusTemplates = make(map[int]string, len(templates))
		}
		for code, template := range templates {
			n.statusTemplates[code] = template
		}
	}
}

// ChildOption configures a child node at creation.
type ChildOption func(*Node, *childSink)

// WithTemplate binds the child's template at creation, as if it had been
// passed to the child's first Render call.
func WithTemplate(template string) ChildOption {
	return func(n *Node, _ *childSink) {
		n.template = template
	}
}

// WithTransform filters the child's buffered output before it is spliced
// into the parent's data.
func WithTransform(fn func([]byte) []byte) ChildOption {
	return func(_ *Node, s *childSink) {
		s.transform = fn
	}
}
