package view

import (
	"net/http"
	"strings"
)

// The status helpers terminate a tree from any node: cancel the root's
// entire subtree, set the status (and any headers or payload) on the real
// output, then either force-render an override template on the root or end
// the response bodyless. Once a tree has been terminated no further render
// or status calls are defined.

// StatusNotFound terminates the tree with 404 Not Found. With an override
// template (explicit, or configured via WithStatusTemplates) the root
// force-renders it; otherwise the response ends bodyless.
func (n *Node) StatusNotFound(template string) {
	n.terminate(http.StatusNotFound, nil, nil, template)
}

// StatusError terminates the tree with 500 Internal Server Error, making
// err available to the override template under "error".
func (n *Node) StatusError(err error, template string) {
	n.terminate(http.StatusInternalServerError, nil, map[string]any{"error": err}, template)
}

// StatusCreated terminates the tree with 201 Created and a Location header.
func (n *Node) StatusCreated(location string) {
	n.terminate(http.StatusCreated, map[string]string{"Location": location}, nil, "")
}

// StatusRedirect terminates the tree with 302 Found and a Location header.
func (n *Node) StatusRedirect(location string) {
	n.terminate(http.StatusFound, map[string]string{"Location": location}, nil, "")
}

// StatusNotModified terminates the tree with 304 Not Modified.
func (n *Node) StatusNotModified() {
	n.terminate(http.StatusNotModified, nil, nil, "")
}

// StatusMethodNotAllowed terminates the tree with 405 Method Not Allowed,
// advertising the permitted methods when given.
func (n *Node) StatusMethodNotAllowed(allow ...string) {
	var headers map[string]string
	if len(allow) > 0 {
		headers = map[string]string{"Allow": strings.Join(allow, ", ")}
	}
	n.terminate(http.StatusMethodNotAllowed, headers, nil, "")
}

// StatusUnauthorized terminates the tree with 401 Unauthorized.
func (n *Node) StatusUnauthorized(template string) {
	n.terminate(http.StatusUnauthorized, nil, nil, template)
}

func (n *Node) terminate(code int, headers map[string]string, payload map[string]any, template string) {
	root := n.root
	t := n.tree
	t.mu.Lock()
	root.cancelLocked()
	if template == "" {
		template = root.statusTemplates[code]
	}
	for key, value := range payload {
		root.data[key] = value
	}
	t.mu.Unlock()

	root.SetStatusCode(code)
	for name, value := range headers {
		root.SetHeader(name, value)
	}
	if template == "" {
		_ = root.sink.End()
		return
	}
	root.ForceRender(template)
}
