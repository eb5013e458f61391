package view

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/goliatone/go-viewtree/pkg/render"
)

// ErrorHandler receives render failures for a node. Handlers are inherited
// by children at creation time and can be overridden per node afterwards.
type ErrorHandler func(err error)

// The default handler is deliberately fatal so a deployed tree cannot fail
// silently; install a handler on the root before requesting any render.
func defaultErrorHandler(err error) {
	panic(fmt.Errorf("view: unhandled render failure: %w", err))
}

// tree is the state shared by every node of one view tree: the lock that
// makes gate checks atomic with the transitions they guard, and the run
// queue that defers child-to-parent handoffs.
type tree struct {
	mu    sync.Mutex
	queue runQueue
}

// Node is one view in a render tree. A root node writes to the tree's real
// output sink; every other node writes to a buffering adapter that splices
// its output into the parent's data under the node's key.
//
// All exported methods are safe for concurrent use. The data mapping handed
// to a renderer is not copied; callers must not mutate a node's data once
// its render has started.
type Node struct {
	tree *tree

	key    string
	parent *Node
	root   *Node

	// Guarded by tree.mu.
	state           RenderState
	children        map[string]*Node
	data            map[string]any
	contentType     string
	dir             string
	template        string
	onError         ErrorHandler
	statusTemplates map[int]string

	// Immutable after construction.
	sink     render.Sink
	registry *render.Registry
}

// NewRoot creates the root of a new view tree writing to sink. The sink is
// typically an HTTPSink; any render.Sink works, but status and header calls
// are no-ops unless the sink implements ResponseSink.
func NewRoot(registry *render.Registry, sink render.Sink, opts ...Option) *Node {
	n := &Node{
		tree:        &tree{},
		children:    make(map[string]*Node),
		data:        make(map[string]any),
		contentType: "text/html",
		sink:        sink,
		registry:    registry,
	}
	n.root = n
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// CreateChild allocates a child view under key, inheriting the creator's
// content type, template directory, registry and error handler. The child
// writes to a buffering adapter; on completion its output lands in this
// node's data under key. Re-using a key replaces the child reference; output
// already spliced by the previous child stays.
func (n *Node) CreateChild(key string, opts ...ChildOption) *Node {
	t := n.tree
	t.mu.Lock()
	child := &Node{
		tree:        t,
		key:         key,
		parent:      n,
		root:        n.root,
		children:    make(map[string]*Node),
		data:        make(map[string]any),
		contentType: n.contentType,
		dir:         n.dir,
		onError:     n.onError,
		registry:    n.registry,
	}
	sink := &childSink{node: child}
	child.sink = sink
	for _, opt := range opts {
		opt(child, sink)
	}
	n.children[key] = child
	t.mu.Unlock()
	return child
}

// Render requests this node's render with the given template. If children
// are still outstanding the call is a structural no-op: the template is
// remembered (first set wins) and the render fires when the last child
// completes. On a cancelled node the call is a silent no-op.
func (n *Node) Render(template string) {
	n.renderWith(template, false)
}

// ForceRender renders immediately and unconditionally: the subtree is
// cancelled, any in-flight children are discarded, the template binding is
// overwritten, and the render fires regardless of prior state. This is the
// short-circuit the status helpers use.
func (n *Node) ForceRender(template string) {
	n.renderWith(template, true)
}

func (n *Node) renderWith(template string, force bool) {
	t := n.tree
	t.mu.Lock()
	if force {
		for _, child := range n.children {
			child.cancelLocked()
		}
		n.children = make(map[string]*Node)
		if template != "" {
			n.template = template
		}
		n.state = StateRequested
	} else {
		switch n.state {
		case StateNotCalled, StateRequested:
			n.state = StateRequested
		default:
			// Cancelled subtrees never resurrect through an ordinary
			// render call; started and settled nodes keep their state.
			t.mu.Unlock()
			return
		}
		if n.template == "" && template != "" {
			n.template = template
		}
	}
	if !n.gateLocked() {
		t.mu.Unlock()
		return
	}
	job := n.startLocked()
	t.mu.Unlock()
	n.run(job)
}

// reevaluate re-checks the gate after a child completion. Unlike Render it
// never moves the node to Requested: a completing child must not request a
// render its parent has not asked for.
func (n *Node) reevaluate() {
	t := n.tree
	t.mu.Lock()
	if n.state != StateRequested || !n.gateLocked() {
		t.mu.Unlock()
		return
	}
	job := n.startLocked()
	t.mu.Unlock()
	n.run(job)
}

// gateLocked is the single predicate both trigger paths share: Requested,
// and every child Complete.
func (n *Node) gateLocked() bool {
	if n.state != StateRequested {
		return false
	}
	for _, child := range n.children {
		if child.state != StateComplete {
			return false
		}
	}
	return true
}

type renderJob struct {
	registry    *render.Registry
	contentType string
	data        map[string]any
	sink        render.Sink
	path        string
}

func (n *Node) startLocked() renderJob {
	n.state = StateStarted
	path := n.template
	if path != "" && n.dir != "" {
		path = filepath.Join(n.dir, path)
	}
	return renderJob{
		registry:    n.registry,
		contentType: n.contentType,
		data:        n.data,
		sink:        n.sink,
		path:        path,
	}
}

// run performs the renderer build step: registry lookup, instance
// construction, callback wiring, invocation. A missing factory is a
// configuration error and fails the node immediately.
func (n *Node) run(job renderJob) {
	factory, err := job.registry.Get(job.contentType)
	if err != nil {
		n.fail(err)
		return
	}
	r := factory.New(job.data, job.sink)
	r.OnError(n.fail)
	r.OnComplete(n.finish)
	r.Render(job.path)
}

func (n *Node) finish() {
	t := n.tree
	t.mu.Lock()
	if n.state == StateStarted {
		n.state = StateComplete
	}
	t.mu.Unlock()
}

func (n *Node) fail(err error) {
	t := n.tree
	t.mu.Lock()
	switch n.state {
	case StateComplete, StateCancelled:
		t.mu.Unlock()
		return
	}
	n.state = StateFailed
	handler := n.onError
	t.mu.Unlock()

	if handler == nil {
		handler = defaultErrorHandler
	}
	handler(err)
}

// CancelRender prunes this subtree: the node and every descendant move to
// Cancelled and all child mappings are emptied so stale references cannot
// be revisited. Idempotent.
func (n *Node) CancelRender() {
	t := n.tree
	t.mu.Lock()
	n.cancelLocked()
	t.mu.Unlock()
}

func (n *Node) cancelLocked() {
	n.state = StateCancelled
	for _, child := range n.children {
		child.cancelLocked()
	}
	n.children = make(map[string]*Node)
}

// SetStatusCode sets the response status on the tree's real output sink.
// It always targets the root: intermediate buffers have no meaningful
// status.
func (n *Node) SetStatusCode(code int) {
	if rs, ok := n.root.sink.(ResponseSink); ok {
		rs.SetStatus(code)
	}
}

// SetHeader sets a response header on the tree's real output sink.
func (n *Node) SetHeader(name, value string) {
	if rs, ok := n.root.sink.(ResponseSink); ok {
		rs.SetHeader(name, value)
	}
}

// SetHeaders sets a batch of response headers on the tree's real output
// sink.
func (n *Node) SetHeaders(headers map[string]string) {
	for name, value := range headers {
		n.SetHeader(name, value)
	}
}

// Set stores a value in the node's view-local data.
func (n *Node) Set(key string, value any) *Node {
	t := n.tree
	t.mu.Lock()
	n.data[key] = value
	t.mu.Unlock()
	return n
}

// Value reads a value from the node's view-local data.
func (n *Node) Value(key string) (any, bool) {
	t := n.tree
	t.mu.Lock()
	value, ok := n.data[key]
	t.mu.Unlock()
	return value, ok
}

// SetContentType overrides the renderer selection inherited at creation.
func (n *Node) SetContentType(contentType string) *Node {
	t := n.tree
	t.mu.Lock()
	n.contentType = contentType
	t.mu.Unlock()
	return n
}

// SetDir overrides the template directory inherited at creation.
func (n *Node) SetDir(dir string) *Node {
	t := n.tree
	t.mu.Lock()
	n.dir = dir
	t.mu.Unlock()
	return n
}

// SetErrorHandler overrides the failure handler inherited at creation.
func (n *Node) SetErrorHandler(fn ErrorHandler) *Node {
	t := n.tree
	t.mu.Lock()
	n.onError = fn
	t.mu.Unlock()
	return n
}

// State reports the node's current render state.
func (n *Node) State() RenderState {
	t := n.tree
	t.mu.Lock()
	state := n.state
	t.mu.Unlock()
	return state
}

// Root returns the tree's top-most node. The root's Root is itself.
func (n *Node) Root() *Node { return n.root }

// Parent returns the owning node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Key returns the key this node is registered under in its parent, or ""
// for the root.
func (n *Node) Key() string { return n.key }

// Done exposes the root sink's completion channel when the sink provides
// one (HTTPSink does). Handlers that hand off to asynchronous renderers can
// block on it until the response has been ended.
func (n *Node) Done() <-chan struct{} {
	if s, ok := n.root.sink.(interface{ Done() <-chan struct{} }); ok {
		return s.Done()
	}
	return nil
}
