package view

import (
	"bytes"
	"sync"
)

// childSink is the synthetic output sink handed to a child view in place of
// the tree's real output. Writes accumulate in call order; End splices the
// buffered content into the parent's data under the child's key and hands
// the parent's gate re-evaluation to the run queue.
type childSink struct {
	node      *Node
	transform func([]byte) []byte

	mu    sync.Mutex
	buf   bytes.Buffer
	ended bool
}

func (c *childSink) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ended {
		return len(p), nil
	}
	return c.buf.Write(p)
}

func (c *childSink) End() error {
	c.mu.Lock()
	if c.ended {
		c.mu.Unlock()
		return nil
	}
	c.ended = true
	out := append([]byte(nil), c.buf.Bytes()...)
	c.mu.Unlock()

	if c.transform != nil {
		out = c.transform(out)
	}

	n := c.node
	t := n.tree
	t.mu.Lock()
	if n.state != StateStarted {
		// The child was cancelled mid-render; its output has no defined
		// destination.
		t.mu.Unlock()
		return nil
	}
	n.state = StateComplete
	parent := n.parent
	if parent == nil || parent.children[n.key] != n {
		// Replaced under its key or detached by a force render.
		t.mu.Unlock()
		return nil
	}
	parent.data[n.key] = string(out)
	t.mu.Unlock()

	// Queue the parent's re-evaluation instead of recursing: other
	// same-turn completions settle first and stack depth stays bounded on
	// deep trees.
	t.queue.post(parent.reevaluate)
	return nil
}
