package render

import "sync"

// Notifier implements the signal half of the Renderer contract. Engines
// embed it and call Complete or Fail once; Notifier holds a signal raised
// before the matching handler is attached and delivers it on attachment, so
// the signal is never lost. Only the first signal counts.
type Notifier struct {
	mu         sync.Mutex
	onComplete func()
	onError    func(error)
	signalled  bool
	failed     bool
	err        error
	delivered  bool
}

// OnComplete registers the completion handler, delivering a buffered
// completion signal if one arrived first.
func (n *Notifier) OnComplete(fn func()) {
	n.mu.Lock()
	n.onComplete = fn
	deliver := n.pendingCompleteLocked()
	n.mu.Unlock()

	if deliver && fn != nil {
		fn()
	}
}

// OnError registers the failure handler, delivering a buffered failure
// signal if one arrived first.
func (n *Notifier) OnError(fn func(error)) {
	n.mu.Lock()
	n.onError = fn
	deliver := n.pendingErrorLocked()
	err := n.err
	n.mu.Unlock()

	if deliver && fn != nil {
		fn(err)
	}
}

// Complete signals a successful render. Signals after the first are
// ignored.
func (n *Notifier) Complete() {
	n.mu.Lock()
	if n.signalled {
		n.mu.Unlock()
		return
	}
	n.signalled = true
	fn := n.onComplete
	if fn != nil {
		n.delivered = true
	}
	n.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Fail signals a render failure. Signals after the first are ignored.
func (n *Notifier) Fail(err error) {
	n.mu.Lock()
	if n.signalled {
		n.mu.Unlock()
		return
	}
	n.signalled = true
	n.failed = true
	n.err = err
	fn := n.onError
	if fn != nil {
		n.delivered = true
	}
	n.mu.Unlock()

	if fn != nil {
		fn(err)
	}
}

func (n *Notifier) pendingCompleteLocked() bool {
	if n.signalled && !n.failed && !n.delivered {
		n.delivered = true
		return true
	}
	return false
}

func (n *Notifier) pendingErrorLocked() bool {
	if n.signalled && n.failed && !n.delivered {
		n.delivered = true
		return true
	}
	return false
}
