package view

// RenderState tracks where a node is in its render lifecycle. States only
// advance forward, except for the Cancelled override, and Complete and
// Cancelled are terminal.
type RenderState int

const (
	// StateNotCalled is the initial state: no render has been requested.
	StateNotCalled RenderState = iota

	// StateRequested means a render was requested but the gate has not
	// opened yet (children outstanding).
	StateRequested

	// StateStarted means the gate opened and the renderer is producing
	// output. A node enters Started at most once.
	StateStarted

	// StateComplete means the node's output has been produced and, for a
	// child, spliced into its parent's data.
	StateComplete

	// StateFailed means the renderer reported a failure.
	StateFailed

	// StateCancelled means the node was pruned from the tree. Ordinary
	// render calls on a cancelled node are silent no-ops.
	StateCancelled
)

func (s RenderState) String() string {
	switch s {
	case StateNotCalled:
		return "not-called"
	case StateRequested:
		return "requested"
	case StateStarted:
		return "started"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
