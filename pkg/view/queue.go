package view

import "sync"

// runQueue serializes deferred tree work. Tasks run to completion in FIFO
// order; tasks posted while a drain is in progress are picked up by the
// draining goroutine after the current task returns. This is what keeps a
// child-completion handoff off the caller's stack: a completion never
// recurses into the parent's render, it queues the re-evaluation and lets
// any other same-turn completions settle first.
type runQueue struct {
	mu       sync.Mutex
	tasks    []func()
	draining bool
}

func (q *runQueue) post(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	for len(q.tasks) > 0 {
		next := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		next()
		q.mu.Lock()
	}
	q.draining = false
	q.mu.Unlock()
}
