package view

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/goliatone/go-viewtree/pkg/render"
)

// ResponseSink extends the renderer sink with the response-level
// capabilities only a tree's real output carries. Child buffers
// deliberately do not implement it: status and header mutations always
// target the root.
type ResponseSink interface {
	render.Sink

	// SetStatus records the response status code. Calls after the first
	// body write have no effect.
	SetStatus(code int)

	// SetHeader sets a response header. Calls after the first body write
	// have no effect.
	SetHeader(name, value string)
}

// HTTPSink adapts an http.ResponseWriter to the ResponseSink contract. The
// status code is buffered until the first write so termination helpers can
// still set it after a render has been requested but before bytes flow.
// End is exactly-once; later calls report the tree as already terminated.
type HTTPSink struct {
	mu     sync.Mutex
	w      http.ResponseWriter
	status int
	wrote  bool
	ended  bool
	done   chan struct{}
}

// NewHTTPSink wraps an http.ResponseWriter.
func NewHTTPSink(w http.ResponseWriter) *HTTPSink {
	return &HTTPSink{w: w, done: make(chan struct{})}
}

func (s *HTTPSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return 0, fmt.Errorf("view: response already ended")
	}
	s.flushStatusLocked()
	return s.w.Write(p)
}

func (s *HTTPSink) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return fmt.Errorf("view: response already ended")
	}
	s.flushStatusLocked()
	s.ended = true
	close(s.done)
	return nil
}

func (s *HTTPSink) SetStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wrote || s.ended {
		return
	}
	s.status = code
}

func (s *HTTPSink) SetHeader(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wrote || s.ended {
		return
	}
	s.w.Header().Set(name, value)
}

// Done is closed when the response has been ended, whether by a completed
// render or a termination helper.
func (s *HTTPSink) Done() <-chan struct{} { return s.done }

func (s *HTTPSink) flushStatusLocked() {
	if s.wrote {
		return
	}
	s.wrote = true
	if s.status != 0 {
		s.w.WriteHeader(s.status)
	}
}
