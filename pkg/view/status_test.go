package view_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/goliatone/go-viewtree/pkg/render"
	"github.com/goliatone/go-viewtree/pkg/view"
)

func TestStatusErrorFromNestedChildTerminatesRoot(t *testing.T) {
	// statusError on a deeply nested node cancels the whole tree and ends
	// the root's sink with 500, however many siblings were pending.
	factory := newManualFactory()
	sink := newTestSink()
	root := view.NewRoot(registryWith(t, factory), sink, view.WithErrorHandler(failHandler(t)))

	sibling := root.CreateChild("sibling", view.WithTemplate("sibling"))
	child := root.CreateChild("child")
	grandchild := child.CreateChild("grandchild")
	sibling.Render("")
	root.Render("layout")

	grandchild.StatusError(errors.New("db down"), "")

	_, status, ended := sink.snapshot()
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	if !ended {
		t.Fatal("root sink was not ended")
	}
	for name, node := range map[string]*view.Node{
		"root": root, "sibling": sibling, "child": child, "grandchild": grandchild,
	} {
		if got := node.State(); got != view.StateCancelled {
			t.Fatalf("%s state = %v, want %v", name, got, view.StateCancelled)
		}
	}

	// The pending sibling completing later has no effect on the ended tree.
	factory.byPath("sibling").finish(t, "late")
	if factory.byPath("layout") != nil {
		t.Fatal("terminated root must not render")
	}
}

func TestStatusErrorWithOverrideTemplate(t *testing.T) {
	factory := newManualFactory()
	sink := newTestSink()
	root := view.NewRoot(registryWith(t, factory), sink, view.WithErrorHandler(failHandler(t)))

	boom := errors.New("boom")
	root.StatusError(boom, "error")

	r := factory.byPath("error")
	if r == nil {
		t.Fatal("override template was not force-rendered")
	}
	if got := r.data["error"]; got != boom {
		t.Fatalf("data[error] = %v, want %v", got, boom)
	}
	r.finish(t, "oops")

	body, status, ended := sink.snapshot()
	if status != http.StatusInternalServerError || body != "oops" || !ended {
		t.Fatalf("sink = (%q, %d, %v), want (oops, 500, true)", body, status, ended)
	}
}

func TestStatusNotFoundUsesConfiguredTemplate(t *testing.T) {
	factory := newManualFactory()
	sink := newTestSink()
	root := view.NewRoot(registryWith(t, factory), sink,
		view.WithErrorHandler(failHandler(t)),
		view.WithStatusTemplates(map[int]string{http.StatusNotFound: "missing"}))

	root.StatusNotFound("")

	r := factory.byPath("missing")
	if r == nil {
		t.Fatal("configured status template was not force-rendered")
	}
	r.finish(t, "gone")

	_, status, _ := sink.snapshot()
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestStatusNotFoundWithoutTemplateEndsBodyless(t *testing.T) {
	sink := newTestSink()
	root := view.NewRoot(render.NewRegistry(), sink)

	root.StatusNotFound("")

	body, status, ended := sink.snapshot()
	if body != "" || status != http.StatusNotFound || !ended {
		t.Fatalf("sink = (%q, %d, %v), want (empty, 404, true)", body, status, ended)
	}
}

func TestStatusRedirectSetsLocation(t *testing.T) {
	sink := newTestSink()
	root := view.NewRoot(render.NewRegistry(), sink)

	root.StatusRedirect("/login")

	if got := sink.headers["Location"]; got != "/login" {
		t.Fatalf("Location = %q, want /login", got)
	}
	if sink.status != http.StatusFound {
		t.Fatalf("status = %d, want 302", sink.status)
	}
	if !sink.ended {
		t.Fatal("sink was not ended")
	}
}

func TestStatusCreatedSetsLocation(t *testing.T) {
	sink := newTestSink()
	root := view.NewRoot(render.NewRegistry(), sink)

	root.StatusCreated("/things/42")

	if got := sink.headers["Location"]; got != "/things/42" {
		t.Fatalf("Location = %q, want /things/42", got)
	}
	if sink.status != http.StatusCreated {
		t.Fatalf("status = %d, want 201", sink.status)
	}
}

func TestStatusNotModified(t *testing.T) {
	sink := newTestSink()
	root := view.NewRoot(render.NewRegistry(), sink)

	root.StatusNotModified()

	if sink.status != http.StatusNotModified || !sink.ended {
		t.Fatalf("sink = (%d, ended=%v), want (304, true)", sink.status, sink.ended)
	}
}

func TestStatusMethodNotAllowedAdvertisesMethods(t *testing.T) {
	sink := newTestSink()
	root := view.NewRoot(render.NewRegistry(), sink)

	root.StatusMethodNotAllowed("GET", "HEAD")

	if got := sink.headers["Allow"]; got != "GET, HEAD" {
		t.Fatalf("Allow = %q, want %q", got, "GET, HEAD")
	}
	if sink.status != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", sink.status)
	}
}

func TestStatusUnauthorized(t *testing.T) {
	sink := newTestSink()
	root := view.NewRoot(render.NewRegistry(), sink)

	root.StatusUnauthorized("")

	if sink.status != http.StatusUnauthorized || !sink.ended {
		t.Fatalf("sink = (%d, ended=%v), want (401, true)", sink.status, sink.ended)
	}
}
