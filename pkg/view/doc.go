// Package view coordinates the asynchronous rendering of a tree of views.
// Each node may hold named child views that complete in arbitrary order;
// the node's own render is gated until every child has spliced its output
// into the node's data, and the final write to the tree's real output
// happens exactly once regardless of completion order.
//
// The coordination protocol is a per-node state machine (NotCalled →
// Requested → Started → Complete | Failed, with a forced Cancelled
// override) plus one gating predicate: a node may start only when it is
// Requested and every child is Complete. Whichever of "parent requested a
// render" and "last child completed" is observed second fires the real
// render; the check and the Started transition are atomic under the tree's
// lock, so two triggers can never both fire it.
package view
