// internal/event/handler.go
package event

import (
	"sync/atomic"

	"golang.org/x/net/html"
)

// HandlerFunc is the user-facing callback signature. The node the event
// resolved to is passed explicitly; it is the engine-side equivalent of the
// listener's invocation context.
type HandlerFunc func(node *html.Node, ev *Event)

// Handler pairs a callback with a process-unique id. Go functions cannot be
// compared for equality, so observe/stopObserving match handlers by this id:
// the Handler value returned by NewHandler must be kept and passed back to
// remove the listener, the same way the original API required the same
// function reference.
type Handler struct {
	id uint64
	fn HandlerFunc
}

var handlerSeq atomic.Uint64

// NewHandler wraps fn into a comparable Handler. Each call yields a distinct
// identity, even for the same underlying function.
func NewHandler(fn HandlerFunc) Handler {
	if fn == nil {
		return Handler{}
	}
	return Handler{id: handlerSeq.Add(1), fn: fn}
}

// IsZero reports whether h carries no callback. The zero Handler is used as
// the "no handler given" arity marker.
func (h Handler) IsZero() bool { return h.fn == nil }

// Equal reports whether two Handler values denote the same registration
// identity.
func (h Handler) Equal(o Handler) bool { return h.fn != nil && h.id == o.id }
