// internal/event/dispatcher.go
package event

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/lancet/internal/dom"
)

// Options configures an Engine.
type Options struct {
	// Logger receives debug/warn output. Defaults to a nop logger.
	Logger *zap.Logger

	// MaxListenersWarning, when positive, logs a warning once a single
	// (node, event name) bucket grows past this many bindings.
	MaxListenersWarning int
}

// Engine is the event dispatcher for one document tree. It composes the
// identity table, the registry, the responder factory and the platform
// listener mechanism behind the observe / stopObserving / fire surface.
//
// All operations are synchronous and safe for concurrent use. The engine's
// lock is never held while user handlers run, so handlers may freely observe
// and unobserve nodes, including the one currently dispatching.
type Engine struct {
	log      *zap.Logger
	doc      *html.Node
	ids      *identityTable
	platform *platform
	factory  *responderFactory

	mu  sync.Mutex // guards reg
	reg *registry

	maxListeners int

	readyMu sync.Mutex
	ready   bool
}

// NewEngine builds an engine rooted at the given document node and installs
// the one-shot "dom:loaded" relay on it.
func NewEngine(doc *html.Node, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		log:          logger.Named("event"),
		doc:          doc,
		ids:          newIdentityTable(doc),
		platform:     newPlatform(),
		reg:          newRegistry(),
		maxListeners: opts.MaxListenersWarning,
	}
	e.factory = &responderFactory{resolve: e.liveNode}
	e.installLoadedRelay()
	return e
}

// Document returns the node the engine treats as the document root.
func (e *Engine) Document() *html.Node { return e.doc }

// liveNode resolves an identity to the currently registered node. It returns
// nil once the node's entry has been destroyed, which is how an in-flight
// responder notices it lost the race against unregistration.
func (e *Engine) liveNode(id NodeID) *html.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry := e.reg.lookup(id); entry != nil {
		return entry.node
	}
	return nil
}

// Observe registers h for eventName on node. Registering the same Handler
// value twice for the same (node, eventName) is a no-op. Handlers fire in
// registration order. The node is returned for chaining.
func (e *Engine) Observe(node *html.Node, eventName string, h Handler) *html.Node {
	if node == nil || eventName == "" || h.IsZero() {
		return node
	}
	id := e.ids.identityOf(node)

	e.mu.Lock()
	b := e.reg.register(id, node, eventName, h, func() func(*Event) {
		return e.factory.create(id, eventName, h)
	})
	if b == nil {
		e.mu.Unlock()
		return node
	}
	b.platformType = platformTypeFor(eventName)
	b.platformID = e.platform.attach(node, b.platformType, b.responder)
	size := e.reg.bucketLen(id, eventName)
	e.mu.Unlock()

	if e.maxListeners > 0 && size > e.maxListeners {
		e.log.Warn("listener bucket exceeds threshold",
			zap.String("event", eventName),
			zap.String("node", dom.NodePath(node)),
			zap.Int("listeners", size),
			zap.Int("threshold", e.maxListeners))
	}
	return node
}

// StopObserving removes the single binding for (node, eventName, h). Unknown
// combinations are a no-op.
func (e *Engine) StopObserving(node *html.Node, eventName string, h Handler) *html.Node {
	if node == nil || eventName == "" || h.IsZero() {
		return node
	}
	id := e.ids.identityOf(node)

	e.mu.Lock()
	b := e.reg.unregister(id, eventName, h)
	if b != nil {
		e.platform.detach(node, b.platformType, b.platformID)
	}
	e.mu.Unlock()
	return node
}

// StopObservingEvent removes every binding node has for eventName.
func (e *Engine) StopObservingEvent(node *html.Node, eventName string) *html.Node {
	if node == nil || eventName == "" {
		return node
	}
	id := e.ids.identityOf(node)

	e.mu.Lock()
	for _, b := range e.reg.destroyEventName(id, eventName) {
		e.platform.detach(node, b.platformType, b.platformID)
	}
	e.mu.Unlock()
	return node
}

// StopObservingAll removes every binding for every event name on node.
func (e *Engine) StopObservingAll(node *html.Node) *html.Node {
	if node == nil {
		return node
	}
	id := e.ids.identityOf(node)

	e.mu.Lock()
	for _, bucket := range e.reg.destroyAll(id) {
		for _, b := range bucket {
			e.platform.detach(node, b.platformType, b.platformID)
		}
	}
	e.mu.Unlock()
	return node
}

// Fire creates a custom event named eventName carrying memo and dispatches it
// synchronously on node. Every matching responder has run by the time Fire
// returns. eventName must contain the namespace separator; a nil memo becomes
// an empty map; bubbles controls ancestor propagation (the conventional
// choice is true).
func (e *Engine) Fire(node *html.Node, eventName string, memo any, bubbles bool) (*Event, error) {
	if node == nil {
		return nil, nil
	}
	if !IsCustomName(eventName) {
		return nil, fmt.Errorf("fire %q: %w", eventName, ErrInvalidEventName)
	}
	if memo == nil {
		memo = map[string]any{}
	}
	ev := &Event{
		Type:      CarrierType,
		EventName: eventName,
		Memo:      memo,
		Bubbles:   bubbles,
		Timestamp: time.Now(),
	}
	e.platform.dispatch(node, ev)
	return ev, nil
}

// DispatchNative synthesizes a native event of the given type on node and
// runs it through the same dispatch pipeline custom events use. This is the
// injection point for an embedding browser layer (or a test) standing in for
// real user input.
func (e *Engine) DispatchNative(node *html.Node, eventType string, bubbles bool) *Event {
	if node == nil || eventType == "" {
		return nil
	}
	ev := &Event{
		Type:      eventType,
		Bubbles:   bubbles,
		Timestamp: time.Now(),
	}
	e.platform.dispatch(node, ev)
	return ev
}

// -- Document-level aliases --

// ObserveDocument registers h for eventName on the document node.
func (e *Engine) ObserveDocument(eventName string, h Handler) *html.Node {
	return e.Observe(e.doc, eventName, h)
}

// StopObservingDocument removes the binding for (document, eventName, h).
func (e *Engine) StopObservingDocument(eventName string, h Handler) *html.Node {
	return e.StopObserving(e.doc, eventName, h)
}

// FireDocument fires a custom event on the document node.
func (e *Engine) FireDocument(eventName string, memo any, bubbles bool) (*Event, error) {
	return e.Fire(e.doc, eventName, memo, bubbles)
}

// OnDocument starts a delegation rooted at the document node.
func (e *Engine) OnDocument(eventName, selector string, cb DelegateFunc) (*Delegation, error) {
	return e.On(e.doc, eventName, selector, cb)
}
