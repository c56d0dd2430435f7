// internal/event/delegation.go
package event

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/lancet/internal/dom"
)

// DelegateFunc is the callback invoked when a delegated event matches. root
// is the node the delegation observes, match the nearest matching descendant
// (or the adjusted event target when no selector was configured).
type DelegateFunc func(root *html.Node, ev *Event, match *html.Node)

// Delegation observes one event name on a root node and filters each
// occurrence to the nearest ancestor of the event target matching a CSS
// selector. One listener on the root replaces one per descendant.
//
// A Delegation starts inert. Start attaches it, Stop detaches it, and the
// cycle may repeat indefinitely; nothing tears it down implicitly, so callers
// own calling Stop when done.
type Delegation struct {
	engine    *Engine
	log       *zap.Logger
	id        string
	root      *html.Node
	eventName string
	selector  *dom.Selector // nil: no filtering beyond target adjustment
	callback  DelegateFunc
	raw       Handler

	mu        sync.Mutex
	observing bool
}

// NewDelegation builds an inert delegation. selector may be empty, in which
// case the callback receives the (element-adjusted) event target itself.
func (e *Engine) NewDelegation(root *html.Node, eventName, selector string, cb DelegateFunc) (*Delegation, error) {
	var sel *dom.Selector
	if selector != "" {
		compiled, err := dom.CompileSelector(selector)
		if err != nil {
			return nil, &SelectorError{Selector: selector, Err: err}
		}
		sel = compiled
	}
	d := &Delegation{
		engine:    e,
		log:       e.log.Named("delegation"),
		id:        uuid.NewString(),
		root:      root,
		eventName: eventName,
		selector:  sel,
		callback:  cb,
	}
	d.raw = NewHandler(d.handleEvent)
	return d, nil
}

// On builds a delegation and starts it immediately. The returned handle is
// how the caller later stops it.
func (e *Engine) On(root *html.Node, eventName, selector string, cb DelegateFunc) (*Delegation, error) {
	d, err := e.NewDelegation(root, eventName, selector, cb)
	if err != nil {
		return nil, err
	}
	d.Start()
	return d, nil
}

// ID returns the delegation's debug identifier.
func (d *Delegation) ID() string { return d.id }

// Root returns the node the delegation observes.
func (d *Delegation) Root() *html.Node { return d.root }

// Observing reports whether the delegation is currently attached.
func (d *Delegation) Observing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.observing
}

// Start attaches the delegation. Starting twice is harmless: the underlying
// Observe de-duplicates by handler identity anyway.
func (d *Delegation) Start() *Delegation {
	d.mu.Lock()
	if d.observing {
		d.mu.Unlock()
		return d
	}
	d.observing = true
	d.mu.Unlock()

	d.engine.Observe(d.root, d.eventName, d.raw)
	d.log.Debug("delegation started",
		zap.String("id", d.id),
		zap.String("event", d.eventName),
		zap.String("selector", d.selectorString()))
	return d
}

// Stop detaches the delegation. It may be started again later.
func (d *Delegation) Stop() *Delegation {
	d.mu.Lock()
	if !d.observing {
		d.mu.Unlock()
		return d
	}
	d.observing = false
	d.mu.Unlock()

	d.engine.StopObserving(d.root, d.eventName, d.raw)
	d.log.Debug("delegation stopped", zap.String("id", d.id))
	return d
}

func (d *Delegation) selectorString() string {
	if d.selector == nil {
		return ""
	}
	return d.selector.String()
}

// handleEvent is the raw handler registered on the root. It resolves the
// event to an element and walks the ancestor chain up to and including the
// root looking for the nearest selector match.
func (d *Delegation) handleEvent(_ *html.Node, ev *Event) {
	match := d.findElement(ev)
	if match == nil {
		return
	}
	d.callback(d.root, ev, match)
}

func (d *Delegation) findElement(ev *Event) *html.Node {
	start := elementForEvent(ev)
	if start == nil {
		return nil
	}
	if d.selector == nil {
		return start
	}
	for n := start; n != nil; n = n.Parent {
		if d.selector.Match(n) {
			return n
		}
		if n == d.root {
			break
		}
	}
	return nil
}

// elementForEvent maps an event to the element a delegated listener should
// reason about. Text-node targets resolve to their parent element, and a few
// event types are known to report the wrong target, so the current target is
// substituted: load and error, and click on a radio input.
func elementForEvent(ev *Event) *html.Node {
	node := ev.Target
	if ct := ev.CurrentTarget; dom.IsElement(ct) {
		switch {
		case ev.Type == "load" || ev.Type == "error":
			node = ct
		case ev.Type == "click" && strings.EqualFold(ct.Data, "input") && strings.EqualFold(dom.Attr(ct, "type"), "radio"):
			node = ct
		}
	}
	return dom.ElementOf(node)
}
