// internal/event/event.go
package event

import (
	"strings"
	"time"

	"golang.org/x/net/html"
)

// CarrierType is the single native event type used to transport every custom
// event through the dispatch pipeline. Custom event names are not valid
// native types, so they ride this generic carrier and are matched by the
// logical EventName tag instead.
const CarrierType = "dataavailable"

// NamespaceSeparator distinguishes custom event names ("app:ready") from
// native ones ("click").
const NamespaceSeparator = ":"

// DOMLoaded is the reserved custom event fired exactly once on the document,
// the first time either "DOMContentLoaded" or "load" reaches it.
const DOMLoaded = "dom:loaded"

// IsCustomName reports whether eventName denotes a custom (simulated) event.
func IsCustomName(eventName string) bool {
	return strings.Contains(eventName, NamespaceSeparator)
}

// Event is a single dispatched occurrence travelling through the node tree.
//
// For native events Type is the real event type and EventName is empty. For
// custom events Type is always CarrierType and EventName carries the logical
// name the event was fired under.
type Event struct {
	// Type is the platform-level event type ("click", "load", CarrierType).
	Type string

	// EventName is the logical custom-event tag, empty for native events.
	EventName string

	// Memo is the caller-supplied payload of a custom event. Fire defaults it
	// to an empty map so handlers can always index into it.
	Memo any

	// Target is the node the event originated on. It does not change while
	// the event bubbles.
	Target *html.Node

	// CurrentTarget is the node whose listeners are currently being invoked.
	CurrentTarget *html.Node

	// Bubbles controls whether the event propagates to ancestors of Target.
	Bubbles bool

	// Cancelable controls whether PreventDefault has any effect.
	Cancelable bool

	// Timestamp records when the event was created.
	Timestamp time.Time

	defaultPrevented   bool
	propagationStopped bool
	immediateStopped   bool
}

// IsCustom reports whether the event is a custom (simulated) one.
func (e *Event) IsCustom() bool { return e.EventName != "" }

// Name returns the logical name of the event: EventName for custom events,
// Type otherwise.
func (e *Event) Name() string {
	if e.EventName != "" {
		return e.EventName
	}
	return e.Type
}

// PreventDefault marks the default action as cancelled. It is a no-op unless
// the event is cancelable.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation keeps the event from reaching further ancestors. Remaining
// listeners on the current node still run.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// StopImmediatePropagation halts dispatch entirely: no further listener runs,
// on this node or any ancestor.
func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediateStopped = true
}

// PropagationStopped reports whether StopPropagation or
// StopImmediatePropagation was called.
func (e *Event) PropagationStopped() bool { return e.propagationStopped }
