// internal/event/responder.go
package event

import (
	"golang.org/x/net/html"
)

// eventKind is decided once at registration time, not re-derived from the
// name at every dispatch.
type eventKind int

const (
	kindNative eventKind = iota
	kindCustom
)

func kindOf(eventName string) eventKind {
	if IsCustomName(eventName) {
		return kindCustom
	}
	return kindNative
}

// responderFactory builds the closures handed to the dispatch pipeline. A
// responder captures (identity, event name, handler) and nothing else: the
// node is resolved through the registry at dispatch time, so an event caught
// mid-flight after its node's entry was destroyed falls through silently
// instead of invoking a handler on a stale node.
type responderFactory struct {
	// resolve maps an identity to the currently registered node, or nil when
	// the entry has been destroyed.
	resolve func(NodeID) *html.Node
}

func (f *responderFactory) create(id NodeID, eventName string, h Handler) func(*Event) {
	switch kindOf(eventName) {
	case kindCustom:
		return func(ev *Event) {
			node := f.resolve(id)
			if node == nil {
				return
			}
			// Every custom event arrives under the carrier type; only the
			// logical tag decides whether this responder cares.
			if ev.EventName != eventName {
				return
			}
			h.fn(node, ev)
		}
	default:
		return func(ev *Event) {
			node := f.resolve(id)
			if node == nil {
				return
			}
			// A tagged event is a custom one riding the carrier; it belongs
			// to custom responders only, even for listeners registered on
			// the carrier type itself.
			if ev.EventName != "" {
				return
			}
			h.fn(node, ev)
		}
	}
}

// platformTypeFor maps a registered event name to the native type the
// responder listens under: custom names share the carrier.
func platformTypeFor(eventName string) string {
	if IsCustomName(eventName) {
		return CarrierType
	}
	return eventName
}
