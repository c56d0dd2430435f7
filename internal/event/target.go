// internal/event/target.go
package event

import (
	"sync"

	"golang.org/x/net/html"
)

// platform is the low-level listener mechanism the engine attaches responders
// to. In a real browser this half lives in the host; in a headless tree it
// has to exist here: per-node listener tables keyed by native event type, and
// a synchronous dispatch that runs the at-target phase and then bubbles the
// event up the parent chain.
//
// Dispatch iterates over a snapshot of each node's listener list, so a
// responder may attach or detach listeners (including itself) while an event
// is in flight without corrupting the iteration.
type platformListener struct {
	id      uint64
	respond func(*Event)
}

type platform struct {
	mu    sync.RWMutex
	seq   uint64
	nodes map[*html.Node]map[string][]platformListener
}

func newPlatform() *platform {
	return &platform{nodes: make(map[*html.Node]map[string][]platformListener)}
}

// attach registers respond for (node, typ) and returns a token for detach.
func (p *platform) attach(node *html.Node, typ string, respond func(*Event)) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := p.nodes[node]
	if types == nil {
		types = make(map[string][]platformListener)
		p.nodes[node] = types
	}
	p.seq++
	types[typ] = append(types[typ], platformListener{id: p.seq, respond: respond})
	return p.seq
}

// detach removes the listener registered under the given token. Unknown
// tokens are ignored.
func (p *platform) detach(node *html.Node, typ string, id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := p.nodes[node]
	if types == nil {
		return
	}
	listeners := types[typ]
	for i, l := range listeners {
		if l.id == id {
			types[typ] = append(listeners[:i:i], listeners[i+1:]...)
			break
		}
	}
	if len(types[typ]) == 0 {
		delete(types, typ)
	}
	if len(types) == 0 {
		delete(p.nodes, node)
	}
}

// listenerCount reports how many listeners are attached for (node, typ).
func (p *platform) listenerCount(node *html.Node, typ string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.nodes[node][typ])
}

// dispatch delivers ev synchronously: first on target, then, if the event
// bubbles, on each ancestor in turn. StopPropagation finishes the current
// node but goes no further; StopImmediatePropagation halts mid-node.
func (p *platform) dispatch(target *html.Node, ev *Event) {
	ev.Target = target
	for node := target; node != nil; node = node.Parent {
		ev.CurrentTarget = node
		p.invoke(node, ev)
		if !ev.Bubbles || ev.propagationStopped {
			break
		}
	}
}

func (p *platform) invoke(node *html.Node, ev *Event) {
	p.mu.RLock()
	listeners := p.nodes[node][ev.Type]
	snapshot := make([]platformListener, len(listeners))
	copy(snapshot, listeners)
	p.mu.RUnlock()

	for _, l := range snapshot {
		if ev.immediateStopped {
			return
		}
		l.respond(ev)
	}
}
