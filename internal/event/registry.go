// internal/event/registry.go
package event

import (
	"golang.org/x/net/html"
)

// binding pairs a user handler with the responder that was attached to the
// dispatch pipeline on its behalf. The platform fields record where the
// responder was attached so unregistration can detach it again.
type binding struct {
	handler      Handler
	responder    func(*Event)
	platformType string
	platformID   uint64
}

// registryEntry is the per-node record: the live node plus one ordered bucket
// of bindings per event name. An entry exists if and only if the node has at
// least one active binding.
type registryEntry struct {
	node    *html.Node
	buckets map[string][]*binding
}

// registry maps node identities to their entries. It owns entry lifecycle and
// nothing else; attaching and detaching responders is the caller's job. All
// methods must run under the engine's lock.
type registry struct {
	entries map[NodeID]*registryEntry
}

func newRegistry() *registry {
	return &registry{entries: make(map[NodeID]*registryEntry)}
}

func (r *registry) getOrCreate(id NodeID, node *html.Node) *registryEntry {
	entry, ok := r.entries[id]
	if !ok {
		entry = &registryEntry{
			node:    node,
			buckets: make(map[string][]*binding),
		}
		r.entries[id] = entry
	}
	return entry
}

// lookup returns the entry for id, or nil. Responders use this at dispatch
// time to recover the live node.
func (r *registry) lookup(id NodeID) *registryEntry {
	return r.entries[id]
}

// register appends a new binding for (id, eventName, h) and returns it. If an
// identical handler is already bound for that event name the call is a no-op
// and returns nil. The responder is built lazily via build so that duplicate
// registrations allocate nothing.
func (r *registry) register(id NodeID, node *html.Node, eventName string, h Handler, build func() func(*Event)) *binding {
	entry := r.getOrCreate(id, node)
	bucket := entry.buckets[eventName]
	for _, b := range bucket {
		if b.handler.Equal(h) {
			return nil
		}
	}
	b := &binding{handler: h, responder: build()}
	entry.buckets[eventName] = append(bucket, b)
	return b
}

// unregister removes the binding matching h from the (id, eventName) bucket
// and returns it for platform detachment. Empty buckets are deleted, and an
// entry whose last bucket went away is deleted with them. Misses return nil.
func (r *registry) unregister(id NodeID, eventName string, h Handler) *binding {
	entry := r.entries[id]
	if entry == nil {
		return nil
	}
	bucket := entry.buckets[eventName]
	for i, b := range bucket {
		if b.handler.Equal(h) {
			entry.buckets[eventName] = append(bucket[:i:i], bucket[i+1:]...)
			if len(entry.buckets[eventName]) == 0 {
				delete(entry.buckets, eventName)
			}
			if len(entry.buckets) == 0 {
				delete(r.entries, id)
			}
			return b
		}
	}
	return nil
}

// destroyEventName deletes one bucket wholesale, returning its bindings so
// every responder can be detached. Destroying the last bucket destroys the
// entry.
func (r *registry) destroyEventName(id NodeID, eventName string) []*binding {
	entry := r.entries[id]
	if entry == nil {
		return nil
	}
	bucket := entry.buckets[eventName]
	delete(entry.buckets, eventName)
	if len(entry.buckets) == 0 {
		delete(r.entries, id)
	}
	return bucket
}

// destroyAll deletes the whole entry for id and returns its buckets for
// platform detachment. No-op when the node was never registered.
func (r *registry) destroyAll(id NodeID) map[string][]*binding {
	entry := r.entries[id]
	if entry == nil {
		return nil
	}
	delete(r.entries, id)
	return entry.buckets
}

// bucketLen reports the current number of bindings for (id, eventName).
func (r *registry) bucketLen(id NodeID, eventName string) int {
	entry := r.entries[id]
	if entry == nil {
		return 0
	}
	return len(entry.buckets[eventName])
}
