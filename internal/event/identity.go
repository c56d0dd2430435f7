// internal/event/identity.go
package event

import (
	"sync"

	"golang.org/x/net/html"
)

// NodeID is the integer surrogate key assigned to a node the first time it is
// observed. It stays stable for the node's observed lifetime and is what
// responders capture instead of the node itself.
type NodeID int

// documentID is reserved for the document node the engine was built around.
const documentID NodeID = 0

// identityTable assigns identities lazily, out of band. The original kept the
// id stashed as a hidden property on the host object; a side table avoids
// mutating foreign nodes and keeps the tree pristine for other consumers.
//
// Identities are never reclaimed: once a node has been observed its id stays
// valid for as long as the table lives, so re-observing a fully unregistered
// node yields the same id. Registry entries, not identities, are what get
// cleaned up on unregistration.
type identityTable struct {
	mu       sync.Mutex
	document *html.Node
	ids      map[*html.Node]NodeID
	next     NodeID
}

func newIdentityTable(document *html.Node) *identityTable {
	return &identityTable{
		document: document,
		ids:      make(map[*html.Node]NodeID),
		next:     documentID + 1,
	}
}

// identityOf returns the node's identity, allocating the next sequential one
// on first sight. The document node is always documentID.
func (t *identityTable) identityOf(n *html.Node) NodeID {
	if n == t.document {
		return documentID
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.ids[n]; ok {
		return id
	}
	id := t.next
	t.next++
	t.ids[n] = id
	return id
}
