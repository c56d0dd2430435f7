// internal/event/registry_test.go
package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func nopResponder() func(*Event) {
	return func(*Event) {}
}

func testNode() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "div"}
}

func TestRegistryEntryLifecycle(t *testing.T) {
	r := newRegistry()
	node := testNode()
	h1 := NewHandler(func(*html.Node, *Event) {})
	h2 := NewHandler(func(*html.Node, *Event) {})

	// Entry appears with the first binding.
	b1 := r.register(1, node, "click", h1, nopResponder)
	require.NotNil(t, b1)
	entry := r.lookup(1)
	require.NotNil(t, entry)
	assert.Same(t, node, entry.node)
	assert.Equal(t, 1, r.bucketLen(1, "click"))

	// Duplicate handler is refused without touching the bucket.
	assert.Nil(t, r.register(1, node, "click", h1, nopResponder))
	assert.Equal(t, 1, r.bucketLen(1, "click"))

	// A distinct handler appends in order.
	b2 := r.register(1, node, "click", h2, nopResponder)
	require.NotNil(t, b2)
	assert.Equal(t, 2, r.bucketLen(1, "click"))
	assert.Same(t, b1, entry.buckets["click"][0])
	assert.Same(t, b2, entry.buckets["click"][1])

	// Removing one binding keeps the entry alive.
	assert.Same(t, b1, r.unregister(1, "click", h1))
	assert.Equal(t, 1, r.bucketLen(1, "click"))
	assert.NotNil(t, r.lookup(1))

	// Removing the last binding of the last bucket removes the entry.
	assert.Same(t, b2, r.unregister(1, "click", h2))
	assert.Nil(t, r.lookup(1))
}

func TestRegistryUnregisterMisses(t *testing.T) {
	r := newRegistry()
	node := testNode()
	h := NewHandler(func(*html.Node, *Event) {})

	assert.Nil(t, r.unregister(7, "click", h), "unknown identity")

	r.register(7, node, "click", h, nopResponder)
	assert.Nil(t, r.unregister(7, "mouseover", h), "unknown event name")
	assert.Nil(t, r.unregister(7, "click", NewHandler(func(*html.Node, *Event) {})), "unknown handler")
	assert.Equal(t, 1, r.bucketLen(7, "click"), "misses leave the bucket intact")
}

func TestRegistryDestroyEventName(t *testing.T) {
	r := newRegistry()
	node := testNode()

	r.register(3, node, "click", NewHandler(func(*html.Node, *Event) {}), nopResponder)
	r.register(3, node, "click", NewHandler(func(*html.Node, *Event) {}), nopResponder)
	r.register(3, node, "keyup", NewHandler(func(*html.Node, *Event) {}), nopResponder)

	removed := r.destroyEventName(3, "click")
	assert.Len(t, removed, 2)
	assert.NotNil(t, r.lookup(3), "other buckets keep the entry alive")

	removed = r.destroyEventName(3, "keyup")
	assert.Len(t, removed, 1)
	assert.Nil(t, r.lookup(3), "destroying the last bucket destroys the entry")

	assert.Nil(t, r.destroyEventName(3, "keyup"), "destroy on a missing entry is a no-op")
}

func TestRegistryDestroyAll(t *testing.T) {
	r := newRegistry()
	node := testNode()

	r.register(5, node, "click", NewHandler(func(*html.Node, *Event) {}), nopResponder)
	r.register(5, node, "ns:thing", NewHandler(func(*html.Node, *Event) {}), nopResponder)

	buckets := r.destroyAll(5)
	assert.Len(t, buckets, 2)
	assert.Len(t, buckets["click"], 1)
	assert.Len(t, buckets["ns:thing"], 1)
	assert.Nil(t, r.lookup(5))

	assert.Nil(t, r.destroyAll(5))
}
