// internal/event/doc.go

// Package event is the registration and dispatch engine for headless DOM
// trees. It keeps a per-node registry of handlers, routes both native and
// custom (namespaced) events through a synchronous bubbling pipeline, and
// supports CSS-selector delegation on ancestor nodes.
//
// The design splits responsibilities the way leak-averse browser code does:
// responders attached to the dispatch pipeline capture only an integer node
// identity and resolve the live node through the registry at dispatch time,
// so a node unregistered mid-flight is simply skipped rather than invoked
// stale.
package event
