// internal/event/ready.go
package event

import (
	"golang.org/x/net/html"
)

// installLoadedRelay wires the one-shot "dom:loaded" custom event: whichever
// of the native "DOMContentLoaded" or "load" signals reaches the document
// first triggers it, and the ready flag keeps the second signal from firing
// it again.
func (e *Engine) installLoadedRelay() {
	relay := func(node *html.Node, ev *Event) {
		e.fireDOMLoaded()
	}
	e.Observe(e.doc, "DOMContentLoaded", NewHandler(relay))
	e.Observe(e.doc, "load", NewHandler(relay))
}

func (e *Engine) fireDOMLoaded() {
	e.readyMu.Lock()
	if e.ready {
		e.readyMu.Unlock()
		return
	}
	e.ready = true
	e.readyMu.Unlock()

	// Errors are impossible here: the name is namespaced by construction.
	_, _ = e.Fire(e.doc, DOMLoaded, nil, true)
}

// DocumentLoaded reports whether "dom:loaded" has already fired.
func (e *Engine) DocumentLoaded() bool {
	e.readyMu.Lock()
	defer e.readyMu.Unlock()
	return e.ready
}
