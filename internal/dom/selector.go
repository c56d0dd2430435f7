// internal/dom/selector.go
package dom

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selector is a compiled CSS selector usable as a plain match predicate.
// Compilation happens once, at delegation setup, never per-event.
type Selector struct {
	src string
	sel cascadia.Selector
}

// CompileSelector compiles a CSS selector group ("li.item, a[href]").
func CompileSelector(src string) (*Selector, error) {
	sel, err := cascadia.Compile(src)
	if err != nil {
		return nil, err
	}
	return &Selector{src: src, sel: sel}, nil
}

// Match reports whether n is an element matching the selector.
func (s *Selector) Match(n *html.Node) bool {
	return IsElement(n) && s.sel.Match(n)
}

// String returns the source text the selector was compiled from.
func (s *Selector) String() string { return s.src }
