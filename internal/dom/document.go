// internal/dom/document.go
package dom

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Document wraps a parsed HTML tree and offers the lookups the event layer
// and the CLI need: by id, by XPath, by CSS selector.
type Document struct {
	root *html.Node
}

// Parse builds a Document from an HTML stream.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is a convenience wrapper around Parse for in-memory markup.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// ParseFile reads and parses an HTML file from disk.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// FromNode wraps an already-parsed tree. The node should be the DocumentNode
// root produced by html.Parse.
func FromNode(root *html.Node) *Document {
	return &Document{root: root}
}

// Node returns the document root node (identity 0 in the event layer).
func (d *Document) Node() *html.Node { return d.root }

// DocumentElement returns the top-level <html> element.
func (d *Document) DocumentElement() *html.Node {
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}

// Body returns the <body> element, or nil for fragments without one.
func (d *Document) Body() *html.Node {
	n, err := htmlquery.Query(d.root, "//body")
	if err != nil {
		return nil
	}
	return n
}

// ElementByID returns the first element whose id attribute equals id.
func (d *Document) ElementByID(id string) *html.Node {
	n, err := htmlquery.Query(d.root, fmt.Sprintf(`//*[@id='%s']`, id))
	if err != nil {
		return nil
	}
	return n
}

// Query returns the first node matching the XPath expression.
func (d *Document) Query(xpath string) (*html.Node, error) {
	return htmlquery.Query(d.root, xpath)
}

// QueryAll returns every node matching the XPath expression.
func (d *Document) QueryAll(xpath string) ([]*html.Node, error) {
	return htmlquery.QueryAll(d.root, xpath)
}

// QuerySelector returns the first element matching the CSS selector, or nil.
func (d *Document) QuerySelector(selector string) (*html.Node, error) {
	sel, err := CompileSelector(selector)
	if err != nil {
		return nil, err
	}
	return firstMatch(d.root, sel), nil
}

// QuerySelectorAll returns every element matching the CSS selector.
func (d *Document) QuerySelectorAll(selector string) ([]*html.Node, error) {
	sel, err := CompileSelector(selector)
	if err != nil {
		return nil, err
	}
	var out []*html.Node
	walk(d.root, func(n *html.Node) {
		if sel.Match(n) {
			out = append(out, n)
		}
	})
	return out, nil
}

func firstMatch(root *html.Node, sel *Selector) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) {
		if found == nil && sel.Match(n) {
			found = n
		}
	})
	return found
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// ElementOf maps a node to the nearest element able to carry listeners: text
// nodes resolve to their parent, elements to themselves.
func ElementOf(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.TextNode {
		return n.Parent
	}
	return n
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	return htmlquery.SelectAttr(n, name)
}
