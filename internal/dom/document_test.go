// internal/dom/document_test.go
package dom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const sampleMarkup = `<html><head><title>t</title></head><body>
<div id="wrap" class="outer">
  <ul>
    <li class="item first"><a href="/one">one</a></li>
    <li class="item"><span id="deep">two</span></li>
  </ul>
</div>
</body></html>`

func sampleDoc(t *testing.T) *Document {
	t.Helper()
	d, err := ParseString(sampleMarkup)
	require.NoError(t, err)
	return d
}

func TestParseAndStructure(t *testing.T) {
	d := sampleDoc(t)

	require.NotNil(t, d.Node())
	assert.Equal(t, html.DocumentNode, d.Node().Type)

	de := d.DocumentElement()
	require.NotNil(t, de)
	assert.Equal(t, "html", de.Data)

	body := d.Body()
	require.NotNil(t, body)
	assert.Equal(t, "body", body.Data)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(sampleMarkup), 0o644))

	d, err := ParseFile(path)
	require.NoError(t, err)
	assert.NotNil(t, d.ElementByID("wrap"))

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestElementByID(t *testing.T) {
	d := sampleDoc(t)

	wrap := d.ElementByID("wrap")
	require.NotNil(t, wrap)
	assert.Equal(t, "div", wrap.Data)

	assert.Nil(t, d.ElementByID("nope"))
}

func TestQuerySelector(t *testing.T) {
	d := sampleDoc(t)

	n, err := d.QuerySelector("li.item a[href]")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "a", n.Data)

	all, err := d.QuerySelectorAll("li.item")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := d.QuerySelectorAll("table")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = d.QuerySelector("][bad")
	assert.Error(t, err)
}

func TestCompileSelectorMatch(t *testing.T) {
	d := sampleDoc(t)
	sel, err := CompileSelector("div.outer")
	require.NoError(t, err)
	assert.Equal(t, "div.outer", sel.String())

	assert.True(t, sel.Match(d.ElementByID("wrap")))
	assert.False(t, sel.Match(d.Body()))
	assert.False(t, sel.Match(nil))
}

func TestElementOfAndAttr(t *testing.T) {
	d := sampleDoc(t)
	deep := d.ElementByID("deep")
	require.NotNil(t, deep)
	require.NotNil(t, deep.FirstChild)
	require.Equal(t, html.TextNode, deep.FirstChild.Type)

	assert.Same(t, deep, ElementOf(deep.FirstChild))
	assert.Same(t, deep, ElementOf(deep))
	assert.Nil(t, ElementOf(nil))

	assert.True(t, IsElement(deep))
	assert.False(t, IsElement(deep.FirstChild))
	assert.False(t, IsElement(nil))

	a, err := d.QuerySelector("a")
	require.NoError(t, err)
	assert.Equal(t, "/one", Attr(a, "href"))
	assert.Equal(t, "", Attr(a, "rel"))
}

func TestNodePath(t *testing.T) {
	d := sampleDoc(t)

	deep := d.ElementByID("deep")
	require.NotNil(t, deep)
	assert.Equal(t, `//*[@id='deep']`, NodePath(deep))

	// Elements without an id anchor to the nearest ancestor that has one.
	second, err := d.QuerySelectorAll("li")
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, `//*[@id='wrap']/ul[1]/li[2]`, NodePath(second[1]))

	assert.Equal(t, "", NodePath(nil))

	// A path with no id anywhere is absolute from the root.
	body := d.Body()
	require.NotNil(t, body)
	assert.Equal(t, "/html[1]/body[1]", NodePath(body))
}
