package dom

import (
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func mustNode(t *testing.T, page, xpath string) *html.Node {
	t.Helper()
	doc, err := Parse(page)
	require.NoError(t, err)
	node, err := htmlquery.Query(doc, xpath)
	require.NoError(t, err)
	require.NotNil(t, node, "fixture query %q matched nothing", xpath)
	return node
}

func TestUniqueXPath(t *testing.T) {
	t.Run("a node with an id is its own anchor", func(t *testing.T) {
		n := mustNode(t, `<html><body><div><button id="save">Save</button></div></body></html>`, "//button")
		assert.Equal(t, "//*[@id='save']", UniqueXPath(n))
	})

	t.Run("the nearest ancestor id anchors the path", func(t *testing.T) {
		page := `<html><body>
			<div id="toolbar">
				<span>first</span>
				<span><button>Save</button></span>
			</div>
		</body></html>`
		n := mustNode(t, page, "//button")
		assert.Equal(t, "//*[@id='toolbar']/span[2]/button[1]", UniqueXPath(n))
	})

	t.Run("no ancestor id falls back to an absolute path", func(t *testing.T) {
		page := `<html><body><ul><li>a</li><li>b</li><li>c</li></ul></body></html>`
		n := mustNode(t, page, "//li[2]")
		assert.Equal(t, "/html[1]/body[1]/ul[1]/li[2]", UniqueXPath(n))
	})

	t.Run("sibling indexes only count same-tag siblings", func(t *testing.T) {
		page := `<html><body><div id="root"><p>x</p><span>y</span><p>z</p></div></body></html>`
		n := mustNode(t, page, "//div/p[2]")
		assert.Equal(t, "//*[@id='root']/p[2]", UniqueXPath(n))
	})

	t.Run("nil is harmless", func(t *testing.T) {
		assert.Equal(t, "", UniqueXPath(nil))
	})
}

func TestLiteral(t *testing.T) {
	t.Run("plain strings are single-quoted", func(t *testing.T) {
		assert.Equal(t, "'submit'", Literal("submit"))
	})

	t.Run("apostrophes force double quotes", func(t *testing.T) {
		assert.Equal(t, `"o'brien"`, Literal("o'brien"))
	})

	t.Run("double quotes keep single quotes", func(t *testing.T) {
		assert.Equal(t, `'say "hi"'`, Literal(`say "hi"`))
	})

	t.Run("mixed quotes need concat", func(t *testing.T) {
		assert.Equal(t, `concat('it', "'", 's a "test"')`, Literal(`it's a "test"`))
	})

	t.Run("leading apostrophe yields no empty run", func(t *testing.T) {
		assert.Equal(t, `concat("'", 'start "x"')`, Literal(`'start "x"`))
	})
}
