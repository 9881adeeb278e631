package heal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sentinelqa/healix/internal/browser/dom"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	return NewScanner(NewScorer(testWeights()), zap.NewNop())
}

func TestBestMatch(t *testing.T) {
	t.Run("picks the closest element on the page", func(t *testing.T) {
		doc, err := dom.Parse(`<html><body>
			<a id="nav-home" href="/">Home</a>
			<button id="cancel-btn" class="btn">Cancel</button>
			<button id="submit-btn" class="btn">Submit</button>
		</body></html>`)
		require.NoError(t, err)

		best, ok := newTestScanner(t).BestMatch(doc, "submit-btn")
		require.True(t, ok)
		assert.Equal(t, "button", best.Tag())
		assert.Equal(t, "submit-btn", best.Attr("id"))
	})

	t.Run("text alone is enough to win", func(t *testing.T) {
		doc, err := dom.Parse(`<html><body>
			<p>Unrelated paragraph content here.</p>
			<button>Checkout now</button>
		</body></html>`)
		require.NoError(t, err)

		best, ok := newTestScanner(t).BestMatch(doc, "checkout now")
		require.True(t, ok)
		assert.Equal(t, "button", best.Tag())
		assert.Equal(t, "Checkout now", best.Text())
	})

	t.Run("equal scores break toward the earlier element", func(t *testing.T) {
		doc, err := dom.Parse(`<html><body>
			<button data-idx="1" class="save">Save</button>
			<button data-idx="2" class="save">Save</button>
		</body></html>`)
		require.NoError(t, err)

		best, ok := newTestScanner(t).BestMatch(doc, "save")
		require.True(t, ok)
		assert.Equal(t, "1", best.Attr("data-idx"))
	})

	t.Run("an empty page yields no candidate", func(t *testing.T) {
		doc, err := dom.Parse(`<html><body></body></html>`)
		require.NoError(t, err)

		_, ok := newTestScanner(t).BestMatch(doc, "ghost-button")
		assert.False(t, ok)
	})

	t.Run("a page with zero affinity yields no candidate", func(t *testing.T) {
		doc, err := dom.Parse(`<html><body><br/><hr/></body></html>`)
		require.NoError(t, err)

		_, ok := newTestScanner(t).BestMatch(doc, "submit-btn")
		assert.False(t, ok)
	})
}
