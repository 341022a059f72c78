package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkpan11/logseq/internal/tree"
)

const sampleOPML = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>Reading List</title></head>
  <body>
    <outline text="Fiction">
      <outline text="Dune"/>
      <outline text="Hyperion"/>
    </outline>
    <outline text="Non-fiction"/>
  </body>
</opml>`

func TestOPMLAdapter_Translate(t *testing.T) {
	adapter := &OPMLAdapter{}

	t.Run("builds a single page from the outline", func(t *testing.T) {
		batch, err := adapter.Translate([]byte(sampleOPML))
		require.NoError(t, err)
		require.Len(t, batch, 1)

		page := batch[0]
		assert.Equal(t, "Reading List", page.Title)
		assert.Equal(t, tree.KindPage, page.Kind)
		assert.Equal(t, tree.FormatMarkdown, page.Format)

		require.Len(t, page.Children, 2)
		assert.Equal(t, "Fiction", page.Children[0].Content)
		assert.Equal(t, "Non-fiction", page.Children[1].Content)

		nested := page.Children[0].Children
		require.Len(t, nested, 2)
		assert.Equal(t, "Dune", nested[0].Content)
		assert.Equal(t, "Hyperion", nested[1].Content)
	})

	t.Run("identifiers are stable across translations", func(t *testing.T) {
		first, err := adapter.Translate([]byte(sampleOPML))
		require.NoError(t, err)
		second, err := adapter.Translate([]byte(sampleOPML))
		require.NoError(t, err)

		assert.Equal(t, first[0].UUID, second[0].UUID)
		assert.Equal(t, first[0].Children[0].UUID, second[0].Children[0].UUID)
		assert.Equal(t, first[0].Children[0].Children[1].UUID, second[0].Children[0].Children[1].UUID)
	})

	t.Run("duplicate outline text still gets distinct identifiers", func(t *testing.T) {
		payload := []byte(`<?xml version="1.0"?>
<opml version="2.0">
  <head><title>Dupes</title></head>
  <body>
    <outline text="same"/>
    <outline text="same"/>
  </body>
</opml>`)

		batch, err := adapter.Translate(payload)
		require.NoError(t, err)
		require.Len(t, batch[0].Children, 2)
		assert.NotEqual(t, batch[0].Children[0].UUID, batch[0].Children[1].UUID)
	})

	t.Run("missing head title gets a derived one", func(t *testing.T) {
		payload := []byte(`<?xml version="1.0"?>
<opml version="2.0">
  <head></head>
  <body><outline text="orphan"/></body>
</opml>`)

		batch, err := adapter.Translate(payload)
		require.NoError(t, err)
		assert.Contains(t, batch[0].Title, "Untitled")
	})

	t.Run("outline title attribute is a fallback for text", func(t *testing.T) {
		payload := []byte(`<?xml version="1.0"?>
<opml version="2.0">
  <head><title>Fallback</title></head>
  <body><outline title="only title"/></body>
</opml>`)

		batch, err := adapter.Translate(payload)
		require.NoError(t, err)
		assert.Equal(t, "only title", batch[0].Children[0].Content)
	})

	t.Run("unparseable payload is malformed input", func(t *testing.T) {
		_, err := adapter.Translate([]byte(`<opml><head>`))

		var malformed *MalformedInputError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, FormatOPML, malformed.Format)
	})
}
