package adapters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkpan11/logseq/internal/tree"
)

func TestJSONAdapter_Translate(t *testing.T) {
	adapter := &JSONAdapter{}

	t.Run("translates export object", func(t *testing.T) {
		payload := []byte(`{
			"version": 1,
			"blocks": [{
				"id": "0a1b2c3d-0000-4000-8000-000000000010",
				"page-name": "Page B",
				"format": "markdown",
				"children": [{
					"id": "0a1b2c3d-0000-4000-8000-000000000011",
					"content": "first block"
				}]
			}]
		}`)

		batch, err := adapter.Translate(payload)
		require.NoError(t, err)
		require.Len(t, batch, 1)

		page := batch[0]
		assert.Equal(t, "0a1b2c3d-0000-4000-8000-000000000010", page.UUID.String())
		assert.Equal(t, "Page B", page.Title)
		assert.Equal(t, tree.FormatMarkdown, page.Format)
		require.Len(t, page.Children, 1)
		assert.Equal(t, "first block", page.Children[0].Content)
	})

	t.Run("accepts a bare array of pages", func(t *testing.T) {
		payload := []byte(`[{"page-name": "Solo"}]`)

		batch, err := adapter.Translate(payload)
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, "Solo", batch[0].Title)
	})

	t.Run("duplicate sibling content still gets distinct identifiers", func(t *testing.T) {
		payload := []byte(`[{"page-name": "Dupes", "children": [
			{"content": "same"},
			{"content": "same"}
		]}]`)

		batch, err := adapter.Translate(payload)
		require.NoError(t, err)
		require.Len(t, batch[0].Children, 2)
		assert.NotEqual(t, batch[0].Children[0].UUID, batch[0].Children[1].UUID)
	})

	t.Run("coerces org format tags", func(t *testing.T) {
		payload := []byte(`[{"page-name": "Org Page", "format": "org-mode"}]`)

		batch, err := adapter.Translate(payload)
		require.NoError(t, err)
		assert.Equal(t, tree.FormatOrg, batch[0].Format)
	})

	t.Run("unparseable payload is malformed input", func(t *testing.T) {
		_, err := adapter.Translate([]byte(`{"blocks": [`))

		var malformed *MalformedInputError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, FormatJSON, malformed.Format)
	})

	t.Run("object without blocks array is malformed input", func(t *testing.T) {
		_, err := adapter.Translate([]byte(`{"version": 1}`))

		var malformed *MalformedInputError
		assert.True(t, errors.As(err, &malformed))
	})

	t.Run("scalar top-level value is malformed input", func(t *testing.T) {
		_, err := adapter.Translate([]byte(`42`))

		var malformed *MalformedInputError
		assert.True(t, errors.As(err, &malformed))
	})
}

func TestForFormat(t *testing.T) {
	t.Run("returns adapter per format tag", func(t *testing.T) {
		for _, format := range []Format{FormatEDN, FormatJSON, FormatOPML} {
			adapter, err := ForFormat(format)
			require.NoError(t, err)
			assert.NotNil(t, adapter)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := ForFormat("yaml")
		assert.Error(t, err)
	})
}
