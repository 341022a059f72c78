package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor_SaveRaw(t *testing.T) {
	t.Run("writes the payload with the format extension", func(t *testing.T) {
		dir := t.TempDir()
		auditor := NewAuditor(dir)

		filename, err := auditor.SaveRaw("edn", []byte("{:blocks []}"))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(filename, ".edn"))

		data, err := os.ReadFile(filepath.Join(dir, filename))
		require.NoError(t, err)
		assert.Equal(t, "{:blocks []}", string(data))
	})

	t.Run("creates the audit directory on demand", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "audit")
		auditor := NewAuditor(dir)

		_, err := auditor.SaveRaw("json", []byte("[]"))
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("each payload gets a distinct filename", func(t *testing.T) {
		auditor := NewAuditor(t.TempDir())

		first, err := auditor.SaveRaw("opml", []byte("<opml/>"))
		require.NoError(t, err)
		second, err := auditor.SaveRaw("opml", []byte("<opml/>"))
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}
