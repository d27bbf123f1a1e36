package cli

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport_RoundTrip(t *testing.T) {
	for _, name := range []string{"backup.json", "backup.csv", "backup.db"} {
		t.Run(name, func(t *testing.T) {
			src := newTestEnv(t)
			src.seed(t)
			exportPath := src.path(name)

			out := src.mustRun(t, "export", exportPath)
			assert.Contains(t, out, "✓ Exported 3 books")

			dst := newTestEnv(t)
			dst.mustRun(t, "add", "Emma", "Jane Austen", "Classic", "1815")

			out = dst.mustRun(t, "import", exportPath)
			assert.Contains(t, out, "✓ Imported 3 books")
			assert.Contains(t, out, "Total: 4 books")

			out = dst.mustRun(t, "--format", "json", "list")
			var resp struct {
				Data ListResult `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			require.Len(t, resp.Data.Books, 4)
			assert.Equal(t, "Emma", resp.Data.Books[0].Title)
			assert.Equal(t, "Dune", resp.Data.Books[1].Title)
		})
	}
}

func TestExport_AsOverridesExtension(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	path := env.path("backup.txt")

	out := env.mustRun(t, "--format", "json", "export", path, "--as", "csv")

	var resp struct {
		Data ExportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "csv", string(resp.Data.Format))
	assert.Equal(t, 3, resp.Data.Count)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title,author,genre,year\n")
}

func TestExport_UnknownExtension(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "export", env.path("backup.txt"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeUnsupportedFormat)
}

func TestImport_UnsupportedExtension(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)
	path := env.path("notes.txt")
	require.NoError(t, writeFile(path, "title,author,genre,year\nEmma,Jane Austen,Classic,1815\n"))

	out, err := env.run(t, "import", path)
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeUnsupportedFormat)

	out = env.mustRun(t, "list")
	assert.Contains(t, out, "Total: 3 books")
}

func TestImport_Malformed(t *testing.T) {
	env := newTestEnv(t)
	path := env.path("extra.csv")
	require.NoError(t, writeFile(path, "title,author,genre,year\nEmma,Jane Austen,Classic,eighteen\n"))

	out, err := env.run(t, "--format", "json", "import", path)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMalformedRecord, resp.Error.Code)
}

func TestImport_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "import", env.path("absent.csv"))
	require.Error(t, err)
	assert.Contains(t, out, ErrCodePersistence)
}
