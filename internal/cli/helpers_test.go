package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is a config file whose canonical paths live in a temp dir.
type testEnv struct {
	dir        string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "shelf.yaml")
	content := fmt.Sprintf("library:\n  json_path: %q\n  csv_path: %q\nlog:\n  level: error\n",
		filepath.Join(dir, "library_data.json"),
		filepath.Join(dir, "library_data.csv"),
	)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return &testEnv{dir: dir, configPath: configPath}
}

// run executes one CLI invocation and returns combined output.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

// mustRun executes a CLI invocation that is expected to succeed.
func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	e.mustRun(t, "add", "Dune", "Frank Herbert", "Sci-Fi", "1965")
	e.mustRun(t, "add", "Foundation", "Isaac Asimov", "Sci-Fi", "1951")
	e.mustRun(t, "add", "Gödel, Escher, Bach", "Douglas Hofstadter", "Non-Fiction", "1979")
}
