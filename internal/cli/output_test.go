package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shelf/internal/book"
	"github.com/roach88/shelf/internal/codec"
	"github.com/roach88/shelf/internal/library"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodePersistence, "disk full", map[string]string{"path": "library_data.json"})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodePersistence, resp.Error.Code)
	assert.Equal(t, "disk full", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	require.NoError(t, formatter.Error(ErrCodeNotFound, "no book titled \"Dune\"", "checked 3 books"))
	assert.Contains(t, buf.String(), `Error [E204]: no book titled "Dune"`)
	assert.Contains(t, buf.String(), "Details: checked 3 books")
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Fail(ExitFailure, ErrCodeNotFound, errors.New("no book titled \"Dune\""))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "E204")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	formatter.VerboseLog("matched %d", 2)
	assert.Empty(t, out.String())
	assert.Equal(t, "matched 2\n", errOut.String())

	formatter.Verbose = false
	formatter.VerboseLog("hidden")
	assert.Equal(t, "matched 2\n", errOut.String())
}

func TestGetExitCode(t *testing.T) {
	exitErr := WrapExitError(ExitCommandError, ErrCodeInvalidArgs, errors.New("bad"))
	assert.Equal(t, ExitCommandError, GetExitCode(exitErr))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", exitErr)))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestClassifyError(t *testing.T) {
	malformed := &book.MalformedRecordError{Index: 1, Field: "year", Reason: "missing"}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "malformed", err: malformed, want: ErrCodeMalformedRecord},
		{
			name: "persistence wrapping malformed",
			err:  &library.PersistenceError{Op: library.OpRestore, Path: "x.json", Format: codec.FormatJSON, Err: malformed},
			want: ErrCodeMalformedRecord,
		},
		{
			name: "persistence",
			err:  &library.PersistenceError{Op: library.OpPersist, Path: "x.json", Format: codec.FormatJSON, Err: errors.New("disk full")},
			want: ErrCodePersistence,
		},
		{name: "unsupported", err: &codec.UnsupportedFormatError{Format: ".txt", Path: "x.txt"}, want: ErrCodeUnsupportedFormat},
		{name: "other", err: errors.New("boom"), want: ErrCodeGeneric},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyError(tc.err))
		})
	}
}

func TestWriteTable_WideRunes(t *testing.T) {
	buf := &bytes.Buffer{}
	WriteTable(buf, []book.Book{
		{Title: "ノルウェイの森", Author: "Haruki Murakami", Genre: "Novel", Year: 1987},
		{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: 1965},
	})

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 4)
	// Seven double-width runes occupy 14 cells, so "Dune" is padded to 14.
	want := "Dune" + strings.Repeat(" ", 12) + "Frank Herbert" + strings.Repeat(" ", 4) + "Sci-Fi  1965"
	assert.Equal(t, want, string(lines[3]))
}
