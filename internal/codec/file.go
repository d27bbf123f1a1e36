package codec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/roach88/shelf/internal/book"
	"github.com/roach88/shelf/internal/snapshot"
)

// Encode writes books to w in a stream format (json or csv).
func Encode(w io.Writer, format Format, books []book.Book) error {
	switch format {
	case FormatJSON:
		return EncodeJSON(w, books)
	case FormatCSV:
		return EncodeCSV(w, books)
	default:
		return &UnsupportedFormatError{Format: string(format)}
	}
}

// Decode reads books from r in a stream format (json or csv).
func Decode(r io.Reader, format Format) ([]book.Book, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatCSV:
		return DecodeCSV(r)
	default:
		return nil, &UnsupportedFormatError{Format: string(format)}
	}
}

// WriteFile serializes books to path, creating parent directories.
//
// The file is replaced atomically: readers see either the previous
// contents or the complete new file, never a truncated one.
func WriteFile(ctx context.Context, path string, format Format, books []book.Book) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	switch format {
	case FormatJSON, FormatCSV:
		var buf bytes.Buffer
		if err := Encode(&buf, format, books); err != nil {
			return err
		}
		if err := atomic.WriteFile(path, &buf); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	case FormatSQLite:
		return writeSnapshot(ctx, path, books)
	default:
		return &UnsupportedFormatError{Format: string(format)}
	}
}

// ReadFile deserializes all books stored at path.
func ReadFile(ctx context.Context, path string, format Format) ([]book.Book, error) {
	switch format {
	case FormatJSON, FormatCSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return Decode(f, format)
	case FormatSQLite:
		return readSnapshot(ctx, path)
	default:
		return nil, &UnsupportedFormatError{Format: string(format)}
	}
}

// writeSnapshot builds the snapshot next to path and moves it into place.
func writeSnapshot(ctx context.Context, path string, books []book.Book) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName) // No-op once replaced

	snap, err := snapshot.Open(tmpName)
	if err != nil {
		return err
	}
	if err := snap.WriteBooks(ctx, books); err != nil {
		snap.Close()
		return err
	}
	if err := snap.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := atomic.ReplaceFile(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func readSnapshot(ctx context.Context, path string) ([]book.Book, error) {
	snap, err := snapshot.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer snap.Close()

	return snap.ReadBooks(ctx)
}
