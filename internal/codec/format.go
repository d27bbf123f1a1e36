package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a serialization format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCSV, FormatSQLite}

// extensions maps lowercase file extensions to formats.
var extensions = map[string]Format{
	".json":    FormatJSON,
	".csv":     FormatCSV,
	".db":      FormatSQLite,
	".sqlite":  FormatSQLite,
	".sqlite3": FormatSQLite,
}

// UnsupportedFormatError reports a format name or file extension that no
// codec handles.
type UnsupportedFormatError struct {
	// Format is the rejected format name, or the extension when Path is set.
	Format string
	// Path is set when the format was inferred from a file name.
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Path != "" {
		if e.Format == "" {
			return fmt.Sprintf("unsupported format: %s has no file extension", e.Path)
		}
		return fmt.Sprintf("unsupported format: extension %q of %s", e.Format, e.Path)
	}
	return fmt.Sprintf("unsupported format %q", e.Format)
}

// IsUnsupportedFormat returns true if err is or wraps an *UnsupportedFormatError.
func IsUnsupportedFormat(err error) bool {
	var ue *UnsupportedFormatError
	return errors.As(err, &ue)
}

// ParseFormat converts a format name to a Format, ignoring case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{Format: name}
}

// FormatFromPath selects a format by the path's file extension, ignoring case.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", &UnsupportedFormatError{Format: ext, Path: path}
}

func (f Format) String() string {
	return string(f)
}
