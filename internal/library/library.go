package library

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/roach88/shelf/internal/book"
	"github.com/roach88/shelf/internal/codec"
	"github.com/roach88/shelf/internal/logger"
)

// Options fixes the canonical files of a Library.
type Options struct {
	JSONPath string
	CSVPath  string

	// Format selects the canonical file rewritten after each mutation.
	// Must be json or csv; empty means json.
	Format codec.Format
}

// Library is the authoritative book collection.
type Library struct {
	opts  Options
	books []book.Book
}

// New returns an empty Library without touching the filesystem.
// Most callers want Open.
func New(opts Options) (*Library, error) {
	if opts.Format == "" {
		opts.Format = codec.FormatJSON
	}
	if opts.Format != codec.FormatJSON && opts.Format != codec.FormatCSV {
		return nil, &codec.UnsupportedFormatError{Format: string(opts.Format)}
	}
	if opts.JSONPath == "" || opts.CSVPath == "" {
		return nil, errors.New("library: both canonical paths are required")
	}

	return &Library{opts: opts, books: []book.Book{}}, nil
}

// Open returns a Library restored from its canonical files.
//
// On a restore failure Open returns the error and no Library; callers that
// want to continue with an empty collection can use New and Restore.
func Open(ctx context.Context, opts Options) (*Library, error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	if err := l.Restore(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Options returns the options the Library was built with, defaults applied.
func (l *Library) Options() Options {
	return l.opts
}

// Add appends b and rewrites the canonical file.
// No duplicate check is made.
func (l *Library) Add(ctx context.Context, b book.Book) error {
	l.books = append(l.books, b)

	if err := l.Persist(ctx, l.opts.Format); err != nil {
		l.books = l.books[:len(l.books)-1]
		return err
	}

	l.log(ctx).WithField("title", b.Title).Info("added book")
	return nil
}

// Remove deletes the first book whose title equals title, ignoring case.
// Returns false with a nil error when nothing matched; the canonical file
// is only rewritten when a book was removed.
func (l *Library) Remove(ctx context.Context, title string) (bool, error) {
	i := l.indexOf(title)
	if i < 0 {
		l.log(ctx).WithField("title", title).Debug("no book to remove")
		return false, nil
	}

	removed := l.books[i]
	l.books = slices.Delete(l.books, i, i+1)

	if err := l.Persist(ctx, l.opts.Format); err != nil {
		l.books = slices.Insert(l.books, i, removed)
		return false, err
	}

	l.log(ctx).WithField("title", removed.Title).Info("removed book")
	return true, nil
}

// Lookup returns the book Remove would delete for title.
func (l *Library) Lookup(title string) (book.Book, bool) {
	i := l.indexOf(title)
	if i < 0 {
		return book.Book{}, false
	}
	return l.books[i], true
}

func (l *Library) indexOf(title string) int {
	return slices.IndexFunc(l.books, func(b book.Book) bool {
		return b.TitleEquals(title)
	})
}

// Search returns the books whose title, author, or genre contains query,
// ignoring case, in collection order. An empty query matches every book.
func (l *Library) Search(query string) []book.Book {
	results := []book.Book{}
	for _, b := range l.books {
		if b.Matches(query) {
			results = append(results, b)
		}
	}
	return results
}

// List returns a copy of the whole collection in order.
func (l *Library) List() []book.Book {
	out := make([]book.Book, len(l.books))
	copy(out, l.books)
	return out
}

// Len returns the number of books in the collection.
func (l *Library) Len() int {
	return len(l.books)
}

// Persist rewrites the canonical file for format (json or csv).
func (l *Library) Persist(ctx context.Context, format codec.Format) error {
	path, err := l.canonicalPath(format)
	if err != nil {
		return err
	}
	return l.write(ctx, OpPersist, path, format)
}

// Restore replaces the collection with the contents of the canonical JSON
// file, or the canonical CSV file when no JSON file exists. With neither
// present the collection becomes empty.
//
// The collection is left untouched when the file cannot be read or parsed.
func (l *Library) Restore(ctx context.Context) error {
	defer logger.Track(ctx, "restore")()

	sources := []struct {
		path   string
		format codec.Format
	}{
		{path: l.opts.JSONPath, format: codec.FormatJSON},
		{path: l.opts.CSVPath, format: codec.FormatCSV},
	}

	for _, src := range sources {
		_, err := os.Stat(src.path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return &PersistenceError{Op: OpRestore, Path: src.path, Format: src.format, Err: err}
		}

		books, err := codec.ReadFile(ctx, src.path, src.format)
		if err != nil {
			return &PersistenceError{Op: OpRestore, Path: src.path, Format: src.format, Err: err}
		}

		l.books = books
		l.log(ctx).WithFields(logrus.Fields{
			"path":   src.path,
			"format": src.format,
			"count":  len(books),
		}).Info("restored library")
		return nil
	}

	l.books = []book.Book{}
	l.log(ctx).Debug("no canonical file found, starting empty")
	return nil
}

// Export writes the collection to path in format without touching the
// canonical files.
func (l *Library) Export(ctx context.Context, path string, format codec.Format) error {
	f, err := codec.ParseFormat(string(format))
	if err != nil {
		return err
	}
	return l.write(ctx, OpExport, path, f)
}

// Import reads the file at path, choosing the format by extension, appends
// its books to the collection, and rewrites the canonical file.
// Returns the number of books appended.
//
// Nothing is appended when the file cannot be parsed, and the append is
// undone when the rewrite fails.
func (l *Library) Import(ctx context.Context, path string) (int, error) {
	defer logger.Track(ctx, "import")()

	format, err := codec.FormatFromPath(path)
	if err != nil {
		return 0, err
	}

	incoming, err := codec.ReadFile(ctx, path, format)
	if err != nil {
		return 0, &PersistenceError{Op: OpImport, Path: path, Format: format, Err: err}
	}

	before := len(l.books)
	l.books = append(l.books, incoming...)

	if err := l.Persist(ctx, l.opts.Format); err != nil {
		l.books = l.books[:before]
		return 0, err
	}

	l.log(ctx).WithFields(logrus.Fields{
		"path":  path,
		"count": len(incoming),
		"total": len(l.books),
	}).Info("imported books")
	return len(incoming), nil
}

func (l *Library) canonicalPath(format codec.Format) (string, error) {
	switch format {
	case codec.FormatJSON:
		return l.opts.JSONPath, nil
	case codec.FormatCSV:
		return l.opts.CSVPath, nil
	default:
		return "", &codec.UnsupportedFormatError{Format: string(format)}
	}
}

func (l *Library) write(ctx context.Context, op Op, path string, format codec.Format) error {
	if err := codec.WriteFile(ctx, path, format, l.books); err != nil {
		return &PersistenceError{Op: op, Path: path, Format: format, Err: err}
	}

	l.log(ctx).WithFields(logrus.Fields{
		"op":     op,
		"path":   path,
		"format": format,
		"count":  len(l.books),
	}).Debugf("%s complete", op)
	return nil
}

func (l *Library) log(ctx context.Context) *logrus.Entry {
	return logger.For(ctx).WithField("component", "library")
}
