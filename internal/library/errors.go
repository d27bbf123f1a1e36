package library

import (
	"errors"
	"fmt"

	"github.com/roach88/shelf/internal/codec"
)

// Op names the store operation that failed.
type Op string

const (
	OpPersist Op = "persist"
	OpRestore Op = "restore"
	OpExport  Op = "export"
	OpImport  Op = "import"
)

// PersistenceError reports an I/O, encoding, or parse failure while
// reading or writing a collection file.
type PersistenceError struct {
	Op     Op
	Path   string
	Format codec.Format
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Path, e.Format, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError returns true if err is or wraps a *PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
