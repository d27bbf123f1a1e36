package book

import (
	"errors"
	"fmt"
)

// MalformedRecordError reports a record that could not be deserialized.
type MalformedRecordError struct {
	// Index is the 0-based position of the record in its source document,
	// or -1 when the record was decoded on its own.
	Index int

	// Field names the offending key. Empty when the whole record is bad
	// (for example, an array element that is not an object).
	Field string

	// Reason is a human-readable description.
	Reason string
}

func (e *MalformedRecordError) Error() string {
	switch {
	case e.Index >= 0 && e.Field != "":
		return fmt.Sprintf("malformed record %d: field %q %s", e.Index, e.Field, e.Reason)
	case e.Index >= 0:
		return fmt.Sprintf("malformed record %d: %s", e.Index, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("malformed record: field %q %s", e.Field, e.Reason)
	default:
		return fmt.Sprintf("malformed record: %s", e.Reason)
	}
}

// AtIndex returns a copy of the error positioned at index.
func (e *MalformedRecordError) AtIndex(index int) *MalformedRecordError {
	c := *e
	c.Index = index
	return &c
}

// IsMalformed returns true if err is or wraps a *MalformedRecordError.
func IsMalformed(err error) bool {
	var me *MalformedRecordError
	return errors.As(err, &me)
}
