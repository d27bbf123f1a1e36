package codec

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/roach88/shelf/internal/book"
)

//go:embed books.schema.json
var booksSchema string

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(booksSchema))
})

// EncodeJSON writes books as a 2-space-indented JSON array followed by a
// newline. Keys appear in the order title, author, genre, year.
func EncodeJSON(w io.Writer, books []book.Book) error {
	if books == nil {
		books = []book.Book{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(books); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// DecodeJSON reads a JSON array of book objects.
//
// The document is checked for syntax, then validated against the
// collection schema; a schema violation returns *book.MalformedRecordError
// naming the first offending record and field.
func DecodeJSON(r io.Reader) ([]book.Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode json: unexpected data after top-level array")
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate json: %w", err)
	}
	if !result.Valid() {
		return nil, schemaViolation(result.Errors()[0])
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, &book.MalformedRecordError{Index: -1, Reason: "document is not an array"}
	}

	books := make([]book.Book, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &book.MalformedRecordError{Index: i, Reason: fmt.Sprintf("has type %T, expected object", item)}
		}
		b, err := book.FromMap(m)
		if err != nil {
			var me *book.MalformedRecordError
			if errors.As(err, &me) {
				return nil, me.AtIndex(i)
			}
			return nil, err
		}
		books = append(books, b)
	}

	return books, nil
}

// schemaViolation converts a schema result error into a MalformedRecordError.
// Field paths look like "(root)", "3", or "3.year".
func schemaViolation(re gojsonschema.ResultError) *book.MalformedRecordError {
	me := &book.MalformedRecordError{Index: -1, Reason: re.Description()}

	parts := strings.SplitN(re.Field(), ".", 2)
	if idx, err := strconv.Atoi(parts[0]); err == nil {
		me.Index = idx
	}
	if len(parts) == 2 {
		me.Field = parts[1]
	}
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			me.Field = prop
			me.Reason = "missing"
		}
	}

	return me
}
