package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/shelf/internal/book"
)

const utf8BOM = "\ufeff"

// EncodeCSV writes a header row followed by one row per book.
func EncodeCSV(w io.Writer, books []book.Book) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(book.Keys); err != nil {
		return fmt.Errorf("encode csv header: %w", err)
	}
	for i, b := range books {
		row := []string{b.Title, b.Author, b.Genre, strconv.Itoa(b.Year)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("encode csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}

// DecodeCSV reads books from CSV with a header row.
//
// Columns are matched by header name, so column order is free and extra
// columns are ignored. An empty input is an empty collection. A row whose
// year is not an integer returns *book.MalformedRecordError with the
// 0-based data row index.
//
// A CRLF inside a quoted field is read back as LF, so such fields do not
// survive a round trip byte for byte.
func DecodeCSV(r io.Reader) ([]book.Book, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []book.Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, key := range book.Keys {
		if _, ok := columns[key]; !ok {
			return nil, &book.MalformedRecordError{Index: -1, Field: key, Reason: "missing from csv header"}
		}
	}

	books := []book.Book{}
	for i := 0; ; i++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", i, err)
		}

		m := make(map[string]any, len(book.Keys))
		for _, key := range book.Keys {
			m[key] = row[columns[key]]
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
