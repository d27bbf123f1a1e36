package book

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mapping keys, in canonical serialization order.
const (
	KeyTitle  = "title"
	KeyAuthor = "author"
	KeyGenre  = "genre"
	KeyYear   = "year"
)

// Keys lists the mapping keys in canonical order.
// Serializers use it for CSV headers and stable field order.
var Keys = []string{KeyTitle, KeyAuthor, KeyGenre, KeyYear}

// Book is one catalog entry.
// Title is the de facto key for removal but is not required to be unique.
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	Year   int    `json:"year"`
}

// ToMap returns the canonical mapping form of the book.
// Year stays an int; the other fields are strings.
func (b Book) ToMap() map[string]any {
	return map[string]any{
		KeyTitle:  b.Title,
		KeyAuthor: b.Author,
		KeyGenre:  b.Genre,
		KeyYear:   b.Year,
	}
}

// FromMap builds a Book from its mapping form.
//
// All four keys are required. Title, author and genre must be strings.
// Year may be any integer kind, an integral float64 or json.Number, or a
// decimal string. Extra keys are ignored.
//
// Returns *MalformedRecordError (Index = -1) on a missing or mistyped field.
func FromMap(m map[string]any) (Book, error) {
	var b Book
	var err error

	if b.Title, err = stringField(m, KeyTitle); err != nil {
		return Book{}, err
	}
	if b.Author, err = stringField(m, KeyAuthor); err != nil {
		return Book{}, err
	}
	if b.Genre, err = stringField(m, KeyGenre); err != nil {
		return Book{}, err
	}

	raw, ok := m[KeyYear]
	if !ok {
		return Book{}, missingField(KeyYear)
	}
	if b.Year, err = CoerceYear(raw); err != nil {
		return Book{}, &MalformedRecordError{Index: -1, Field: KeyYear, Reason: err.Error()}
	}

	return b, nil
}

// TitleEquals reports whether the book's title equals title, ignoring case.
func (b Book) TitleEquals(title string) bool {
	return Fold(b.Title) == Fold(title)
}

// Matches reports whether query is a case-insensitive substring of the
// title, author, or genre. An empty query matches every book.
func (b Book) Matches(query string) bool {
	q := Fold(query)
	return strings.Contains(Fold(b.Title), q) ||
		strings.Contains(Fold(b.Author), q) ||
		strings.Contains(Fold(b.Genre), q)
}

// String renders the book for logs and plain text output.
func (b Book) String() string {
	return fmt.Sprintf("%s by %s (%s, %d)", b.Title, b.Author, b.Genre, b.Year)
}

// CoerceYear converts a decoded year value to int.
func CoerceYear(v any) (int, error) {
	switch y := v.(type) {
	case int:
		return y, nil
	case int8:
		return int(y), nil
	case int16:
		return int(y), nil
	case int32:
		return int(y), nil
	case int64:
		return int(y), nil
	case uint:
		if uint64(y) > math.MaxInt64 {
			return 0, fmt.Errorf("year %d out of range", y)
		}
		return int(y), nil
	case uint8:
		return int(y), nil
	case uint16:
		return int(y), nil
	case uint32:
		return int(y), nil
	case uint64:
		if y > math.MaxInt64 {
			return 0, fmt.Errorf("year %d out of range", y)
		}
		return int(y), nil
	case float32:
		return integralFloat(float64(y))
	case float64:
		return integralFloat(y)
	case json.Number:
		if i, err := y.Int64(); err == nil {
			return int(i), nil
		}
		f, err := y.Float64()
		if err != nil {
			return 0, fmt.Errorf("year %q is not a number", y.String())
		}
		return integralFloat(f)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil {
			return 0, fmt.Errorf("year %q is not an integer", y)
		}
		return i, nil
	case nil:
		return 0, fmt.Errorf("year is null")
	default:
		return 0, fmt.Errorf("year has type %T, expected integer", v)
	}
}

func integralFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("year %v is not an integer", f)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("year %v out of range", f)
	}
	return int(f), nil
}

func stringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", missingField(key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", &MalformedRecordError{
			Index:  -1,
			Field:  key,
			Reason: fmt.Sprintf("has type %T, expected string", raw),
		}
	}
	return s, nil
}

func missingField(key string) *MalformedRecordError {
	return &MalformedRecordError{Index: -1, Field: key, Reason: "missing"}
}
