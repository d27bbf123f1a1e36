package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/roach88/shelf/internal/book"
	"github.com/roach88/shelf/internal/codec"
	"github.com/roach88/shelf/internal/library"
)

// Exit codes for CLI commands.
const (
	ExitFailure      = 1 // Expected negative outcome (e.g. nothing to remove)
	ExitCommandError = 2 // Command error (bad arguments, unreadable files, etc.)
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeInvalidArgs       = "E002" // Bad command arguments
	ErrCodeConfig            = "E003" // Config could not be loaded
	ErrCodeMalformedRecord   = "E201" // Record failed to deserialize
	ErrCodePersistence       = "E202" // File read/write failure
	ErrCodeUnsupportedFormat = "E203" // Unknown format or file extension
	ErrCodeNotFound          = "E204" // No book with that title
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ClassifyError maps a store error to its CLI error code.
// More specific causes win: a persistence failure caused by a malformed
// record reports ErrCodeMalformedRecord.
func ClassifyError(err error) string {
	switch {
	case book.IsMalformed(err):
		return ErrCodeMalformedRecord
	case codec.IsUnsupportedFormat(err):
		return ErrCodeUnsupportedFormat
	case library.IsPersistenceError(err):
		return ErrCodePersistence
	default:
		return ErrCodeGeneric
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E201", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail outputs err and returns the matching ExitError.
func (f *OutputFormatter) Fail(exitCode int, code string, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exitCode, code, err)
}

// StoreFailure reports an error returned by the library.
func (f *OutputFormatter) StoreFailure(err error) error {
	return f.Fail(ExitCommandError, ClassifyError(err), err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// tableHeaders are the column titles of the book table.
var tableHeaders = []string{"Title", "Author", "Genre", "Year"}

// WriteTable renders books as an aligned text table.
// Widths are measured in terminal cells so wide runes line up.
func WriteTable(w io.Writer, books []book.Book) {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{b.Title, b.Author, b.Genre, strconv.Itoa(b.Year)})
	}

	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	rules := make([]string, len(widths))
	for i, width := range widths {
		rules[i] = strings.Repeat("-", width)
	}

	writeRow(w, tableHeaders, widths)
	writeRow(w, rules, widths)
	for _, row := range rows {
		writeRow(w, row, widths)
	}
}

// writeRow pads every cell but the last.
func writeRow(w io.Writer, cells []string, widths []int) {
	var sb strings.Builder
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString("  ")
		}
		if i == len(cells)-1 {
			sb.WriteString(cell)
		} else {
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
		}
	}
	fmt.Fprintln(w, sb.String())
}

// plural returns "book" or "books" for n.
func plural(n int) string {
	if n == 1 {
		return "book"
	}
	return "books"
}
