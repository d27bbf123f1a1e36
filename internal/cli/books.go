package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/book"
)

// BookResult is the JSON payload of add.
type BookResult struct {
	Added book.Book `json:"added"`
	Total int       `json:"total"`
}

// RemoveResult is the JSON payload of remove.
type RemoveResult struct {
	Removed book.Book `json:"removed"`
	Total   int       `json:"total"`
}

// ListResult is the JSON payload of list and search.
type ListResult struct {
	Query string      `json:"query,omitempty"`
	Books []book.Book `json:"books"`
	Total int         `json:"total"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> <author> <genre> <year>",
		Short: "Add a book to the library",
		Long: `Add a book to the library and save the collection.

Duplicates are allowed. Quote arguments that contain spaces.

Example:
  shelf add "Dune" "Frank Herbert" Sci-Fi 1965`,
		Args:          rootOpts.checkArgs(cobra.ExactArgs(4)),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, args, cmd)
		},
	}
}

func runAdd(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	b, err := parseBook(args)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, err)
	}

	lib, err := opts.library(cmd.Context())
	if err != nil {
		return formatter.StoreFailure(err)
	}
	if err := lib.Add(cmd.Context(), b); err != nil {
		return formatter.StoreFailure(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(BookResult{Added: b, Total: lib.Len()})
	}
	fmt.Fprintf(formatter.Writer, "✓ Added %s\n", b)
	fmt.Fprintf(formatter.Writer, "Total: %d %s\n", lib.Len(), plural(lib.Len()))
	return nil
}

// parseBook validates add arguments the way the entry form does: every
// field required, year an integer.
func parseBook(args []string) (book.Book, error) {
	names := []string{book.KeyTitle, book.KeyAuthor, book.KeyGenre, book.KeyYear}
	for i, arg := range args {
		if strings.TrimSpace(arg) == "" {
			return book.Book{}, fmt.Errorf("%s must not be empty", names[i])
		}
	}

	year, err := strconv.Atoi(strings.TrimSpace(args[3]))
	if err != nil {
		return book.Book{}, fmt.Errorf("year %q must be an integer", args[3])
	}

	return book.Book{
		Title:  strings.TrimSpace(args[0]),
		Author: strings.TrimSpace(args[1]),
		Genre:  strings.TrimSpace(args[2]),
		Year:   year,
	}, nil
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <title>",
		Short: "Remove the first book with the given title",
		Long: `Remove the first book whose title matches, ignoring case.

Exits with status 1 when no book matches.`,
		Args:          rootOpts.checkArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(rootOpts, args[0], cmd)
		},
	}
}

func runRemove(opts *RootOptions, title string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	lib, err := opts.library(cmd.Context())
	if err != nil {
		return formatter.StoreFailure(err)
	}

	target, ok := lib.Lookup(title)
	if !ok {
		return formatter.Fail(ExitFailure, ErrCodeNotFound, errors.New("no book titled "+strconv.Quote(title)))
	}
	if _, err := lib.Remove(cmd.Context(), title); err != nil {
		return formatter.StoreFailure(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(RemoveResult{Removed: target, Total: lib.Len()})
	}
	fmt.Fprintf(formatter.Writer, "✓ Removed %s\n", target)
	fmt.Fprintf(formatter.Writer, "Total: %d %s\n", lib.Len(), plural(lib.Len()))
	return nil
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find books by title, author, or genre",
		Long: `List books whose title, author, or genre contains the query,
ignoring case.`,
		Args:          rootOpts.checkArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(rootOpts, args[0], cmd)
		},
	}
}

func runSearch(opts *RootOptions, query string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	lib, err := opts.library(cmd.Context())
	if err != nil {
		return formatter.StoreFailure(err)
	}

	matches := lib.Search(query)
	formatter.VerboseLog("search %q matched %d of %d", query, len(matches), lib.Len())

	if formatter.Format == "json" {
		return formatter.Success(ListResult{Query: query, Books: matches, Total: lib.Len()})
	}
	if len(matches) == 0 {
		fmt.Fprintf(formatter.Writer, "No books match %q\n", query)
		return nil
	}
	WriteTable(formatter.Writer, matches)
	fmt.Fprintf(formatter.Writer, "\nFound %d of %d %s\n", len(matches), lib.Len(), plural(lib.Len()))
	return nil
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List every book in the library",
		Args:          rootOpts.checkArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	lib, err := opts.library(cmd.Context())
	if err != nil {
		return formatter.StoreFailure(err)
	}

	books := lib.List()
	if formatter.Format == "json" {
		return formatter.Success(ListResult{Books: books, Total: len(books)})
	}
	if len(books) == 0 {
		fmt.Fprintln(formatter.Writer, "The library is empty.")
		return nil
	}
	WriteTable(formatter.Writer, books)
	fmt.Fprintf(formatter.Writer, "\nTotal: %d %s\n", len(books), plural(len(books)))
	return nil
}
