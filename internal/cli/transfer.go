package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/codec"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	As string // target format; empty means infer from the path
}

// ExportResult is the JSON payload of export.
type ExportResult struct {
	Path   string       `json:"path"`
	Format codec.Format `json:"format"`
	Count  int          `json:"count"`
}

// ImportResult is the JSON payload of import.
type ImportResult struct {
	Path     string `json:"path"`
	Imported int    `json:"imported"`
	Total    int    `json:"total"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write the library to a JSON, CSV, or SQLite file",
		Long: `Write the whole library to an arbitrary file. The canonical
library files are not touched.

The format is taken from --as, or from the file extension
(.json, .csv, .db, .sqlite, .sqlite3).

Example:
  shelf export backup.csv
  shelf export backup --as sqlite`,
		Args:          opts.checkArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "file format (json|csv|sqlite)")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	format, err := exportFormat(opts.As, path)
	if err != nil {
		return formatter.StoreFailure(err)
	}

	lib, err := opts.library(cmd.Context())
	if err != nil {
		return formatter.StoreFailure(err)
	}
	if err := lib.Export(cmd.Context(), path, format); err != nil {
		return formatter.StoreFailure(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ExportResult{Path: path, Format: format, Count: lib.Len()})
	}
	fmt.Fprintf(formatter.Writer, "✓ Exported %d %s to %s (%s)\n", lib.Len(), plural(lib.Len()), path, format)
	return nil
}

func exportFormat(as, path string) (codec.Format, error) {
	if as != "" {
		return codec.ParseFormat(as)
	}
	return codec.FormatFromPath(path)
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Append books from a JSON, CSV, or SQLite file",
		Long: `Append every book in the file to the library and save the
collection. The format is chosen by file extension. Nothing is added if
any record in the file is malformed.`,
		Args:          rootOpts.checkArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}
}

func runImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	lib, err := opts.library(cmd.Context())
	if err != nil {
		return formatter.StoreFailure(err)
	}

	n, err := lib.Import(cmd.Context(), path)
	if err != nil {
		return formatter.StoreFailure(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ImportResult{Path: path, Imported: n, Total: lib.Len()})
	}
	fmt.Fprintf(formatter.Writer, "✓ Imported %d %s from %s\n", n, plural(n), path)
	fmt.Fprintf(formatter.Writer, "Total: %d %s\n", lib.Len(), plural(lib.Len()))
	return nil
}
