package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/config"
	"github.com/roach88/shelf/internal/library"
	"github.com/roach88/shelf/internal/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// session is shared by every command run from one shell.
	session *session

	// inShell is set for lines run by the interactive shell.
	inShell bool
}

// session holds the loaded config and the lazily opened library.
type session struct {
	cfg *config.Config
	lib *library.Library
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the shelf CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{session: &session{}})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	format := opts.Format
	if format == "" {
		format = "text"
	}

	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "shelf - a personal book catalog",
		Long: `Catalog books by title, author, genre and year.

The collection lives in a canonical JSON (or CSV) file that is rewritten
after every change. Collections can be exported to and imported from JSON,
CSV and SQLite snapshot files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				err := fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeInvalidArgs, err)
			}
			if opts.inShell && cmd.Flags().Changed("config") {
				err := errors.New("--config cannot be changed inside the shell")
				return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeInvalidArgs, err)
			}
			if err := opts.loadConfig(); err != nil {
				return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeConfig, err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logger.ContextWithID(ctx, logger.NewOperationID()))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return opts.formatter(c).Fail(ExitCommandError, ErrCodeInvalidArgs, err)
	})

	// Add subcommands
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))

	return cmd
}

// loadConfig reads the config file and sets up logging once per session.
func (o *RootOptions) loadConfig() error {
	if o.session == nil {
		o.session = &session{}
	}
	if o.session.cfg != nil {
		return nil
	}

	cfg, err := config.Load(config.ResolvePath(o.ConfigPath))
	if err != nil {
		return err
	}
	if err := logger.Setup(cfg.Log.LoggerOptions(), o.Verbose); err != nil {
		return err
	}

	o.session.cfg = cfg
	return nil
}

// library returns the session's library, opening it on first use.
func (o *RootOptions) library(ctx context.Context) (*library.Library, error) {
	if err := o.loadConfig(); err != nil {
		return nil, err
	}
	if o.session.lib != nil {
		return o.session.lib, nil
	}

	opts, err := o.session.cfg.Library.Options()
	if err != nil {
		return nil, err
	}
	lib, err := library.Open(ctx, opts)
	if err != nil {
		return nil, err
	}

	o.session.lib = lib
	return lib, nil
}

// checkArgs reports positional argument errors through the formatter.
func (o *RootOptions) checkArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return o.formatter(cmd).Fail(ExitCommandError, ErrCodeInvalidArgs, err)
		}
		return nil
	}
}

// formatter builds an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
