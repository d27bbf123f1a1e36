package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	shellPrompt      = "shelf> "
	shellHistoryFile = ".shelf_history"
)

// lineReader is the part of *liner.State the shell loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// shellCommands are offered by tab completion.
var shellCommands = []string{"add", "remove", "search", "list", "export", "import", "help", "exit", "quit"}

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session over one open library",
		Long: `Start an interactive prompt. Each line is run as a shelf command
against the same open library, for example:

  shelf> add "The Left Hand of Darkness" "Ursula K. Le Guin" Sci-Fi 1969
  shelf> search "le guin"

Global flags such as --format apply to one line only. The config file is
read once when the shell starts, so --config is rejected inside it.

Type exit or quit, or press Ctrl-D, to leave.`,
		Args:          rootOpts.checkArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := liner.NewLiner()
			defer state.Close()

			state.SetCtrlCAborts(true)
			state.SetCompleter(completeCommand)

			historyPath := shellHistoryPath()
			if f, err := os.Open(historyPath); err == nil {
				_, _ = state.ReadHistory(f)
				f.Close()
			}
			defer func() {
				if f, err := os.Create(historyPath); err == nil {
					_, _ = state.WriteHistory(f)
					f.Close()
				}
			}()

			return runShell(rootOpts, state, cmd)
		},
	}
}

func runShell(opts *RootOptions, in lineReader, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "shelf interactive shell. Type 'help' for commands, 'exit' to leave.")

	for {
		line, err := in.Prompt(shellPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "read input", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		in.AppendHistory(line)

		if line == "exit" || line == "quit" {
			return nil
		}

		words, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(out, "Error [%s]: %v\n", ErrCodeInvalidArgs, err)
			continue
		}
		if len(words) == 0 {
			continue
		}
		if words[0] == "shell" {
			fmt.Fprintln(out, "Already in the shell.")
			continue
		}

		// Command errors arrive as *ExitError and are already rendered.
		if err := execShellLine(opts, words, cmd); err != nil {
			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				_ = opts.formatter(cmd).Error(ErrCodeInvalidArgs, err.Error(), nil)
			}
		}
	}
}

// execShellLine runs one command with a fresh command tree that shares the
// session, so flags given on the line do not leak into later lines.
func execShellLine(opts *RootOptions, words []string, parent *cobra.Command) error {
	child := *opts
	child.inShell = true
	root := newRootCommand(&child)
	root.SetArgs(words)
	root.SetOut(parent.OutOrStdout())
	root.SetErr(parent.ErrOrStderr())

	ctx := parent.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return root.ExecuteContext(ctx)
}

func completeCommand(line string) []string {
	var out []string
	for _, c := range shellCommands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

func shellHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return shellHistoryFile
	}
	return filepath.Join(home, shellHistoryFile)
}
