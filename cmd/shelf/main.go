// Command shelf catalogs books in a local JSON or CSV file.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/shelf/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Command failures are rendered by the command itself.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
