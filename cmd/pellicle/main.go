// Package main provides the pellicle CLI entrypoint.
//
// Usage:
//
//	pellicle <command> [options]
//
// Exit codes:
//   - 0: success
//   - 1: missing or unreadable input
//   - 2: render or sink failure
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pellicle-io/pellicle/cli/cmd"
	"github.com/pellicle-io/pellicle/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "pellicle",
		Usage:          "Biofilm simulation visualization CLI",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.RenderCommand(),
			cmd.SnapshotCommand(),
			cmd.InspectCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder
		// errors; this branch covers unwrapped ones.
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit() so callers can
// distinguish input problems from render failures.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N"; skip those.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
