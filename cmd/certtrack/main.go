package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lfs-lab/certtrack/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // Set by the linker

// exitInterrupted is the conventional exit code after SIGINT.
const exitInterrupted = 130

func main() {
	err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

func run() error {
	root := cli.NewRootCmd(version)
	return root.ExecuteContext(context.Background())
}

// exitCode maps a command error onto the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return 1
	}
}
