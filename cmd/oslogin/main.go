package main

import (
	"fmt"
	"os"

	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands"
	"github.com/wonderfly/compute-image-packages/cmd/oslogin/commands/cmdutil"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Set version info for commands package
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Commands whose verdict maps to a non-zero exit (authorize on a
	// denied policy) record it instead of exiting mid-run.
	os.Exit(cmdutil.ExitCode())
}
