// cmd/repomind/main.go
package main

import (
	"os"

	repomind "github.com/mwiater/repomind/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Seams replaced in tests.
var (
	setVersionInfo = repomind.SetVersionInfo
	executeCmd     = repomind.Execute
	exit           = os.Exit
)

// main injects build metadata and runs the repomind root command, exiting
// non-zero when the command fails.
func main() {
	setVersionInfo(version, commit, date)
	if err := executeCmd(); err != nil {
		exit(1)
	}
}
