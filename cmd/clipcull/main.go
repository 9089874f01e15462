// Package main is the entry point for the clipcull CLI tool.
package main

import (
	"os"

	"github.com/clipcull/clipcull/internal/buildinfo"
	"github.com/clipcull/clipcull/internal/cli"
)

// Build-time metadata injected via ldflags, wired into internal/buildinfo
// before the command tree runs.
var (
	version   = "dev"
	commit    = "unknown"
	date      = "unknown"
	goVersion = "unknown"
)

func main() {
	buildinfo.Version = version
	buildinfo.Commit = commit
	buildinfo.Date = date
	buildinfo.GoVersion = goVersion

	os.Exit(cli.Execute())
}
