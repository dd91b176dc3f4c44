// PrintQuote command line: imposition, paper estimates and the HTTP
// estimate service.
//
// Build:
//   go build -ldflags "-X main.version=1.0.0" -o printquote ./cmd/printquote
package main

import (
	"os"
	"runtime/debug"

	"github.com/piwi3910/PrintQuote/internal/cli"
)

// Version information set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	fillVersionFromBuildInfo()
	cli.Version, cli.Commit = version, commit
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

func fillVersionFromBuildInfo() {
	if version != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	commit = commitFromSettings(info.Settings)
}

func commitFromSettings(settings []debug.BuildSetting) string {
	var revision string
	dirty := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(revision) < 7 {
		return "unknown"
	}
	c := revision[:7]
	if dirty {
		c += "-dirty"
	}
	return c
}
