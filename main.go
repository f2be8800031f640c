package main

import (
	"fmt"
	"os"

	"github.com/tphakala/perfreport/cmd"
	"github.com/tphakala/perfreport/internal/buildinfo"
	"github.com/tphakala/perfreport/internal/conf"
)

// Build metadata, set with -ldflags "-X main.version=..."
var (
	version   = "dev"
	buildDate string
	commit    string
)

func main() {
	settings := &conf.Settings{}
	build := buildinfo.NewContext(version, buildDate, commit)

	rootCmd := cmd.RootCommand(conf.NewViper(), settings, build)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
