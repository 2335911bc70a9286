// Package cli implements the packdex command-line interface.
//
// This package provides the serve command that runs the catalog HTTP
// service, a one-shot build command for inspecting catalogs from the
// terminal, and shell completion. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/packdex/packdex/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "packdex"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Packdex builds and serves a catalog of versioned artifacts",
		Long:         `Packdex assembles a catalog of versioned artifacts from an upstream package-search service, enriches it with per-version metadata, and serves it over HTTP through a time-bounded cache.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.completionCommand())

	return root
}
