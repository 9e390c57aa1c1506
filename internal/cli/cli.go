// Package cli implements the multihead command-line interface.
//
// The render command reads JSON records, infers their schema and writes a
// multi-header report as text or as an Excel workbook. The layout command
// prints where every column lands on the grid. Report files in TOML or
// YAML carry the column overrides.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appName = "multihead"

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer // report output when no file is given
	status io.Writer // progress lines
}

// New creates a CLI writing reports to out and logs and status lines to
// errOut.
func New(out, errOut io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(errOut, level),
		out:    out,
		status: errOut,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Render JSON records as tables with nested, multi-row headers",
		Long:         `multihead lays out records whose fields are themselves records or key/value collections under merged, multi-row headers, and writes them as text tables, CSV, Markdown, HTML, JSON or Excel workbooks.`,
		Version:      Version,
		SilenceUsage: true,
	}

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.formatsCommand())

	return root
}
