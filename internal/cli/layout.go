package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bjaus/multihead"
)

// layoutRow is one node of the printed layout tree.
type layoutRow struct {
	Path     string
	Header   string
	Category string
	Row      int
	Column   int
	Span     int
	Order    int
	Keys     string
}

// layoutCommand creates the layout command for inspecting column placement.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		config string
		format string
	)

	cmd := &cobra.Command{
		Use:   "layout [records.json]",
		Short: "Show where each column of a report lands on the grid",
		Long: `Show where each column of a report lands on the grid.

The schema is inferred from the first record and the report file's column
overrides are applied, exactly as render would. Each header node is listed
with its grid row, first column, column span and sibling order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runLayout(cmd.Context(), cmd, input, config, format)
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "report file (.toml, .yaml)")
	cmd.Flags().StringVarP(&format, "format", "f", string(multihead.Table), "output format")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, cmd *cobra.Command, input, config, format string) error {
	cfg, err := loadConfig(config)
	if err != nil {
		return err
	}
	f, err := multihead.ParseFormat(format)
	if err != nil {
		return err
	}
	records, err := c.loadRecords(cmd, input)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	report, err := c.newReport(cfg, records, false)
	if err != nil {
		return err
	}
	return multihead.Write(c.out, f, layoutRows(report.Layout()))
}

func layoutRows(l *multihead.Layout) []layoutRow {
	var rows []layoutRow
	l.Walk(func(n *multihead.Node) bool {
		rows = append(rows, layoutRow{
			Path:     n.Path,
			Header:   n.Label(),
			Category: n.Category.String(),
			Row:      l.StartRow + n.Depth - 1,
			Column:   n.GridIndex,
			Span:     n.Span,
			Order:    n.Order,
			Keys:     strings.Join(n.Keys(), ", "),
		})
		return true
	})
	return rows
}
