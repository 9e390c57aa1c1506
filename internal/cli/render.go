package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"github.com/bjaus/multihead"
	"github.com/bjaus/multihead/xlsx"
)

// renderOptions holds flags for the render command.
type renderOptions struct {
	config       string
	format       string
	output       string
	sheet        string
	at           string
	noAutoFilter bool
	discoverKeys bool
}

// renderCommand creates the render command for writing reports.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [records.json]",
		Short: "Render JSON records as a multi-header report",
		Long: `Render JSON records as a multi-header report.

Records are read from the file argument or standard input, either as a JSON
array of objects or as one object per line. The record schema is inferred
from the first record. Writing to a .xlsx file produces an Excel workbook
with merged headers, formulas, hyperlinks and column formatting.`,
		Example: `  # Table on the terminal
  multihead render orders.json

  # Workbook with overrides from a report file
  multihead render orders.json -c report.toml -o orders.xlsx --sheet Orders --at B2

  # Markdown from JSON lines on stdin
  cat orders.jsonl | multihead render -f markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), cmd, input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "report file (.toml, .yaml)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (see 'multihead formats')")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.xlsx writes a workbook)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "worksheet name for .xlsx output")
	cmd.Flags().StringVar(&opts.at, "at", "", "top-left cell of the report (e.g. B3)")
	cmd.Flags().BoolVar(&opts.noAutoFilter, "no-autofilter", false, "disable the header filter row")
	cmd.Flags().BoolVar(&opts.discoverKeys, "discover-keys", false, "derive keys of list fields from the records")

	return cmd
}

// apply lets flags given on the command line override the report file.
func (o renderOptions) apply(cmd *cobra.Command, cfg *reportConfig) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("sheet") {
		cfg.Sheet = o.sheet
	}
	if flags.Changed("at") {
		cfg.Start = o.at
	}
	if o.noAutoFilter {
		off := false
		cfg.AutoFilter = &off
	}
	if o.discoverKeys {
		cfg.DiscoverKeys = true
	}
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, input string, opts renderOptions) error {
	prog := newProgress(c.Logger)

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	opts.apply(cmd, cfg)

	records, err := c.loadRecords(cmd, input)
	if err != nil {
		return err
	}

	report, err := c.newReport(cfg, records, opts.output == "")
	if err != nil {
		return err
	}

	seq := recordSeq(records, func() bool { return ctx.Err() != nil })

	if isWorkbook(opts.output) {
		n, err := writeWorkbook(opts.output, cfg.Sheet, report, seq)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Rendered %d records", n))
		printSuccess(c.status, "Rendered %d records", n)
		printFile(c.status, opts.output)
		return nil
	}

	format, err := multihead.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	if err := c.writeText(opts.output, format, report, seq); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d records", len(records)))
	if opts.output != "" {
		printSuccess(c.status, "Rendered %d records", len(records))
		printFile(c.status, opts.output)
	}
	return nil
}

func (c *CLI) loadRecords(cmd *cobra.Command, input string) ([]gjson.Result, error) {
	data, err := readInput(input, cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	records, err := parseRecords(data)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("records loaded", "count", len(records))
	return records, nil
}

// newReport infers the schema from the first record and builds the report.
func (c *CLI) newReport(cfg *reportConfig, records []gjson.Result, terminal bool) (*multihead.Report, error) {
	schema, err := multihead.InferSchema(cfg.Name, records[0])
	if err != nil {
		return nil, err
	}

	columns := cfg.Columns
	if cfg.DiscoverKeys {
		columns = discoverKeys(schema, records, columns)
	}

	opts, err := cfg.options(columns)
	if err != nil {
		return nil, err
	}
	opts = append(opts, multihead.WithLogger(c.Logger))
	if terminal && isTerminal(c.out) {
		opts = append(opts, multihead.WithHeaderStyle(styleHeaderCell))
	}

	report, err := multihead.NewReport(schema, opts...)
	if err != nil {
		return nil, err
	}
	l := report.Layout()
	c.Logger.Debug("layout", "columns", l.Width, "header_rows", l.Height)
	return report, nil
}

func (c *CLI) writeText(output string, f multihead.Format, report *multihead.Report, records iter.Seq[any]) (err error) {
	var w io.Writer = c.out
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = file
	}
	return report.Write(w, f, records)
}

func isWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// writeWorkbook renders into sheet of the workbook at path, creating the
// workbook when it does not exist yet.
func writeWorkbook(path, sheet string, report *multihead.Report, records iter.Seq[any]) (int, error) {
	f, err := openWorkbook(path, sheet)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sink, err := xlsx.NewSink(f, sheet)
	if err != nil {
		return 0, err
	}
	n, err := report.Render(sink, records)
	if err != nil {
		return n, err
	}
	if err := f.SaveAs(path); err != nil {
		return n, fmt.Errorf("save workbook: %w", err)
	}
	return n, nil
}

func openWorkbook(path, sheet string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	f = excelize.NewFile()
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}
	return f, nil
}
