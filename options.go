package multihead

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option configures layout building, report rendering and text output.
type Option func(*config)

type config struct {
	catalog    Catalog
	accessor   Accessor
	logger     *log.Logger
	columns    []Column
	startRow   int
	startCol   int
	appendAt   int
	autoFilter bool

	border      *BorderStyle
	title       string
	caption     string
	maxWidths   []int
	aligns      []Alignment
	headerStyle func(string) string
	indent      string
	delimiter   rune
}

func newConfig(opts []Option) *config {
	c := &config{
		startRow:   1,
		startCol:   1,
		autoFilter: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// WithColumns adds column overrides. Overrides are applied in the order
// they are given across all calls.
func WithColumns(cols ...Column) Option {
	return func(c *config) { c.columns = append(c.columns, cols...) }
}

// WithCatalog sets the field catalog used to enumerate record fields.
func WithCatalog(cat Catalog) Option {
	return func(c *config) { c.catalog = cat }
}

// WithAccessor sets the accessor used to read field values off records.
func WithAccessor(a Accessor) Option {
	return func(c *config) { c.accessor = a }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStart places the top-left header cell at the given 1-based grid
// position. Values below 1 are treated as 1.
func WithStart(row, col int) Option {
	return func(c *config) {
		c.startRow, c.startCol = max(row, 1), max(col, 1)
	}
}

// WithAppendAt skips the header band and writes the first data row at row,
// continuing a report previously rendered into the same sink.
func WithAppendAt(row int) Option {
	return func(c *config) { c.appendAt = max(row, 0) }
}

// WithAutoFilter toggles the filter on the last header row. On by default.
func WithAutoFilter(on bool) Option {
	return func(c *config) { c.autoFilter = on }
}

// WithBorder sets the table border style.
func WithBorder(b BorderStyle) Option {
	return func(c *config) { c.border = &b }
}

// WithTitle renders a title above the table.
func WithTitle(title string) Option {
	return func(c *config) { c.title = title }
}

// WithCaption renders a line below the table.
func WithCaption(caption string) Option {
	return func(c *config) { c.caption = caption }
}

// WithMaxWidths truncates table cells per grid column, counted from the
// first column of the layout. Zero means no limit.
func WithMaxWidths(widths ...int) Option {
	return func(c *config) { c.maxWidths = widths }
}

// WithAlignments sets per-column alignment for table, markdown and html.
func WithAlignments(aligns ...Alignment) Option {
	return func(c *config) { c.aligns = aligns }
}

// WithHeaderStyle wraps every formatted header cell of table output. The
// function runs after width calculation, so ANSI sequences are safe.
func WithHeaderStyle(fn func(string) string) Option {
	return func(c *config) { c.headerStyle = fn }
}

// WithIndent sets JSON and YAML indentation.
func WithIndent(indent string) Option {
	return func(c *config) { c.indent = indent }
}

// WithDelimiter sets the CSV field delimiter.
func WithDelimiter(r rune) Option {
	return func(c *config) { c.delimiter = r }
}
