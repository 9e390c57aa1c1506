package multihead

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
)

// Format represents a text output format.
type Format string

const (
	JSON     Format = "json"
	YAML     Format = "yaml"
	CSV      Format = "csv"
	Table    Format = "table"
	Markdown Format = "markdown"
	Plain    Format = "plain"
	TSV      Format = "tsv"
	JSONL    Format = "jsonl"
	HTML     Format = "html"
)

const goTemplatePrefix = "go-template="

var formats = []Format{JSON, YAML, CSV, Table, Markdown, Plain, TSV, JSONL, HTML}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported static format names.
// GoTemplate is not included because it is parameterized.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// GoTemplate returns a Format that renders each record's Row using a Go
// text/template. The sprig function library is available.
func GoTemplate(tmpl string) Format {
	return Format(goTemplatePrefix + tmpl)
}

// ParseFormat parses a format string. Recognizes all static formats and
// go-template=<tmpl> strings.
func ParseFormat(s string) (Format, error) {
	if strings.HasPrefix(s, goTemplatePrefix) {
		return Format(s), nil
	}
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// --- Optional Interfaces ---

// Titled renders a title above the table.
// Default: no title.
type Titled interface {
	Title() string
}

// Captioned renders a line below the table.
// Default: no caption.
type Captioned interface {
	Caption() string
}

// Bordered controls the table border style.
// Default: BorderRounded.
type Bordered interface {
	Border() BorderStyle
}

// Indented controls JSON/YAML indentation.
// Without it, JSON is compact and YAML uses its default indent.
type Indented interface {
	Indent() string
}

// Delimited controls the CSV field delimiter.
// Default: comma.
type Delimited interface {
	Delimiter() rune
}

// --- Value Types ---

// BorderStyle controls table border characters.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota // ╭─╮╰╯│┬┴├┤┼
	BorderNone                       // No borders, space-separated columns
	BorderASCII                      // +-+|
	BorderHeavy                      // ┏━┓┗┛┃┳┻┣┫╋
	BorderDouble                     // ╔═╗╚╝║╦╩╠╣╬
)

// Alignment controls column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Write lays out the Go struct type T, renders records and writes them to w
// in format f. Options set on the call take precedence over the optional
// interfaces implemented by the first record.
func Write[T any](w io.Writer, f Format, records []T, opts ...Option) error {
	if len(records) > 0 {
		opts = append(recordOptions(records[0]), opts...)
	}
	r, err := ReportOf[T](opts...)
	if err != nil {
		return err
	}
	return r.Write(w, f, anySeq(slices.Values(records)))
}

// Marshal formats records and returns the bytes.
func Marshal[T any](f Format, records []T, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, records, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recordOptions(first any) []Option {
	var opts []Option
	if t, ok := first.(Titled); ok {
		opts = append(opts, WithTitle(t.Title()))
	}
	if c, ok := first.(Captioned); ok {
		opts = append(opts, WithCaption(c.Caption()))
	}
	if b, ok := first.(Bordered); ok {
		opts = append(opts, WithBorder(b.Border()))
	}
	if ind, ok := first.(Indented); ok {
		opts = append(opts, WithIndent(ind.Indent()))
	}
	if d, ok := first.(Delimited); ok {
		opts = append(opts, WithDelimiter(d.Delimiter()))
	}
	return opts
}

// Write renders records into an in-memory grid and writes them to w in
// format f. CSV, TSV, JSONL and go-template output is streamed one record
// at a time; the other formats need every row before they can lay out.
func (r *Report) Write(w io.Writer, f Format, records iter.Seq[any]) error {
	switch f {
	case CSV, TSV, JSONL:
		return r.stream(w, f, records)
	case JSON, YAML, Table, Plain, Markdown, HTML:
	default:
		if _, ok := strings.CutPrefix(string(f), goTemplatePrefix); ok {
			return r.stream(w, f, records)
		}
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}

	g := NewGrid()
	n, err := r.Render(g, records)
	if err != nil {
		return err
	}
	s := newSheet(r.layout, g, r.cfg.appendAt == 0, r.FirstDataRow(), n)

	switch f {
	case JSON:
		return writeJSON(w, s, r.cfg)
	case YAML:
		return writeYAML(w, s, r.cfg)
	case Table:
		border := BorderRounded
		if r.cfg.border != nil {
			border = *r.cfg.border
		}
		return writeTable(w, s, r.cfg, border)
	case Plain:
		return writeTable(w, s, r.cfg, BorderNone)
	case Markdown:
		return writeMarkdown(w, s, r.cfg)
	default:
		return writeHTML(w, s, r.cfg)
	}
}
