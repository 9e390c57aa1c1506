// Package multihead renders collections of records into a grid with
// multi-row, nested headers.
//
// A record whose fields are themselves records produces header cells that
// span several rows and columns, mirroring the nesting. The layout is built
// once per record type from a [Catalog] describing its fields and a list of
// [Column] overrides, then every record is written as one grid row into a
// [Sink].
//
// # Layout
//
// [BuildLayout], [LayoutOf] and [NewReport] place every field on the grid.
// Top-level fields start on the first header row; nested record fields are
// laid out one row further down, under a label merged across their columns.
// Leaf labels are merged down to the bottom of the header band.
//
//	type Person struct {
//		Name    string
//		Address Address
//	}
//
//	l, err := multihead.LayoutOf[Person]()
//	// l.Height == 2, l.Width == 1 + number of Address fields
//
// # Overrides
//
// A [Column] addresses a field by dotted path ("Address.City") and can set
// an explicit order, a display name, ignore or hide it, attach a style tag
// or a width, declare multi-value keys, or define a virtual column backed by
// a compute function or a formula:
//
//	multihead.WithColumns(
//		multihead.Column{Path: "Name", Order: 1, DisplayName: "Full name"},
//		multihead.Column{Path: "Scores", Keys: []string{"math", "art"}},
//		multihead.Column{Path: "Total", Formula: "SUM(C{row}:D{row})"},
//	)
//
// Columns with an explicit order come first in the sequence they are
// declared, not sorted by their order value. Two adjacent ordered columns
// with the same order are an [ErrOrderConflict].
//
// Map, slice and array fields are multi-value fields and render one column
// per declared key. A runtime key that was not declared stops rendering
// with an [ErrUnknownKey].
//
// # Sinks
//
// [Grid] is an in-memory sink. The xlsx subpackage writes Excel workbooks.
// [Report.Render] writes the header band, the rows, then column widths,
// visibility, the filter row and style tags.
//
// # Text Formats
//
// [Write] and [Marshal] render records into a [Grid] and print it as a
// table, plain text, CSV, TSV, Markdown, HTML, JSON, JSON lines, YAML, or
// through a Go template:
//
//	multihead.Write(os.Stdout, multihead.Table, people)
//	multihead.Write(os.Stdout, multihead.GoTemplate("{{.Values.Name}}"), people)
//
// Use [ParseFormat] to convert a CLI flag string into a [Format].
//
// # JSON Records
//
// [InferSchema] derives a [Schema] from a sample JSON object. Reports built
// on a *Schema read records with [JSONAccessor]:
//
//	schema, _ := multihead.InferSchema("order", first)
//	r, _ := multihead.NewReport(schema)
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrConfiguration]: overrides or record types that cannot be laid out
//   - [ErrOrderConflict]: two ordered columns claim the same position
//   - [ErrUnknownKey]: a multi-value entry with an undeclared key
//   - [ErrLinkResolution]: an invalid hyperlink on a strict link column
//   - [ErrUnsupportedFormat]: unknown format string
//   - [ErrInvalidTemplate]: invalid go-template syntax
package multihead
