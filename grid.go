package multihead

import (
	"fmt"
	"slices"
)

// Cell is one cell of a Grid.
type Cell struct {
	Value   any
	Formula string
	Link    string
}

// StyledRange is a style tag applied to a range of a Grid.
type StyledRange struct {
	Range
	Style string
}

// AutoFilter is the filter row of a Grid.
type AutoFilter struct {
	Row      int
	ColStart int
	ColEnd   int
}

// Grid is an in-memory Sink. It backs the text formats and is handy in
// tests. Rows can be dropped once consumed, so streamed output keeps only
// the rows still being written.
type Grid struct {
	rows    map[int]map[int]*Cell
	lastRow int
	lastCol int
	merges  []Range
	hidden  map[int]bool
	widths  map[int]Width
	styles  []StyledRange
	filter  *AutoFilter
}

var _ Sink = (*Grid)(nil)

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{
		rows:   make(map[int]map[int]*Cell),
		hidden: make(map[int]bool),
		widths: make(map[int]Width),
	}
}

func (g *Grid) cell(row, col int) (*Cell, error) {
	if row < 1 || col < 1 {
		return nil, fmt.Errorf("cell R%dC%d is outside the grid", row, col)
	}
	r, ok := g.rows[row]
	if !ok {
		r = make(map[int]*Cell)
		g.rows[row] = r
	}
	c, ok := r[col]
	if !ok {
		c = &Cell{}
		r[col] = c
	}
	g.lastRow = max(g.lastRow, row)
	g.lastCol = max(g.lastCol, col)
	return c, nil
}

// SetCellValue implements Sink.
func (g *Grid) SetCellValue(row, col int, value any) error {
	c, err := g.cell(row, col)
	if err != nil {
		return err
	}
	c.Value = value
	return nil
}

// SetCellFormula implements Sink.
func (g *Grid) SetCellFormula(row, col int, formula string) error {
	c, err := g.cell(row, col)
	if err != nil {
		return err
	}
	c.Formula = formula
	return nil
}

// SetHyperlink implements Sink.
func (g *Grid) SetHyperlink(row, col int, uri string) error {
	c, err := g.cell(row, col)
	if err != nil {
		return err
	}
	c.Link = uri
	return nil
}

// MergeRange implements Sink. Overlapping merges are rejected.
func (g *Grid) MergeRange(row, col, rowSpan, colSpan int) error {
	if rowSpan < 1 || colSpan < 1 {
		return fmt.Errorf("merge at R%dC%d: spans must be positive", row, col)
	}
	r := Range{Row: row, Column: col, Rows: rowSpan, Columns: colSpan}
	for _, m := range g.merges {
		if overlaps(m, r) {
			return fmt.Errorf("merge %s overlaps %s", r, m)
		}
	}
	g.merges = append(g.merges, r)
	g.lastRow = max(g.lastRow, r.LastRow())
	g.lastCol = max(g.lastCol, r.LastColumn())
	return nil
}

func overlaps(a, b Range) bool {
	return a.Row <= b.LastRow() && b.Row <= a.LastRow() &&
		a.Column <= b.LastColumn() && b.Column <= a.LastColumn()
}

// SetColumnHidden implements Sink.
func (g *Grid) SetColumnHidden(col int, hidden bool) error {
	g.hidden[col] = hidden
	return nil
}

// SetColumnWidth implements Sink.
func (g *Grid) SetColumnWidth(col int, w Width) error {
	g.widths[col] = w
	return nil
}

// ApplyNamedStyle implements Sink.
func (g *Grid) ApplyNamedStyle(r Range, style string) error {
	g.styles = append(g.styles, StyledRange{Range: r, Style: style})
	return nil
}

// SetAutoFilter implements Sink.
func (g *Grid) SetAutoFilter(row, colStart, colEnd int, on bool) error {
	if !on {
		g.filter = nil
		return nil
	}
	g.filter = &AutoFilter{Row: row, ColStart: colStart, ColEnd: colEnd}
	return nil
}

// Cell returns the cell at row, col. Missing cells are zero.
func (g *Grid) Cell(row, col int) Cell {
	if c, ok := g.rows[row][col]; ok {
		return *c
	}
	return Cell{}
}

// Value returns the value at row, col.
func (g *Grid) Value(row, col int) any { return g.Cell(row, col).Value }

// Row returns the values of row from column 1 through the last written
// column.
func (g *Grid) Row(row int) []any {
	out := make([]any, g.lastCol)
	for col, c := range g.rows[row] {
		out[col-1] = c.Value
	}
	return out
}

// Rows returns the last row written.
func (g *Grid) Rows() int { return g.lastRow }

// Columns returns the last column written.
func (g *Grid) Columns() int { return g.lastCol }

// Merges returns the merged ranges in the order they were requested.
func (g *Grid) Merges() []Range { return slices.Clone(g.merges) }

// MergeAt returns the merged range covering row, col.
func (g *Grid) MergeAt(row, col int) (Range, bool) {
	for _, m := range g.merges {
		if m.Contains(row, col) {
			return m, true
		}
	}
	return Range{}, false
}

// Hidden reports whether col was hidden.
func (g *Grid) Hidden(col int) bool { return g.hidden[col] }

// ColumnWidth returns the width set on col.
func (g *Grid) ColumnWidth(col int) (Width, bool) {
	w, ok := g.widths[col]
	return w, ok
}

// Styles returns the styled ranges in the order they were applied.
func (g *Grid) Styles() []StyledRange { return slices.Clone(g.styles) }

// AutoFilter returns the filter row, if one is set.
func (g *Grid) AutoFilter() (AutoFilter, bool) {
	if g.filter == nil {
		return AutoFilter{}, false
	}
	return *g.filter, true
}

// DropRow forgets the cells of row. Merges, widths and styles are kept.
func (g *Grid) DropRow(row int) { delete(g.rows, row) }
