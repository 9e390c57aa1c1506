package multihead

import "fmt"

// Sink receives the cells, merges and formatting commands of a report.
// Coordinates are 1-based. The engine never reads a sink back, and a sink
// is written by one report at a time.
type Sink interface {
	SetCellValue(row, col int, value any) error
	SetCellFormula(row, col int, formula string) error
	SetHyperlink(row, col int, uri string) error
	MergeRange(row, col, rowSpan, colSpan int) error
	SetColumnHidden(col int, hidden bool) error
	SetColumnWidth(col int, w Width) error
	ApplyNamedStyle(r Range, style string) error
	SetAutoFilter(row, colStart, colEnd int, on bool) error
}

// Range is a rectangular block of cells.
type Range struct {
	Row     int
	Column  int
	Rows    int
	Columns int
}

// Contains reports whether the cell at row, col lies inside r.
func (r Range) Contains(row, col int) bool {
	return row >= r.Row && row < r.Row+r.Rows && col >= r.Column && col < r.Column+r.Columns
}

// LastRow returns the last row covered by r.
func (r Range) LastRow() int { return r.Row + r.Rows - 1 }

// LastColumn returns the last column covered by r.
func (r Range) LastColumn() int { return r.Column + r.Columns - 1 }

func (r Range) String() string {
	return fmt.Sprintf("R%dC%d:R%dC%d", r.Row, r.Column, r.LastRow(), r.LastColumn())
}
