package multihead

import (
	"strconv"
	"strings"
)

// sheet is the text-format view of a rendered Grid: the layout's grid
// columns, the header band and the data rows.
type sheet struct {
	leaves []Leaf
	header [][]headerCell // nil when the header band was not written
	rows   [][]Cell
}

type headerCell struct {
	text    string
	start   bool // first column of its cell
	covered bool // continues a cell from the row above
	span    int  // columns, set on the first column
	rowSpan int
}

func newSheet(l *Layout, g *Grid, header bool, first, n int) *sheet {
	s := &sheet{leaves: l.Leaves()}
	if header {
		s.header = readHeader(l, g, s.leaves)
	}
	for row := first; row < first+n; row++ {
		s.rows = append(s.rows, readRow(g, s.leaves, row))
	}
	return s
}

func readHeader(l *Layout, g *Grid, leaves []Leaf) [][]headerCell {
	first, last := l.HeaderRows()
	band := make([][]headerCell, 0, l.Height)
	for row := first; row <= last; row++ {
		cells := make([]headerCell, len(leaves))
		for i, leaf := range leaves {
			col := leaf.Column
			m, ok := g.MergeAt(row, col)
			switch {
			case !ok:
				cells[i] = headerCell{text: cellString(g.Value(row, col)), start: true, span: 1, rowSpan: 1}
			case m.Row == row && m.Column == col:
				cells[i] = headerCell{text: cellString(g.Value(row, col)), start: true, span: m.Columns, rowSpan: m.Rows}
			case m.Row < row:
				cells[i] = headerCell{covered: true, start: m.Column == col, span: m.Columns}
			}
		}
		band = append(band, cells)
	}
	return band
}

func readRow(g *Grid, leaves []Leaf, row int) []Cell {
	cells := make([]Cell, len(leaves))
	for i, leaf := range leaves {
		cells[i] = g.Cell(row, leaf.Column)
	}
	return cells
}

// headerPaths returns one key per grid column: the header labels from the
// top row down, joined with dots. A label path already taken by an earlier
// column falls back to the column's field path, numbered if needed.
func (s *sheet) headerPaths() []string {
	paths := make([]string, len(s.leaves))
	seen := make(map[string]bool, len(s.leaves))
	for i, leaf := range s.leaves {
		p := strings.Join(leaf.Labels, ".")
		if seen[p] {
			p = leaf.Path
			for n := 2; seen[p]; n++ {
				p = leaf.Path + "~" + strconv.Itoa(n)
			}
		}
		seen[p] = true
		paths[i] = p
	}
	return paths
}

// headerText returns the header band as plain rows, with merged cells
// written once in their top-left corner.
func (s *sheet) headerText() [][]string {
	out := make([][]string, len(s.header))
	for r, cells := range s.header {
		out[r] = make([]string, len(cells))
		for c, hc := range cells {
			if hc.start && !hc.covered {
				out[r][c] = hc.text
			}
		}
	}
	return out
}

func (s *sheet) rowText(r int) []string {
	return cellTexts(s.rows[r])
}

func cellTexts(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = cellText(c)
	}
	return out
}

// cellText renders a cell for text output. Formulas are shown as written.
func cellText(c Cell) string {
	if c.Formula != "" {
		if strings.HasPrefix(c.Formula, "=") {
			return c.Formula
		}
		return "=" + c.Formula
	}
	return cellString(c.Value)
}
