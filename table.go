package multihead

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var borderSets = map[BorderStyle]borderChars{
	BorderRounded: {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
		cross: "┼",
	},
	BorderASCII: {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topTee: "+", bottomTee: "+", leftTee: "+", rightTee: "+",
		cross: "+",
	},
	BorderHeavy: {
		topLeft: "┏", topRight: "┓", bottomLeft: "┗", bottomRight: "┛",
		horizontal: "━", vertical: "┃",
		topTee: "┳", bottomTee: "┻", leftTee: "┣", rightTee: "┫",
		cross: "╋",
	},
	BorderDouble: {
		topLeft: "╔", topRight: "╗", bottomLeft: "╚", bottomRight: "╝",
		horizontal: "═", vertical: "║",
		topTee: "╦", bottomTee: "╩", leftTee: "╠", rightTee: "╣",
		cross: "╬",
	},
}

// Column gaps between adjacent cells: " │ " for bordered tables, two spaces
// for plain ones.
const (
	borderedGap = 3
	plainGap    = 2
)

func writeTable(w io.Writer, s *sheet, cfg *config, border BorderStyle) error {
	numCols := len(s.leaves)
	rows := make([][]string, len(s.rows))
	for i := range s.rows {
		rows[i] = s.rowText(i)
	}

	gap := borderedGap
	if border == BorderNone {
		gap = plainGap
	}
	widths := computeWidths(numCols, s.header, rows, gap)
	for i, limit := range cfg.maxWidths {
		if i < numCols && limit > 0 && widths[i] > limit {
			widths[i] = limit
		}
	}
	aligns := extendAligns(cfg.aligns, numCols)

	var err error
	if border == BorderNone {
		err = renderPlainTable(w, s.header, rows, widths, aligns, cfg.headerStyle)
	} else {
		err = renderBorderedTable(w, cfg.title, s.header, rows, widths, aligns, border, cfg.headerStyle)
	}
	if err != nil {
		return err
	}

	if cfg.caption != "" {
		if _, err := fmt.Fprintln(w, cfg.caption); err != nil {
			return err
		}
	}
	return nil
}

// computeWidths sizes each grid column for its data and single-column
// header cells, then widens the last column of any span whose label does
// not fit.
func computeWidths(numCols int, header [][]headerCell, rows [][]string, gap int) []int {
	widths := make([]int, numCols)
	for _, cells := range header {
		for i, hc := range cells {
			if hc.start && !hc.covered && hc.span <= 1 {
				widths[i] = max(widths[i], runewidth.StringWidth(hc.text))
			}
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	for _, cells := range header {
		for i, hc := range cells {
			if !hc.start || hc.covered || hc.span <= 1 {
				continue
			}
			need := runewidth.StringWidth(hc.text)
			if have := spanWidth(widths, i, hc.span, gap); need > have {
				widths[i+hc.span-1] += need - have
			}
		}
	}
	return widths
}

// spanWidth returns the printable width of span columns starting at col,
// including the gaps between them.
func spanWidth(widths []int, col, span, gap int) int {
	span = max(min(span, len(widths)-col), 1)
	n := 0
	for _, w := range widths[col : col+span] {
		n += w
	}
	return n + gap*(span-1)
}

func extendAligns(aligns []Alignment, numCols int) []Alignment {
	if len(aligns) >= numCols {
		return aligns[:numCols]
	}
	extended := make([]Alignment, numCols)
	copy(extended, aligns)
	return extended
}

// headerCellAlign centers labels that span several columns.
func headerCellAlign(hc headerCell, aligns []Alignment, col int) Alignment {
	if hc.span > 1 {
		return AlignCenter
	}
	return aligns[col]
}

// --- Plain table (BorderNone) ---

func renderPlainTable(w io.Writer, header [][]headerCell, rows [][]string, widths []int, aligns []Alignment, style func(string) string) error {
	for _, cells := range header {
		if err := writePlainHeader(w, cells, widths, aligns, style); err != nil {
			return err
		}
	}
	if len(header) > 0 {
		if err := writePlainSep(w, widths); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := writePlainRow(w, row, widths, aligns); err != nil {
			return err
		}
	}
	return nil
}

func writePlainSep(w io.Writer, widths []int) error {
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	_, err := fmt.Fprintln(w, strings.Join(sep, "  "))
	return err
}

func writePlainHeader(w io.Writer, cells []headerCell, widths []int, aligns []Alignment, style func(string) string) error {
	var parts []string
	for i, hc := range cells {
		if !hc.start {
			continue
		}
		text := hc.text
		if hc.covered {
			text = ""
		}
		formatted := formatTableCell(text, spanWidth(widths, i, hc.span, plainGap), headerCellAlign(hc, aligns, i))
		if style != nil {
			formatted = style(formatted)
		}
		parts = append(parts, formatted)
	}
	line := strings.TrimRight(strings.Join(parts, "  "), " ")
	_, err := fmt.Fprintln(w, line)
	return err
}

func writePlainRow(w io.Writer, cells []string, widths []int, aligns []Alignment) error {
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = formatTableCell(cell, width, aligns[i])
	}
	line := strings.TrimRight(strings.Join(parts, "  "), " ")
	_, err := fmt.Fprintln(w, line)
	return err
}

// --- Bordered table ---

// lineRow is the cell structure of a row next to a horizontal rule.
type lineRow struct {
	starts  []bool // column begins a new cell
	covered []bool // column continues a cell from the row above
}

func headerLineRow(cells []headerCell) *lineRow {
	lr := &lineRow{starts: make([]bool, len(cells)), covered: make([]bool, len(cells))}
	for i, hc := range cells {
		lr.starts[i] = hc.start
		lr.covered[i] = hc.covered
	}
	return lr
}

func dataLineRow(numCols int) *lineRow {
	lr := &lineRow{starts: make([]bool, numCols), covered: make([]bool, numCols)}
	for i := range lr.starts {
		lr.starts[i] = true
	}
	return lr
}

// titleLineRow is a single cell over the whole table width.
func titleLineRow(numCols int) *lineRow {
	lr := &lineRow{starts: make([]bool, numCols), covered: make([]bool, numCols)}
	if numCols > 0 {
		lr.starts[0] = true
	}
	return lr
}

func renderBorderedTable(w io.Writer, title string, header [][]headerCell, rows [][]string, widths []int, aligns []Alignment, border BorderStyle, style func(string) string) error {
	bc := borderSets[border]
	numCols := len(widths)

	var above *lineRow
	if title != "" {
		if err := drawHLine(w, bc, widths, nil, titleLineRow(numCols)); err != nil {
			return err
		}
		inner := tableInnerWidth(widths) - 2 // subtract 1-space padding on each side
		padded := alignCell(title, inner, AlignCenter)
		if _, err := fmt.Fprintf(w, "%s %s %s\n", bc.vertical, padded, bc.vertical); err != nil {
			return err
		}
		above = titleLineRow(numCols)
	}

	for _, cells := range header {
		below := headerLineRow(cells)
		if err := drawHLine(w, bc, widths, above, below); err != nil {
			return err
		}
		if err := drawHeaderRow(w, cells, widths, aligns, bc.vertical, style); err != nil {
			return err
		}
		above = below
	}

	data := dataLineRow(numCols)
	for i, row := range rows {
		if i == 0 {
			if err := drawHLine(w, bc, widths, above, data); err != nil {
				return err
			}
		}
		if err := drawBorderedRow(w, row, widths, aligns, bc.vertical); err != nil {
			return err
		}
		above = data
	}
	if len(rows) == 0 && above == nil {
		if err := drawHLine(w, bc, widths, nil, data); err != nil {
			return err
		}
		above = data
	}

	return drawHLine(w, bc, widths, above, nil)
}

// tableInnerWidth returns the total character width between the outer vertical
// borders of a bordered table. Each cell contributes its width plus 2 (one
// space of padding on each side), and cells are separated by a single vertical
// border character.
func tableInnerWidth(widths []int) int {
	n := 0
	for _, w := range widths {
		n += w + 2
	}
	if len(widths) > 1 {
		n += len(widths) - 1
	}
	return n
}

// drawHLine draws the rule between two rows. A nil above is the top edge
// and a nil below the bottom edge. Columns whose cell continues through the
// rule are left open.
func drawHLine(w io.Writer, bc borderChars, widths []int, above, below *lineRow) error {
	_, err := fmt.Fprintln(w, hline(bc, widths, above, below))
	return err
}

func hline(bc borderChars, widths []int, above, below *lineRow) string {
	n := len(widths)
	open := make([]bool, n)
	if below != nil {
		copy(open, below.covered)
	}

	var sb strings.Builder
	switch {
	case n > 0 && open[0]:
		sb.WriteString(bc.vertical)
	case above == nil:
		sb.WriteString(bc.topLeft)
	case below == nil:
		sb.WriteString(bc.bottomLeft)
	default:
		sb.WriteString(bc.leftTee)
	}

	for i, width := range widths {
		fill := bc.horizontal
		if open[i] {
			fill = " "
		}
		sb.WriteString(strings.Repeat(fill, width+2))
		if i < n-1 {
			sb.WriteString(joint(bc, above, below, open, i+1))
		}
	}

	switch {
	case n > 0 && open[n-1]:
		sb.WriteString(bc.vertical)
	case above == nil:
		sb.WriteString(bc.topRight)
	case below == nil:
		sb.WriteString(bc.bottomRight)
	default:
		sb.WriteString(bc.rightTee)
	}
	return sb.String()
}

// joint picks the character on the boundary left of column j.
func joint(bc borderChars, above, below *lineRow, open []bool, j int) string {
	up := above != nil && above.starts[j]
	down := below != nil && below.starts[j]
	left, right := open[j-1], open[j]
	switch {
	case left && right:
		return bc.vertical
	case left:
		return bc.leftTee
	case right:
		return bc.rightTee
	case up && down:
		return bc.cross
	case up:
		return bc.bottomTee
	case down:
		return bc.topTee
	default:
		return bc.horizontal
	}
}

func drawHeaderRow(w io.Writer, cells []headerCell, widths []int, aligns []Alignment, vert string, style func(string) string) error {
	var sb strings.Builder
	sb.WriteString(vert)
	for i, hc := range cells {
		if !hc.start {
			continue
		}
		text := hc.text
		if hc.covered {
			text = ""
		}
		sb.WriteString(" ")
		formatted := formatTableCell(text, spanWidth(widths, i, hc.span, borderedGap), headerCellAlign(hc, aligns, i))
		if style != nil && !hc.covered {
			formatted = style(formatted)
		}
		sb.WriteString(formatted)
		sb.WriteString(" ")
		sb.WriteString(vert)
	}
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func drawBorderedRow(w io.Writer, cells []string, widths []int, aligns []Alignment, vert string) error {
	var sb strings.Builder
	sb.WriteString(vert)
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(" ")
		sb.WriteString(formatTableCell(cell, width, aligns[i]))
		sb.WriteString(" ")
		sb.WriteString(vert)
	}
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func formatTableCell(s string, width int, align Alignment) string {
	if width > 0 && runewidth.StringWidth(s) > width {
		if width <= 3 {
			s = runewidth.Truncate(s, width, "")
		} else {
			s = runewidth.Truncate(s, width, "...")
		}
	}
	return alignCell(s, width, align)
}

func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + s
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", pad)
	}
}
