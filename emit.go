package multihead

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// rowPlaceholder in formula text is replaced with the grid row being written.
const rowPlaceholder = "{row}"

type emitter struct {
	sink     Sink
	accessor Accessor
	logger   *log.Logger
}

// writeHeader writes the header band of l starting at l.StartRow.
func (e *emitter) writeHeader(l *Layout) error {
	_, bottom := l.HeaderRows()
	return e.headerNodes(l.Columns, l.StartRow, bottom)
}

// headerNodes writes the labels of nodes. top is the first header row of
// the layout, so a node's row is top + Depth - 1.
func (e *emitter) headerNodes(nodes []*Node, top, bottom int) error {
	for _, n := range nodes {
		row := top + n.Depth - 1
		if err := e.sink.SetCellValue(row, n.GridIndex, n.Label()); err != nil {
			return err
		}
		switch n.Category {
		case NestedRecord:
			if err := e.merge(row, n.GridIndex, 1, n.Span); err != nil {
				return err
			}
			if err := e.headerNodes(n.Children, top, bottom); err != nil {
				return err
			}
		case MultiValue:
			if err := e.merge(row, n.GridIndex, 1, n.Span); err != nil {
				return err
			}
			if err := e.keyHeaders(n, row+1, top, bottom); err != nil {
				return err
			}
		default:
			if err := e.merge(row, n.GridIndex, bottom-row+1, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *emitter) keyHeaders(n *Node, row, top, bottom int) error {
	mv := n.multi
	for i, key := range mv.keys {
		col := n.GridIndex + mv.offset[key]
		if err := e.sink.SetCellValue(row, col, key); err != nil {
			return err
		}
		if mv.sub == nil {
			if err := e.merge(row, col, bottom-row+1, 1); err != nil {
				return err
			}
			continue
		}
		if err := e.merge(row, col, 1, mv.subWidth); err != nil {
			return err
		}
		if err := e.headerNodes(mv.sub[i], top, bottom); err != nil {
			return err
		}
	}
	return nil
}

// merge requests a merge unless it would cover a single cell.
func (e *emitter) merge(row, col, rowSpan, colSpan int) error {
	if rowSpan <= 1 && colSpan <= 1 {
		return nil
	}
	return e.sink.MergeRange(row, col, rowSpan, colSpan)
}

// writeRow writes one record at row.
func (e *emitter) writeRow(nodes []*Node, record any, row int) error {
	for _, n := range nodes {
		var err error
		switch n.Category {
		case Scalar:
			err = e.writeScalar(n, record, row)
		case Dynamic:
			err = e.writeDynamic(n, record, row)
		case NestedRecord:
			err = e.writeNested(n, record, row)
		case MultiValue:
			err = e.writeMulti(n, record, row)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) writeScalar(n *Node, record any, row int) error {
	v, err := e.accessor.Get(record, n.Name)
	if err != nil {
		return fmt.Errorf("column %q: %w", n.Path, err)
	}
	if err := e.sink.SetCellValue(row, n.GridIndex, v); err != nil {
		return err
	}
	return e.writeLink(n, record, row)
}

func (e *emitter) writeDynamic(n *Node, record any, row int) error {
	d := n.dynamic
	if d.formula != "" {
		formula := strings.ReplaceAll(d.formula, rowPlaceholder, strconv.Itoa(row))
		if err := e.sink.SetCellFormula(row, n.GridIndex, formula); err != nil {
			return err
		}
		return e.writeLink(n, record, row)
	}
	v, err := d.compute(record)
	if err != nil {
		return fmt.Errorf("column %q: %w", n.Path, err)
	}
	if err := e.sink.SetCellValue(row, n.GridIndex, v); err != nil {
		return err
	}
	return e.writeLink(n, record, row)
}

// writeLink attaches the companion URL of a link column. Invalid URLs are
// logged and skipped unless the column is strict.
func (e *emitter) writeLink(n *Node, record any, row int) error {
	if n.link == nil {
		return nil
	}
	v, err := e.accessor.Get(record, n.link.field)
	if err != nil {
		return e.linkFailed(n, &LinkError{Path: n.Path, Row: row, Err: err})
	}
	if isNil(v) {
		return nil
	}
	raw := cellString(v)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err == nil && !u.IsAbs() {
		err = fmt.Errorf("not an absolute URL")
	}
	if err != nil {
		return e.linkFailed(n, &LinkError{Path: n.Path, URL: raw, Row: row, Err: err})
	}
	return e.sink.SetHyperlink(row, n.GridIndex, u.String())
}

func (e *emitter) linkFailed(n *Node, err *LinkError) error {
	if n.link.strict {
		return err
	}
	e.logger.Debug("skipping hyperlink", "column", err.Path, "row", err.Row, "url", err.URL, "err", err.Err)
	return nil
}

func (e *emitter) writeNested(n *Node, record any, row int) error {
	v, err := e.accessor.Get(record, n.Name)
	if err != nil {
		return fmt.Errorf("column %q: %w", n.Path, err)
	}
	if isNil(v) {
		return nil
	}
	return e.writeRow(n.Children, v, row)
}

func (e *emitter) writeMulti(n *Node, record any, row int) error {
	v, err := e.accessor.Get(record, n.Name)
	if err != nil {
		return fmt.Errorf("column %q: %w", n.Path, err)
	}
	if isNil(v) {
		return nil
	}
	entries, err := entriesOf(v)
	if err != nil {
		return fmt.Errorf("column %q: %w", n.Path, err)
	}
	mv := n.multi
	for key, item := range entries {
		off, ok := mv.offset[key]
		if !ok {
			return &UnknownKeyError{Path: n.Path, Key: key, Row: row}
		}
		if mv.sub == nil {
			if err := e.sink.SetCellValue(row, n.GridIndex+off, item); err != nil {
				return err
			}
			continue
		}
		if isNil(item) {
			continue
		}
		if err := e.writeRow(mv.sub[off/mv.subWidth], item, row); err != nil {
			return err
		}
	}
	return nil
}

// format applies widths, visibility, the filter row and style tags once all
// rows are written. lastRow is the last data row, or below the first data
// row when no record was written.
func (e *emitter) format(l *Layout, firstRow, lastRow int, autoFilter, header bool) error {
	var err error
	l.Walk(func(n *Node) bool {
		if err != nil {
			return false
		}
		err = e.formatNode(n, firstRow, lastRow)
		return err == nil
	})
	if err != nil {
		return err
	}

	if !header {
		return nil
	}
	first, last := l.HeaderRows()
	if autoFilter {
		if err := e.sink.SetAutoFilter(last, l.StartColumn, l.StartColumn+l.Width-1, true); err != nil {
			return err
		}
	}
	band := Range{Row: first, Column: l.StartColumn, Rows: l.Height, Columns: l.Width}
	return e.sink.ApplyNamedStyle(band, StyleHeader)
}

func (e *emitter) formatNode(n *Node, firstRow, lastRow int) error {
	if n.Hidden {
		for col := n.GridIndex; col < n.GridIndex+n.Span; col++ {
			if err := e.sink.SetColumnHidden(col, true); err != nil {
				return err
			}
		}
	}
	switch n.ColumnWidth.Kind {
	case WidthCustom, WidthAuto:
		for col := n.GridIndex; col < n.GridIndex+n.Span; col++ {
			if err := e.sink.SetColumnWidth(col, n.ColumnWidth); err != nil {
				return err
			}
		}
	}
	if n.Style == "" || n.Category == NestedRecord || lastRow < firstRow {
		return nil
	}
	if n.Category == MultiValue && n.multi.sub != nil {
		return nil
	}
	r := Range{Row: firstRow, Column: n.GridIndex, Rows: lastRow - firstRow + 1, Columns: n.Span}
	return e.sink.ApplyNamedStyle(r, n.Style)
}

// cellString renders a cell value as text.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(v)
	}
}
