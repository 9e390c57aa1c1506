package multihead

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// streamer writes a format one record at a time.
type streamer interface {
	begin(s *sheet) error
	row(r Row) error
	end() error
}

// Row is one rendered record. It is the data passed to go-template output.
type Row struct {
	Index  int            // grid row
	Record any            // the record as given
	Cells  []any          // values in grid column order
	Values map[string]any // values keyed by header path
}

// WriteIter lays out the Go struct type T and writes records from an
// iterator to w as they arrive. For formats where rows are independent
// (CSV, TSV, JSONL, GoTemplate), each record is written immediately. For
// formats that need all data for layout (Table, Plain, Markdown, HTML, JSON,
// YAML), records are collected first.
//
// The first record is read before the layout is built so that its optional
// interfaces apply, as they do for [Write].
func WriteIter[T any](w io.Writer, f Format, seq iter.Seq[T], opts ...Option) error {
	next, stop := iter.Pull(seq)
	defer stop()

	first, ok := next()
	if ok {
		opts = append(recordOptions(first), opts...)
	}
	r, err := ReportOf[T](opts...)
	if err != nil {
		return err
	}
	return r.Write(w, f, func(yield func(any) bool) {
		for ; ok; first, ok = next() {
			if !yield(first) {
				return
			}
		}
	})
}

// WriteChan lays out the Go struct type T and writes records from a
// channel to w. It is a thin wrapper around [WriteIter].
func WriteChan[T any](w io.Writer, f Format, ch <-chan T, opts ...Option) error {
	return WriteIter(w, f, chanToIter(ch), opts...)
}

func chanToIter[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range ch {
			if !yield(item) {
				return
			}
		}
	}
}

func (r *Report) newStreamer(w io.Writer, f Format) (streamer, error) {
	switch f {
	case CSV:
		return newCSVStreamer(w, r.cfg), nil
	case TSV:
		return &tsvStreamer{w: w}, nil
	case JSONL:
		return newJSONLStreamer(w, r.cfg), nil
	default:
		if tmpl, ok := strings.CutPrefix(string(f), goTemplatePrefix); ok {
			return newTemplateStreamer(w, tmpl)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// stream renders one record at a time into a scratch grid, hands the row to
// the format and drops it from the grid.
func (r *Report) stream(w io.Writer, f Format, records iter.Seq[any]) error {
	st, err := r.newStreamer(w, f)
	if err != nil {
		return err
	}

	g := NewGrid()
	header := r.cfg.appendAt == 0
	if header {
		if err := r.WriteHeader(g); err != nil {
			return err
		}
	}
	s := newSheet(r.layout, g, header, 0, 0)
	if err := st.begin(s); err != nil {
		return err
	}

	paths := s.headerPaths()
	row := r.FirstDataRow()
	for record := range records {
		if err := r.WriteRecord(g, record, row); err != nil {
			return err
		}
		cells := readRow(g, s.leaves, row)
		g.DropRow(row)
		if err := st.row(newRow(row, record, paths, cells)); err != nil {
			return err
		}
		row++
	}
	return st.end()
}

func newRow(index int, record any, paths []string, cells []Cell) Row {
	r := Row{
		Index:  index,
		Record: record,
		Cells:  rowValues(cells),
		Values: make(map[string]any, len(cells)),
	}
	for i, v := range r.Cells {
		r.Values[paths[i]] = v
	}
	return r
}

// rowValues converts cells to output values. Formula cells become their
// formula text.
func rowValues(cells []Cell) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c.Value
		if c.Formula != "" {
			out[i] = cellText(c)
		}
	}
	return out
}
