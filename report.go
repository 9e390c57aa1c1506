package multihead

import (
	"iter"
	"reflect"
	"slices"
)

// Report renders records of one record type into a Sink. Its layout is
// built once by NewReport; rendering the same Report into several sinks is
// fine as long as each sink has a single writer.
type Report struct {
	layout *Layout
	cfg    *config
}

// NewReport builds the layout for root, a reflect.Type or a *Schema unless
// WithCatalog supplies another catalog.
func NewReport(root any, opts ...Option) (*Report, error) {
	cfg := newConfig(opts)
	l, err := buildLayout(cfg, root)
	if err != nil {
		return nil, err
	}
	return &Report{layout: l, cfg: cfg}, nil
}

// ReportOf builds the report for the Go struct type T.
func ReportOf[T any](opts ...Option) (*Report, error) {
	return NewReport(reflect.TypeFor[T](), opts...)
}

// Layout returns the report's column layout.
func (r *Report) Layout() *Layout { return r.layout }

// FirstDataRow returns the grid row of the first record.
func (r *Report) FirstDataRow() int {
	if r.cfg.appendAt > 0 {
		return r.cfg.appendAt
	}
	return r.layout.StartRow + r.layout.Height
}

func (r *Report) emitter(s Sink) *emitter {
	return &emitter{sink: s, accessor: r.cfg.accessor, logger: r.cfg.logger}
}

// WriteHeader writes the header band.
func (r *Report) WriteHeader(s Sink) error {
	return r.emitter(s).writeHeader(r.layout)
}

// WriteRecord writes one record at the given grid row.
func (r *Report) WriteRecord(s Sink, record any, row int) error {
	return r.emitter(s).writeRow(r.layout.Columns, record, row)
}

// Finish applies column widths, visibility, the filter row and style tags.
// rows is the number of records written.
func (r *Report) Finish(s Sink, rows int) error {
	first := r.FirstDataRow()
	return r.emitter(s).format(r.layout, first, first+rows-1, r.cfg.autoFilter, r.cfg.appendAt == 0)
}

// Render writes the header band, one row per record and the formatting. It
// returns the number of records written. An error stops rendering; rows
// already written stay in the sink.
func (r *Report) Render(s Sink, records iter.Seq[any]) (int, error) {
	if r.cfg.appendAt == 0 {
		if err := r.WriteHeader(s); err != nil {
			return 0, err
		}
	}
	row := r.FirstDataRow()
	n := 0
	for record := range records {
		if err := r.WriteRecord(s, record, row); err != nil {
			return n, err
		}
		row++
		n++
	}
	if err := r.Finish(s, n); err != nil {
		return n, err
	}
	r.cfg.logger.Debug("report rendered", "rows", n, "first_row", r.FirstDataRow())
	return n, nil
}

// Generate renders records of the Go struct type T into s.
func Generate[T any](s Sink, records []T, opts ...Option) (*Layout, error) {
	return GenerateIter(s, slices.Values(records), opts...)
}

// GenerateIter renders records of the Go struct type T from seq into s.
func GenerateIter[T any](s Sink, seq iter.Seq[T], opts ...Option) (*Layout, error) {
	r, err := ReportOf[T](opts...)
	if err != nil {
		return nil, err
	}
	if _, err := r.Render(s, anySeq(seq)); err != nil {
		return r.layout, err
	}
	return r.layout, nil
}

func anySeq[T any](seq iter.Seq[T]) iter.Seq[any] {
	return func(yield func(any) bool) {
		for v := range seq {
			if !yield(v) {
				return
			}
		}
	}
}
