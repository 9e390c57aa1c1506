// Package xlsx writes multihead reports into Excel workbooks.
package xlsx

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"github.com/bjaus/multihead"
)

// ErrUnknownStyle is returned when a style tag has no registered style.
var ErrUnknownStyle = errors.New("unknown style")

// Excel measures column widths in characters of the default font; the
// padding keeps auto-sized columns from clipping.
const autoPadding = 2

// DefaultStyles are registered on every new Sink.
var DefaultStyles = map[string]*excelize.Style{
	multihead.StyleHeader: {
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
		Border: []excelize.Border{
			{Type: "left", Color: "8EA9DB", Style: 1},
			{Type: "right", Color: "8EA9DB", Style: 1},
			{Type: "top", Color: "8EA9DB", Style: 1},
			{Type: "bottom", Color: "8EA9DB", Style: 1},
		},
	},
	multihead.StyleDate: {NumFmt: 14},
	multihead.StyleTime: {NumFmt: 21},
}

// Sink writes cells into one worksheet of an excelize workbook.
type Sink struct {
	file   *excelize.File
	sheet  string
	styles map[string]int
	widest map[int]float64 // widest text written per column, for auto widths
}

var _ multihead.Sink = (*Sink)(nil)

// NewSink returns a sink writing into sheet, which is created when the
// workbook does not have it yet.
func NewSink(f *excelize.File, sheet string) (*Sink, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: sheet %q: %w", sheet, err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("xlsx: create sheet %q: %w", sheet, err)
		}
	}
	s := &Sink{
		file:   f,
		sheet:  sheet,
		styles: make(map[string]int),
		widest: make(map[int]float64),
	}
	for name, style := range DefaultStyles {
		if err := s.RegisterStyle(name, style); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// File returns the workbook.
func (s *Sink) File() *excelize.File { return s.file }

// Sheet returns the worksheet name.
func (s *Sink) Sheet() string { return s.sheet }

// RegisterStyle makes style available to columns tagged name. Registering
// a name again replaces it.
func (s *Sink) RegisterStyle(name string, style *excelize.Style) error {
	id, err := s.file.NewStyle(style)
	if err != nil {
		return fmt.Errorf("xlsx: style %q: %w", name, err)
	}
	s.styles[name] = id
	return nil
}

// ParseCell converts an A1 reference such as "B3" into 1-based row and
// column numbers.
func ParseCell(ref string) (row, col int, err error) {
	col, row, err = excelize.CellNameToCoordinates(ref)
	if err != nil {
		return 0, 0, fmt.Errorf("xlsx: %w", err)
	}
	return row, col, nil
}

func cellName(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}

func columnName(col int) (string, error) {
	return excelize.ColumnNumberToName(col)
}

func (s *Sink) measure(col int, v any) {
	if v == nil {
		return
	}
	w := float64(runewidth.StringWidth(fmt.Sprint(v)))
	if w > s.widest[col] {
		s.widest[col] = w
	}
}

// SetCellValue implements multihead.Sink.
func (s *Sink) SetCellValue(row, col int, value any) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	s.measure(col, value)
	return s.file.SetCellValue(s.sheet, cell, value)
}

// SetCellFormula implements multihead.Sink.
func (s *Sink) SetCellFormula(row, col int, formula string) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	return s.file.SetCellFormula(s.sheet, cell, formula)
}

// SetHyperlink implements multihead.Sink.
func (s *Sink) SetHyperlink(row, col int, uri string) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	return s.file.SetCellHyperLink(s.sheet, cell, uri, "External")
}

// MergeRange implements multihead.Sink.
func (s *Sink) MergeRange(row, col, rowSpan, colSpan int) error {
	topLeft, err := cellName(row, col)
	if err != nil {
		return err
	}
	bottomRight, err := cellName(row+rowSpan-1, col+colSpan-1)
	if err != nil {
		return err
	}
	return s.file.MergeCell(s.sheet, topLeft, bottomRight)
}

// SetColumnHidden implements multihead.Sink.
func (s *Sink) SetColumnHidden(col int, hidden bool) error {
	name, err := columnName(col)
	if err != nil {
		return err
	}
	return s.file.SetColVisible(s.sheet, name, !hidden)
}

// SetColumnWidth implements multihead.Sink. Auto widths fit the widest
// value written to the column so far.
func (s *Sink) SetColumnWidth(col int, w multihead.Width) error {
	name, err := columnName(col)
	if err != nil {
		return err
	}
	switch w.Kind {
	case multihead.WidthCustom:
		return s.file.SetColWidth(s.sheet, name, name, w.Value)
	case multihead.WidthAuto:
		return s.file.SetColWidth(s.sheet, name, name, w.Clamp(s.widest[col]+autoPadding))
	case multihead.WidthHidden:
		return s.SetColumnHidden(col, true)
	default:
		return nil
	}
}

// ApplyNamedStyle implements multihead.Sink.
func (s *Sink) ApplyNamedStyle(r multihead.Range, style string) error {
	id, ok := s.styles[style]
	if !ok {
		return fmt.Errorf("xlsx: %w %q", ErrUnknownStyle, style)
	}
	topLeft, err := cellName(r.Row, r.Column)
	if err != nil {
		return err
	}
	bottomRight, err := cellName(r.LastRow(), r.LastColumn())
	if err != nil {
		return err
	}
	return s.file.SetCellStyle(s.sheet, topLeft, bottomRight, id)
}

// SetAutoFilter implements multihead.Sink. Turning the filter off is a
// no-op; excelize has no call to remove one.
func (s *Sink) SetAutoFilter(row, colStart, colEnd int, on bool) error {
	if !on {
		return nil
	}
	first, err := cellName(row, colStart)
	if err != nil {
		return err
	}
	last, err := cellName(row, colEnd)
	if err != nil {
		return err
	}
	return s.file.AutoFilter(s.sheet, first+":"+last, nil)
}
