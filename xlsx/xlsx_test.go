package xlsx_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bjaus/multihead"
	"github.com/bjaus/multihead/xlsx"
)

type inner struct {
	A int
	B int
}

type order struct {
	Name  string
	URL   string
	Parts inner
	Qty   int
}

var orders = []order{
	{Name: "Alice", URL: "https://example.com/a", Parts: inner{A: 1, B: 2}, Qty: 3},
	{Name: "Bob", URL: "https://example.com/b", Parts: inner{A: 4, B: 5}, Qty: 6},
}

func render(t *testing.T, sheet string, opts ...multihead.Option) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	sink, err := xlsx.NewSink(f, sheet)
	require.NoError(t, err)
	_, err = multihead.Generate(sink, orders, opts...)
	require.NoError(t, err)
	return f
}

func value(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func TestSinkValues(t *testing.T) {
	t.Parallel()
	f := render(t, "Sheet1", multihead.WithColumns(multihead.Column{Path: "URL", Ignore: true}))

	tests := map[string]struct {
		cell string
		want string
	}{
		"top label":      {cell: "A1", want: "Name"},
		"group label":    {cell: "B1", want: "Parts"},
		"nested label":   {cell: "C2", want: "B"},
		"last label":     {cell: "D1", want: "Qty"},
		"first record":   {cell: "A3", want: "Alice"},
		"nested value":   {cell: "C3", want: "2"},
		"second record":  {cell: "D4", want: "6"},
		"below the rows": {cell: "A5", want: ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, value(t, f, "Sheet1", tt.cell))
		})
	}
}

func TestSinkMerges(t *testing.T) {
	t.Parallel()
	f := render(t, "Sheet1", multihead.WithColumns(multihead.Column{Path: "URL", Ignore: true}))

	merges, err := f.GetMergeCells("Sheet1")
	require.NoError(t, err)
	got := make([]string, len(merges))
	for i, m := range merges {
		got[i] = m.GetStartAxis() + ":" + m.GetEndAxis()
	}
	assert.ElementsMatch(t, []string{"A1:A2", "B1:C1", "D1:D2"}, got)
}

func TestSinkNewSheet(t *testing.T) {
	t.Parallel()
	f := render(t, "Orders", multihead.WithColumns(multihead.Column{Path: "Parts", Ignore: true}))

	assert.True(t, slices.Contains(f.GetSheetList(), "Orders"))
	assert.Equal(t, "Name", value(t, f, "Orders", "A1"))
	assert.Equal(t, "Bob", value(t, f, "Orders", "A3"))
	assert.Empty(t, value(t, f, "Sheet1", "A1"))
}

func TestSinkFormula(t *testing.T) {
	t.Parallel()
	f := render(t, "Sheet1", multihead.WithColumns(
		multihead.Column{Path: "URL", Ignore: true},
		multihead.Column{Path: "Parts", Ignore: true},
		multihead.Column{Path: "Double", Formula: "B{row}*2"},
	))

	formula, err := f.GetCellFormula("Sheet1", "C2")
	require.NoError(t, err)
	assert.Equal(t, "B2*2", formula)
	formula, err = f.GetCellFormula("Sheet1", "C3")
	require.NoError(t, err)
	assert.Equal(t, "B3*2", formula)
}

func TestSinkHyperlink(t *testing.T) {
	t.Parallel()
	f := render(t, "Sheet1", multihead.WithColumns(
		multihead.Column{Path: "Name", Link: "URL"},
		multihead.Column{Path: "URL", Hidden: true},
		multihead.Column{Path: "Parts", Ignore: true},
	))

	ok, target, err := f.GetCellHyperLink("Sheet1", "A2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/a", target)

	visible, err := f.GetColVisible("Sheet1", "B")
	require.NoError(t, err)
	assert.False(t, visible)
	visible, err = f.GetColVisible("Sheet1", "A")
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestSinkColumnWidths(t *testing.T) {
	t.Parallel()
	f := render(t, "Sheet1", multihead.WithColumns(
		multihead.Column{Path: "Name", Width: multihead.Auto(0, 0)},
		multihead.Column{Path: "URL", Width: multihead.Fixed(40)},
		multihead.Column{Path: "Qty", Width: multihead.Auto(10, 0)},
		multihead.Column{Path: "Parts", Ignore: true},
	))

	tests := map[string]struct {
		col  string
		want float64
	}{
		"auto fits widest value": {col: "A", want: 7},
		"fixed":                  {col: "B", want: 40},
		"auto with minimum":      {col: "C", want: 10},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			w, err := f.GetColWidth("Sheet1", tt.col)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, w, 0.001)
		})
	}
}

func TestSinkStyles(t *testing.T) {
	t.Parallel()
	opts := multihead.WithColumns(
		multihead.Column{Path: "Qty", Style: "money"},
		multihead.Column{Path: "Parts", Ignore: true},
	)

	t.Run("unregistered", func(t *testing.T) {
		t.Parallel()
		f := excelize.NewFile()
		t.Cleanup(func() { _ = f.Close() })
		sink, err := xlsx.NewSink(f, "Sheet1")
		require.NoError(t, err)
		_, err = multihead.Generate(sink, orders, opts)
		require.ErrorIs(t, err, xlsx.ErrUnknownStyle)
	})

	t.Run("registered", func(t *testing.T) {
		t.Parallel()
		f := excelize.NewFile()
		t.Cleanup(func() { _ = f.Close() })
		sink, err := xlsx.NewSink(f, "Sheet1")
		require.NoError(t, err)
		require.NoError(t, sink.RegisterStyle("money", &excelize.Style{NumFmt: 4}))
		_, err = multihead.Generate(sink, orders, opts)
		require.NoError(t, err)

		header, err := f.GetCellStyle("Sheet1", "A1")
		require.NoError(t, err)
		money, err := f.GetCellStyle("Sheet1", "C2")
		require.NoError(t, err)
		plain, err := f.GetCellStyle("Sheet1", "A2")
		require.NoError(t, err)
		assert.NotZero(t, header)
		assert.NotZero(t, money)
		assert.NotEqual(t, header, money)
		assert.Zero(t, plain)
	})
}

func TestSinkAccessors(t *testing.T) {
	t.Parallel()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	sink, err := xlsx.NewSink(f, "Data")
	require.NoError(t, err)
	assert.Same(t, f, sink.File())
	assert.Equal(t, "Data", sink.Sheet())
}

func TestSinkRejectsBadCoordinates(t *testing.T) {
	t.Parallel()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	sink, err := xlsx.NewSink(f, "Sheet1")
	require.NoError(t, err)

	assert.Error(t, sink.SetCellValue(0, 1, "x"))
	assert.Error(t, sink.SetColumnHidden(0, true))
	assert.Error(t, sink.MergeRange(1, 0, 1, 2))
}

func TestParseCell(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		ref     string
		row     int
		col     int
		wantErr bool
	}{
		"origin":       {ref: "A1", row: 1, col: 1},
		"offset":       {ref: "B3", row: 3, col: 2},
		"wide column":  {ref: "AA10", row: 10, col: 27},
		"reversed":     {ref: "3B", wantErr: true},
		"missing row":  {ref: "C", wantErr: true},
		"empty string": {ref: "", wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			row, col, err := xlsx.ParseCell(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}
}
