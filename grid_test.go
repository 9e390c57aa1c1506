package multihead_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/multihead"
)

func TestGridCells(t *testing.T) {
	t.Parallel()
	g := multihead.NewGrid()
	require.NoError(t, g.SetCellValue(2, 3, "v"))
	require.NoError(t, g.SetCellFormula(2, 1, "SUM(A1:A2)"))
	require.NoError(t, g.SetHyperlink(2, 3, "https://example.com"))

	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 3, g.Columns())
	assert.Equal(t, multihead.Cell{Value: "v", Link: "https://example.com"}, g.Cell(2, 3))
	assert.Equal(t, "SUM(A1:A2)", g.Cell(2, 1).Formula)
	assert.Equal(t, []any{nil, nil, "v"}, g.Row(2))
	assert.Equal(t, []any{nil, nil, nil}, g.Row(1))
	assert.Equal(t, multihead.Cell{}, g.Cell(9, 9))
}

func TestGridRejectsOutside(t *testing.T) {
	t.Parallel()
	g := multihead.NewGrid()
	assert.Error(t, g.SetCellValue(0, 1, "x"))
	assert.Error(t, g.SetCellFormula(1, 0, "x"))
	assert.Error(t, g.SetHyperlink(-1, 1, "x"))
	assert.Error(t, g.MergeRange(1, 1, 0, 2))
}

func TestGridMerges(t *testing.T) {
	t.Parallel()
	g := multihead.NewGrid()
	require.NoError(t, g.MergeRange(1, 1, 2, 1))
	require.NoError(t, g.MergeRange(1, 2, 1, 3))

	err := g.MergeRange(1, 3, 2, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlaps")

	m, ok := g.MergeAt(2, 1)
	require.True(t, ok)
	assert.Equal(t, multihead.Range{Row: 1, Column: 1, Rows: 2, Columns: 1}, m)
	_, ok = g.MergeAt(2, 2)
	assert.False(t, ok)

	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 4, g.Columns())
	assert.Len(t, g.Merges(), 2)
}

func TestGridDropRow(t *testing.T) {
	t.Parallel()
	g := multihead.NewGrid()
	require.NoError(t, g.SetCellValue(1, 1, "keep"))
	require.NoError(t, g.SetCellValue(2, 1, "drop"))
	g.DropRow(2)
	assert.Equal(t, "keep", g.Value(1, 1))
	assert.Nil(t, g.Value(2, 1))
}

func TestGridAutoFilter(t *testing.T) {
	t.Parallel()
	g := multihead.NewGrid()
	require.NoError(t, g.SetAutoFilter(2, 1, 4, true))
	f, ok := g.AutoFilter()
	require.True(t, ok)
	assert.Equal(t, multihead.AutoFilter{Row: 2, ColStart: 1, ColEnd: 4}, f)

	require.NoError(t, g.SetAutoFilter(2, 1, 4, false))
	_, ok = g.AutoFilter()
	assert.False(t, ok)
}

func TestRange(t *testing.T) {
	t.Parallel()
	r := multihead.Range{Row: 2, Column: 3, Rows: 2, Columns: 4}
	assert.Equal(t, 3, r.LastRow())
	assert.Equal(t, 6, r.LastColumn())
	assert.Equal(t, "R2C3:R3C6", r.String())
	assert.True(t, r.Contains(3, 6))
	assert.False(t, r.Contains(4, 3))
	assert.False(t, r.Contains(2, 2))
}

func TestWidth(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5.0, multihead.Auto(5, 10).Clamp(2))
	assert.Equal(t, 10.0, multihead.Auto(5, 10).Clamp(12))
	assert.Equal(t, 7.0, multihead.Auto(0, 0).Clamp(7))

	var k multihead.WidthKind
	require.NoError(t, k.UnmarshalText([]byte("auto")))
	assert.Equal(t, multihead.WidthAuto, k)
	assert.Error(t, k.UnmarshalText([]byte("wide")))
	b, err := multihead.WidthHidden.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "hidden", string(b))
}

func TestSplitPath(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		path    string
		want    []string
		wantErr require.ErrorAssertionFunc
	}{
		"single":        {path: "a", want: []string{"a"}, wantErr: require.NoError},
		"nested":        {path: "a.b.c", want: []string{"a", "b", "c"}, wantErr: require.NoError},
		"empty":         {path: "", wantErr: require.Error},
		"empty segment": {path: "a..b", wantErr: require.Error},
		"trailing dot":  {path: "a.", wantErr: require.Error},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := multihead.SplitPath(tt.path)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnPathHelpers(t *testing.T) {
	t.Parallel()
	c := multihead.Column{Path: "a.b.c"}
	assert.Equal(t, "c", c.Name())
	assert.Equal(t, 3, c.Depth())
	assert.False(t, c.IsVirtual())
	assert.True(t, multihead.Column{Path: "x", Formula: "1"}.IsVirtual())
}
