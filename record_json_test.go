package multihead_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/bjaus/multihead"
)

const orderJSON = `{"id":1,"customer":{"name":"Ann","email":"a@x.io"},"tags":["vip"],"total":9.5,"paid":true,"note":null}`

func TestJSONAccessorGet(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		record  any
		field   string
		want    any
		wantErr require.ErrorAssertionFunc
	}{
		"string record":      {record: `{"a":1}`, field: "a", want: int64(1), wantErr: require.NoError},
		"bytes record":       {record: []byte(`{"a":"x"}`), field: "a", want: "x", wantErr: require.NoError},
		"raw message":        {record: json.RawMessage(`{"a":true}`), field: "a", want: true, wantErr: require.NoError},
		"gjson result":       {record: gjson.Parse(`{"a":false}`), field: "a", want: false, wantErr: require.NoError},
		"float":              {record: `{"a":1.5}`, field: "a", want: 1.5, wantErr: require.NoError},
		"exponent":           {record: `{"a":1e3}`, field: "a", want: 1000.0, wantErr: require.NoError},
		"null":               {record: `{"a":null}`, field: "a", want: nil, wantErr: require.NoError},
		"missing":            {record: `{"a":1}`, field: "b", want: nil, wantErr: require.NoError},
		"dotted member name": {record: `{"a.b":2,"a":{"b":3}}`, field: "a.b", want: int64(2), wantErr: require.NoError},
		"nil record":         {record: nil, field: "a", want: nil, wantErr: require.NoError},
		"not an object":      {record: `[1]`, field: "a", want: nil, wantErr: require.Error},
		"invalid json":       {record: `{`, field: "a", want: nil, wantErr: require.Error},
		"unsupported type":   {record: 42, field: "a", want: nil, wantErr: require.Error},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := multihead.JSONAccessor{}.Get(tt.record, tt.field)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONAccessorContainers(t *testing.T) {
	t.Parallel()
	v, err := multihead.JSONAccessor{}.Get(`{"m":{"b":1,"a":[2]}}`, "m")
	require.NoError(t, err)

	e, ok := v.(multihead.Entrier)
	require.True(t, ok)
	var keys []string
	for k := range e.Entries() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"b", "a"}, keys)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":1,"a":[2]}`, string(out))
	assert.Equal(t, `{"b":1,"a":[2]}`, fmt.Sprint(v))

	nested, err := multihead.JSONAccessor{}.Get(v, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), nested)
}

func TestInferSchema(t *testing.T) {
	t.Parallel()
	got, err := multihead.InferSchema("order", orderJSON)
	require.NoError(t, err)
	want := &multihead.Schema{
		Name: "order",
		Fields: []multihead.SchemaField{
			{Name: "id", Kind: multihead.KindScalar},
			{Name: "customer", Kind: multihead.KindRecord, Record: &multihead.Schema{
				Name: "order.customer",
				Fields: []multihead.SchemaField{
					{Name: "name", Kind: multihead.KindString},
					{Name: "email", Kind: multihead.KindString},
				},
			}},
			{Name: "tags", Kind: multihead.KindMultiValue},
			{Name: "total", Kind: multihead.KindScalar},
			{Name: "paid", Kind: multihead.KindScalar},
			{Name: "note", Kind: multihead.KindScalar},
		},
	}
	assert.Equal(t, want, got)
}

func TestInferSchemaArrayOfObjects(t *testing.T) {
	t.Parallel()
	got, err := multihead.InferSchema("x", []byte(`{"lines":[{"sku":"a","qty":1}]}`))
	require.NoError(t, err)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, multihead.KindMultiValue, got.Fields[0].Kind)
	assert.Equal(t, &multihead.Schema{
		Name: "x.lines",
		Fields: []multihead.SchemaField{
			{Name: "sku", Kind: multihead.KindString},
			{Name: "qty", Kind: multihead.KindScalar},
		},
	}, got.Fields[0].Record)
}

func TestInferSchemaErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]any{
		"array":       `[1,2]`,
		"invalid":     `{"a":`,
		"unsupported": 3.5,
	}
	for name, sample := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := multihead.InferSchema("x", sample)
			assert.Error(t, err)
		})
	}
}

func TestRenderJSONRecords(t *testing.T) {
	t.Parallel()
	schema, err := multihead.InferSchema("order", orderJSON)
	require.NoError(t, err)
	r, err := multihead.NewReport(schema, multihead.WithColumns(
		multihead.Column{Path: "tags", Keys: []string{"new", "vip"}},
	))
	require.NoError(t, err)

	g := multihead.NewGrid()
	n, err := r.Render(g, slices.Values([]any{orderJSON}))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, []any{"id", "customer", nil, "tags", nil, "total", "paid", "note"}, g.Row(1))
	assert.Equal(t, []any{nil, "name", "email", "new", "vip", nil, nil, nil}, g.Row(2))
	assert.Equal(t, []any{int64(1), "Ann", "a@x.io", nil, "vip", 9.5, true, nil}, g.Row(3))
}

func TestRenderJSONObjectAsKeyedColumns(t *testing.T) {
	t.Parallel()
	rec := `{"name":"a","scores":{"math":1,"art":2}}`
	schema, err := multihead.InferSchema("student", rec)
	require.NoError(t, err)
	r, err := multihead.NewReport(schema, multihead.WithColumns(
		multihead.Column{Path: "scores", Keys: []string{"art", "math"}},
	))
	require.NoError(t, err)

	g := multihead.NewGrid()
	_, err = r.Render(g, slices.Values([]any{rec}))
	require.NoError(t, err)
	assert.Equal(t, multihead.MultiValue, r.Layout().Columns[1].Category)
	assert.Equal(t, []any{"a", int64(2), int64(1)}, g.Row(3))
}

func TestReportWriteJSONRecordsCSV(t *testing.T) {
	t.Parallel()
	schema, err := multihead.InferSchema("order", orderJSON)
	require.NoError(t, err)
	r, err := multihead.NewReport(schema, multihead.WithColumns(
		multihead.Column{Path: "tags", Keys: []string{"new", "vip"}},
		multihead.Column{Path: "note", Ignore: true},
	))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Write(&buf, multihead.CSV, slices.Values([]any{gjson.Parse(orderJSON)}))
	require.NoError(t, err)
	want := "id,customer,,tags,,total,paid\n" +
		",name,email,new,vip,,\n" +
		"1,Ann,a@x.io,,vip,9.5,true\n"
	assert.Equal(t, want, buf.String())
}
