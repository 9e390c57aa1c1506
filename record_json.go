package multihead

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/tidwall/gjson"
)

// JSONAccessor reads fields off JSON object records. Records may be
// []byte, json.RawMessage, string or gjson.Result. Nested objects and arrays
// are returned as values that implement Entrier and are accepted back as
// records, so nested and multi-value columns work on JSON input.
type JSONAccessor struct{}

// Get implements Accessor.
func (JSONAccessor) Get(record any, field string) (any, error) {
	if record == nil {
		return nil, nil
	}
	r, err := toResult(record)
	if err != nil {
		return nil, fmt.Errorf("read field %q: %w", field, err)
	}
	if r.Type == gjson.Null || !r.Exists() {
		return nil, nil
	}
	if !r.IsObject() {
		return nil, fmt.Errorf("read field %q: record is not a JSON object", field)
	}
	return jsonValue(r.Get(gjson.Escape(field))), nil
}

func toResult(record any) (gjson.Result, error) {
	switch r := record.(type) {
	case gjson.Result:
		return r, nil
	case jsonContainer:
		return r.res, nil
	case []byte:
		return parseJSON(string(r))
	case json.RawMessage:
		return parseJSON(string(r))
	case string:
		return parseJSON(r)
	default:
		return gjson.Result{}, fmt.Errorf("unsupported JSON record type %T", record)
	}
}

func parseJSON(s string) (gjson.Result, error) {
	if !gjson.Valid(s) {
		return gjson.Result{}, fmt.Errorf("invalid JSON")
	}
	return gjson.Parse(s), nil
}

// jsonValue converts a gjson result into a cell value. Integral numbers
// become int64, other numbers float64.
func jsonValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") {
			return r.Int()
		}
		return r.Num
	case gjson.String:
		return r.Str
	case gjson.JSON:
		return jsonContainer{res: r}
	default:
		return nil
	}
}

// jsonContainer is a JSON object or array read off a record.
type jsonContainer struct {
	res gjson.Result
}

// Entries iterates object members by key, or array items keyed by their
// string form.
func (c jsonContainer) Entries() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		array := c.res.IsArray()
		c.res.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if array {
				k = value.String()
			}
			return yield(k, jsonValue(value))
		})
	}
}

// String returns the raw JSON text.
func (c jsonContainer) String() string { return c.res.Raw }

// MarshalJSON keeps the original JSON text.
func (c jsonContainer) MarshalJSON() ([]byte, error) { return []byte(c.res.Raw), nil }

// MarshalYAML emits the decoded JSON value.
func (c jsonContainer) MarshalYAML() (any, error) { return c.res.Value(), nil }

// InferSchema derives a Schema from one sample JSON object, keeping its
// member order. Objects become records, arrays multi-value fields, strings
// string fields and everything else scalars. An array whose first item is an
// object gets that object's schema as its per-key record.
func InferSchema(name string, sample any) (*Schema, error) {
	r, err := toResult(sample)
	if err != nil {
		return nil, err
	}
	if !r.IsObject() {
		return nil, fmt.Errorf("infer schema %q: sample is not a JSON object", name)
	}
	return inferObject(name, r), nil
}

func inferObject(name string, r gjson.Result) *Schema {
	s := &Schema{Name: name}
	r.ForEach(func(key, value gjson.Result) bool {
		f := SchemaField{Name: key.String(), Kind: KindScalar}
		switch {
		case value.IsObject():
			f.Kind = KindRecord
			f.Record = inferObject(joinPath(name, f.Name), value)
		case value.IsArray():
			f.Kind = KindMultiValue
			if first := value.Get("0"); first.IsObject() {
				f.Record = inferObject(joinPath(name, f.Name), first)
			}
		case value.Type == gjson.String:
			f.Kind = KindString
		}
		s.Fields = append(s.Fields, f)
		return true
	})
	return s
}
