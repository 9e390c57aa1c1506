package multihead

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// Accessor reads field values off record instances. A nil record yields a
// nil value and no error.
type Accessor interface {
	Get(record any, field string) (any, error)
}

// Entrier is implemented by multi-value field values that iterate their own
// entries, such as JSON objects and arrays.
type Entrier interface {
	Entries() iter.Seq2[string, any]
}

// ReflectAccessor reads exported fields of Go structs and pointers to
// structs. Nil pointers, maps and slices are returned as nil.
type ReflectAccessor struct{}

// Get implements Accessor.
func (ReflectAccessor) Get(record any, field string) (any, error) {
	v, ok := indirectValue(reflect.ValueOf(record))
	if !ok {
		return nil, nil
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("read field %q: %s is not a struct", field, v.Type())
	}
	fv := v.FieldByName(field)
	if !fv.IsValid() {
		return nil, fmt.Errorf("read field %q: no such field in %s", field, v.Type())
	}
	if !fv.CanInterface() {
		return nil, fmt.Errorf("read field %q: field is not exported", field)
	}
	fv, ok = indirectValue(fv)
	if !ok {
		return nil, nil
	}
	switch fv.Kind() {
	case reflect.Map, reflect.Slice:
		if fv.IsNil() {
			return nil, nil
		}
	}
	return fv.Interface(), nil
}

// indirectValue follows pointers and interfaces. It reports false when a
// nil is found on the way.
func indirectValue(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

func isNil(v any) bool {
	rv, ok := indirectValue(reflect.ValueOf(v))
	if !ok {
		return true
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// entriesOf iterates the entries of a multi-value field value. Maps yield
// their keys in sorted order, sequences use each item's string form as its
// key.
func entriesOf(v any) (iter.Seq2[string, any], error) {
	if e, ok := v.(Entrier); ok {
		return e.Entries(), nil
	}
	rv, ok := indirectValue(reflect.ValueOf(v))
	if !ok {
		return func(func(string, any) bool) {}, nil
	}
	switch rv.Kind() {
	case reflect.Map:
		type entry struct {
			key string
			val reflect.Value
		}
		entries := make([]entry, 0, rv.Len())
		iterMap := rv.MapRange()
		for iterMap.Next() {
			entries = append(entries, entry{key: fmt.Sprint(iterMap.Key().Interface()), val: iterMap.Value()})
		}
		slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.key, b.key) })
		return func(yield func(string, any) bool) {
			for _, e := range entries {
				if !yield(e.key, e.val.Interface()) {
					return
				}
			}
		}, nil
	case reflect.Slice, reflect.Array:
		return func(yield func(string, any) bool) {
			for i := range rv.Len() {
				item := rv.Index(i).Interface()
				if !yield(itemKey(item), item) {
					return
				}
			}
		}, nil
	default:
		return nil, fmt.Errorf("value of type %T is not a map or sequence", v)
	}
}

func itemKey(item any) string {
	if iv, ok := indirectValue(reflect.ValueOf(item)); ok {
		item = iv.Interface()
	}
	if s, ok := item.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(item)
}
