package multihead

import (
	"fmt"
	"net/url"
	"reflect"
	"time"
)

// Kind classifies the value stored in a record field.
type Kind int

const (
	KindScalar     Kind = iota // numbers, booleans, anything rendered as one cell
	KindString                 // text
	KindRecord                 // a nested record with fields of its own
	KindMultiValue             // a map or sequence rendered as one column per key
	KindReference              // opaque values such as times and URLs
)

var kindNames = map[Kind]string{
	KindScalar:     "scalar",
	KindString:     "string",
	KindRecord:     "record",
	KindMultiValue: "multi-value",
	KindReference:  "reference",
}

// String returns the kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field describes one field of a record type.
type Field struct {
	Name string
	Kind Kind
	// Type identifies the field's record type when Kind is KindRecord. It is
	// passed back to the same Catalog to enumerate the nested fields.
	Type any
	// Elem identifies the per-key value type of a KindMultiValue field when
	// that value is itself a record; nil otherwise.
	Elem any
	// Style is a default style tag for the field's data cells.
	Style string
}

// Catalog enumerates the fields of a record type. Implementations must
// return the same fields in the same order on every call for a given type.
type Catalog interface {
	Fields(t any) ([]Field, error)
}

// Default style tags assigned by ReflectCatalog.
const (
	StyleDate   = "__date__"
	StyleTime   = "__time__"
	StyleHeader = "__headers__"
)

// ReflectCatalog enumerates the exported fields of Go struct types. The type
// argument must be a reflect.Type of a struct or pointer to struct.
//
// A field tagged `report:"-"` is left out.
type ReflectCatalog struct{}

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	urlType      = reflect.TypeFor[url.URL]()
	bytesType    = reflect.TypeFor[[]byte]()
)

// Fields implements Catalog.
func (ReflectCatalog) Fields(t any) ([]Field, error) {
	rt, ok := t.(reflect.Type)
	if !ok {
		return nil, configErrorf("", "reflect catalog needs a reflect.Type, got %T", t)
	}
	rt = indirectType(rt)
	if rt.Kind() != reflect.Struct {
		return nil, configErrorf("", "record type must be a struct but is %s", rt)
	}

	fields := make([]Field, 0, rt.NumField())
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() || sf.Tag.Get("report") == "-" {
			continue
		}
		fields = append(fields, reflectField(sf))
	}
	return fields, nil
}

func reflectField(sf reflect.StructField) Field {
	f := Field{Name: sf.Name, Kind: KindScalar}
	ft := indirectType(sf.Type)
	switch {
	case ft == timeType:
		f.Kind, f.Style = KindReference, StyleDate
	case ft == durationType:
		f.Style = StyleTime
	case ft == urlType:
		f.Kind = KindReference
	case ft == bytesType:
		f.Kind = KindReference
	case ft.Kind() == reflect.String:
		f.Kind = KindString
	case ft.Kind() == reflect.Struct:
		f.Kind, f.Type = KindRecord, ft
	case ft.Kind() == reflect.Map, ft.Kind() == reflect.Slice, ft.Kind() == reflect.Array:
		f.Kind = KindMultiValue
		if et := indirectType(ft.Elem()); et.Kind() == reflect.Struct && et != timeType && et != urlType {
			f.Elem = et
		}
	}
	return f
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Schema is a static record description for records that have no Go type,
// such as decoded JSON documents.
type Schema struct {
	Name   string
	Fields []SchemaField
}

// SchemaField is one field of a Schema. Record points at the nested schema
// for KindRecord fields, and at the per-key value schema of a KindMultiValue
// field whose values are records.
type SchemaField struct {
	Name   string
	Kind   Kind
	Record *Schema
	Style  string
}

// SchemaCatalog enumerates the fields of *Schema values.
type SchemaCatalog struct{}

// Fields implements Catalog.
func (SchemaCatalog) Fields(t any) ([]Field, error) {
	s, ok := t.(*Schema)
	if !ok || s == nil {
		return nil, configErrorf("", "schema catalog needs a *Schema, got %T", t)
	}
	fields := make([]Field, 0, len(s.Fields))
	for _, sf := range s.Fields {
		f := Field{Name: sf.Name, Kind: sf.Kind, Style: sf.Style}
		switch sf.Kind {
		case KindRecord:
			if sf.Record == nil {
				return nil, configErrorf(sf.Name, "record field has no schema")
			}
			f.Type = sf.Record
		case KindMultiValue:
			if sf.Record != nil {
				f.Elem = sf.Record
			}
		}
		fields = append(fields, f)
	}
	return fields, nil
}
