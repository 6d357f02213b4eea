package postgres

import (
	"reflect"
	"slices"
	"sync"
)

// ExtractDBColumns returns the "db" tag of every field of T, in declaration
// order, leaving out the listed columns. Embedded structs are flattened.
//
// Usage:
//
//	columns := ExtractDBColumns[hardware.Record]("images")
//	// Returns: ["id", "version", "name", ...]
func ExtractDBColumns[T any](exclude ...string) []string {
	var zero T
	meta := metadataFor(reflect.TypeOf(zero))

	cols := make([]string, 0, len(meta.fields))
	for _, f := range meta.fields {
		if !slices.Contains(exclude, f.column) {
			cols = append(cols, f.column)
		}
	}
	return cols
}

// fieldInfo maps a column to the index path of its struct field.
type fieldInfo struct {
	column string
	index  []int
}

type typeMetadata struct {
	fields []fieldInfo
}

// typeCache holds *typeMetadata keyed by reflect.Type.
var typeCache sync.Map

// metadataFor computes the column layout of t once and caches it.
func metadataFor(t reflect.Type) *typeMetadata {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		collectFields(t, nil, meta)
	}

	actual, _ := typeCache.LoadOrStore(t, meta)
	return actual.(*typeMetadata)
}

func collectFields(t reflect.Type, prefix []int, meta *typeMetadata) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(slices.Clone(prefix), i)

		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, index, meta)
			}
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		meta.fields = append(meta.fields, fieldInfo{column: tag, index: index})
	}
}

// StructToMap converts a struct to a column map using "db" tags.
// When columns are given only those are included.
func StructToMap(v any, columns ...string) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := metadataFor(rv.Type())
	res := make(map[string]any, len(meta.fields))
	for _, f := range meta.fields {
		if len(columns) > 0 && !slices.Contains(columns, f.column) {
			continue
		}
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			// nil embedded pointer
			continue
		}
		res[f.column] = fv.Interface()
	}
	return res
}
