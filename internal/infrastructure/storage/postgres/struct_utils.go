package postgres

import (
	"reflect"
	"slices"
	"sync"
)

// column is one db-tagged field. The index path reaches through embedded
// structs such as entity.BaseEntity.
type column struct {
	name  string
	index []int
}

// columnPlans caches []column per struct type.
var columnPlans sync.Map

func columnsOf(t reflect.Type) []column {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := columnPlans.Load(t); ok {
		return cached.([]column)
	}
	cols := collectColumns(t, nil)
	columnPlans.Store(t, cols)
	return cols
}

func collectColumns(t reflect.Type, prefix []int) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(slices.Clone(prefix), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			cols = append(cols, collectColumns(f.Type, path)...)
			continue
		}

		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, column{name: tag, index: path})
	}
	return cols
}

// ExtractDBColumns lists the db columns of T in field order, embedded
// structs first where they are declared first.
//
//	productCols := ExtractDBColumns[inventory.Product]()
func ExtractDBColumns[T any]() []string {
	cols := columnsOf(reflect.TypeFor[T]())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap returns the db-tagged fields of v keyed by column, ready for
// squirrel SetMap. Anything but a struct or non-nil struct pointer yields nil.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := columnsOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		res[c.name] = rv.FieldByIndex(c.index).Interface()
	}
	return res
}
