package datagrid

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
)

// Record is one row of caller supplied data,
// an opaque mapping of field name to value.
//
// Values are expected to be strings, numbers, booleans or nil.
// Records are shared by reference between the Store,
// the grouping engine and the presentation components
// and must not be mutated while a component uses them.
type Record map[string]any

// Get returns the value of field or nil.
func (r Record) Get(field string) any {
	return r[field]
}

// String returns the value of field formatted with ValueString.
func (r Record) String(field string) string {
	return ValueString(r[field])
}

// Key returns the identity of the record for
// selection and lookup purposes, that is the value
// of keyField formatted with ValueString.
func (r Record) Key(keyField string) string {
	return ValueString(r[keyField])
}

// ValueString formats a record value as string.
// Nil and nil-like values are formatted as empty string.
func ValueString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []byte:
		return string(v)
	case fmt.Stringer:
		if isNil(reflect.ValueOf(v)) {
			return ""
		}
		return v.String()
	}
	rv := reflect.ValueOf(val)
	if isNil(rv) {
		return ""
	}
	if rv.Kind() == reflect.Pointer {
		return ValueString(rv.Elem().Interface())
	}
	return fmt.Sprint(val)
}

// isNil return true if passed reflect.Value
// is not valid, nil (of a type that can be nil),
// or is of type struct{}
func isNil(val reflect.Value) bool {
	if !val.IsValid() {
		return true
	}
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return val.IsNil()
	case reflect.Struct:
		if t := val.Type(); t.NumField() == 0 && t.NumMethod() == 0 {
			// Treat a value of type struct{} like nil
			return true
		}
	}
	return false
}

// LegacyDataProperties are the well known property names
// under which legacy data shapes hold their rows.
var LegacyDataProperties = []string{"data", "rows", "items", "records"}

// NormalizeRecords converts the supported data shapes
// into a slice of records:
//   - []Record
//   - []map[string]any
//   - []any with map[string]any or Record elements
//   - a map holding one of the above under one of LegacyDataProperties
//
// The result is false for any other shape,
// in which case an empty non nil slice is returned.
func NormalizeRecords(data any) ([]Record, bool) {
	switch d := data.(type) {
	case []Record:
		if d == nil {
			return []Record{}, true
		}
		return d, true
	case []map[string]any:
		records := make([]Record, len(d))
		for i, m := range d {
			records[i] = Record(m)
		}
		return records, true
	case []any:
		records := make([]Record, 0, len(d))
		for _, elem := range d {
			switch e := elem.(type) {
			case Record:
				records = append(records, e)
			case map[string]any:
				records = append(records, Record(e))
			default:
				return []Record{}, false
			}
		}
		return records, true
	case map[string]any:
		for _, prop := range LegacyDataProperties {
			if rows, ok := d[prop]; ok {
				return NormalizeRecords(rows)
			}
		}
	case Record:
		return NormalizeRecords(map[string]any(d))
	}
	return []Record{}, false
}

func normalizeOrWarn(data any, logger *slog.Logger) []Record {
	records, ok := NormalizeRecords(data)
	if !ok {
		logger.Warn("unsupported dataset shape, using empty dataset", "type", fmt.Sprintf("%T", data))
	}
	return records
}
