package dataset

import (
	"fmt"
	"go/token"
	"reflect"
	"strings"

	"github.com/domonda/go-datagrid"
)

// FieldNaming defines how struct fields
// are mapped to record fields by FromStructs.
//
// nil is a valid value for *FieldNaming
// and will use all exported struct fields
// with their Go name as record field.
type FieldNaming struct {
	// Tag is the struct field tag to be used as record field.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Ignore is the field name that excludes a struct field
	Ignore string
	// Untagged will be called with the struct field name to
	// return a record field in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) string
}

// DefaultFieldNaming uses the "col" struct tag,
// ignores fields tagged with "-" and uses
// SpacePascalCase for untagged fields.
var DefaultFieldNaming = FieldNaming{
	Tag:      "col",
	Ignore:   "-",
	Untagged: datagrid.SpacePascalCase,
}

func (n *FieldNaming) String() string {
	if n == nil {
		return `FieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("FieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldName returns the record field for a struct field.
func (n *FieldNaming) StructFieldName(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// FromStructs converts a slice or array of structs or struct pointers
// into a dataset with one record per struct.
// Columns follow the struct field order with the fields of
// anonymously embedded structs inlined. Nil pointers are skipped.
func FromStructs(structs any, naming *FieldNaming) (*Dataset, error) {
	v := reflect.ValueOf(structs)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected slice of structs, got %T", structs)
	}
	structType := v.Type().Elem()
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected slice of structs, got %T", structs)
	}

	var (
		fields  = structFields(structType, nil)
		names   = make([]string, 0, len(fields))
		indices = make([][]int, 0, len(fields))
		ds      = &Dataset{Records: make([]datagrid.Record, 0, v.Len())}
	)
	for _, field := range fields {
		name := naming.StructFieldName(field)
		if naming != nil && name == naming.Ignore {
			continue
		}
		names = append(names, name)
		indices = append(indices, field.Index)
		ds.Columns = append(ds.Columns, &datagrid.Column{
			Field:    name,
			Title:    datagrid.SpacePascalCase(name),
			Sortable: true,
		})
	}
	for i := 0; i < v.Len(); i++ {
		strct := v.Index(i)
		if strct.Kind() == reflect.Pointer {
			if strct.IsNil() {
				continue
			}
			strct = strct.Elem()
		}
		rec := make(datagrid.Record, len(names))
		for f, name := range names {
			rec[name] = fieldValue(strct, indices[f])
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// structFields returns the exported fields of a struct type
// including the inlined fields of anonymously embedded structs
// with their index path from the outer struct.
func structFields(structType reflect.Type, index []int) (fields []reflect.StructField) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		field.Index = append(append([]int(nil), index...), i)
		embedded := field.Type
		if embedded.Kind() == reflect.Pointer {
			embedded = embedded.Elem()
		}
		switch {
		case field.Anonymous && embedded.Kind() == reflect.Struct:
			fields = append(fields, structFields(embedded, field.Index)...)
		case token.IsExported(field.Name):
			fields = append(fields, field)
		}
	}
	return fields
}

// fieldValue returns the value of the field at index
// with pointers dereferenced, or nil for nil pointers.
func fieldValue(strct reflect.Value, index []int) any {
	v := strct
	for _, i := range index {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
