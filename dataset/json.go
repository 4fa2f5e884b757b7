package dataset

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/domonda/go-datagrid"
)

// FromJSON parses a JSON document holding an array of objects
// or an object with the array under one of datagrid.LegacyDataProperties.
//
// Columns follow the key order of the first object.
// Numbers are float64, nested arrays and objects are kept
// as raw JSON strings.
func FromJSON(data []byte) (*Dataset, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON dataset")
	}
	doc := gjson.ParseBytes(data)
	if doc.IsObject() {
		var found bool
		for _, prop := range datagrid.LegacyDataProperties {
			if rows := doc.Get(prop); rows.IsArray() {
				doc, found = rows, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("JSON dataset object has none of the array properties %v", datagrid.LegacyDataProperties)
		}
	}
	return fromJSONArray(doc)
}

// FromJSONPath parses the array at the gjson path
// within a JSON document like "result.items".
func FromJSONPath(data []byte, path string) (*Dataset, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON dataset")
	}
	rows := gjson.GetBytes(data, path)
	if !rows.Exists() {
		return nil, fmt.Errorf("JSON dataset path %q not found", path)
	}
	return fromJSONArray(rows)
}

func fromJSONArray(rows gjson.Result) (*Dataset, error) {
	if !rows.IsArray() {
		return nil, fmt.Errorf("JSON dataset must be an array, not %s", rows.Type)
	}
	ds := &Dataset{Records: []datagrid.Record{}}
	var rowErr error
	rows.ForEach(func(_, row gjson.Result) bool {
		if !row.IsObject() {
			rowErr = fmt.Errorf("JSON dataset row %d is not an object", len(ds.Records))
			return false
		}
		first := len(ds.Records) == 0
		rec := make(datagrid.Record)
		row.ForEach(func(key, value gjson.Result) bool {
			field := key.String()
			rec[field] = jsonValue(value)
			if first {
				ds.Columns = append(ds.Columns, &datagrid.Column{
					Field:    field,
					Title:    datagrid.SpacePascalCase(field),
					Sortable: true,
				})
			}
			return true
		})
		ds.Records = append(ds.Records, rec)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return ds, nil
}

func jsonValue(value gjson.Result) any {
	switch value.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return value.Float()
	case gjson.String:
		return value.String()
	}
	return value.Raw
}
