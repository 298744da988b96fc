package services

import (
	"strings"

	"github.com/kendall-kelly/repair-desk-api/utils"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// Field is one column/value pair taken from a request body
type Field struct {
	Column string
	Value  any
}

// ParseFields reads a JSON object into fields, keeping the key order of the
// document
func ParseFields(body string) ([]Field, error) {
	if strings.TrimSpace(body) == "" {
		return []Field{}, nil
	}
	if !gjson.Valid(body) {
		return nil, utils.BadRequest("invalid JSON body")
	}

	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return nil, utils.BadRequest("request body must be a JSON object")
	}

	fields := []Field{}
	doc.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, Field{Column: key.String(), Value: JSONValue(value)})
		return true
	})
	return fields, nil
}

// ParseParams reads a JSON array of statement parameters
func ParseParams(params gjson.Result) []any {
	if !params.Exists() || params.Type == gjson.Null {
		return []any{}
	}
	if !params.IsArray() {
		return []any{JSONValue(params)}
	}

	values := []any{}
	for _, p := range params.Array() {
		values = append(values, JSONValue(p))
	}
	return values
}

// JSONValue converts a JSON value into something a SQL driver can bind.
// Integral numbers become int64, objects and arrays stay JSON text.
func JSONValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		if strings.ContainsAny(r.Raw, ".eE") {
			return r.Float()
		}
		return r.Int()
	case gjson.String:
		return r.String()
	default:
		return r.Raw
	}
}

// popField removes the first field named column
func popField(fields []Field, column string) (Field, []Field, bool) {
	for i, f := range fields {
		if f.Column == column {
			rest := make([]Field, 0, len(fields)-1)
			rest = append(rest, fields[:i]...)
			rest = append(rest, fields[i+1:]...)
			return f, rest, true
		}
	}
	return Field{}, fields, false
}

// dropFields removes every field whose column is one of columns
func dropFields(fields []Field, columns ...string) []Field {
	return lo.Reject(fields, func(f Field, _ int) bool { return lo.Contains(columns, f.Column) })
}
