package helpers

import (
	"reflect"
	"strings"
)

// IsEmpty reports whether v is nil, a whitespace-only string, or an empty
// map, slice, array or field-less struct. Numbers and booleans are never empty.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Map, reflect.Slice:
		return rv.IsNil() || rv.Len() == 0
	case reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Struct:
		return rv.NumField() == 0
	default:
		return false
	}
}

// IsNotEmpty is the negation of IsEmpty.
func IsNotEmpty(v any) bool {
	return !IsEmpty(v)
}

// IsArray reports whether v is a non-empty slice or array.
func IsArray(v any) bool {
	if IsEmpty(v) {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// IsObject reports whether v is a non-empty map or struct.
func IsObject(v any) bool {
	if IsEmpty(v) {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Map || k == reflect.Struct
}

// IsArrayOfStrings reports whether v is a non-empty slice or array whose
// elements are all strings.
func IsArrayOfStrings(v any) bool {
	if !IsArray(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	for i := 0; i < rv.Len(); i++ {
		if _, ok := rv.Index(i).Interface().(string); !ok {
			return false
		}
	}
	return true
}

// IsSlice reports whether v is a slice or array of any length.
func IsSlice(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
