// Package internal holds small helpers shared across catchy packages.
package internal

import "reflect"

// IsTypedNil reports whether v is nil or an interface holding a nil
// pointer, slice, map, func, or channel. Plain nil-interface checks miss
// the typed-nil case, which then panics on first use.
func IsTypedNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
