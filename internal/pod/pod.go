// File: internal/pod/pod.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Plain-old-data checks for buffer element types.
//
// Buffer storage is raw allocator memory the garbage collector never scans,
// so element types must be fixed-size and pointer-free. The check runs once
// per handle constructor and rejects everything else up front.

package pod

import (
	"fmt"
	"reflect"
)

// Check reports whether t may be stored in raw buffer memory.
// POD here means: non-zero fixed size, and no pointers anywhere in the
// representation (no pointers, slices, maps, channels, functions,
// interfaces, or strings, at any nesting depth).
func Check(t reflect.Type) error {
	if t == nil {
		return fmt.Errorf("element type is an interface")
	}
	if t.Size() == 0 {
		return fmt.Errorf("element type %s has zero size", t)
	}
	return checkFields(t)
}

func checkFields(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return checkFields(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := checkFields(t.Field(i).Type); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("element type %s contains %s, which the collector cannot track in raw storage", t, t.Kind())
	}
}
