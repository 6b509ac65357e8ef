package bind

import (
	"reflect"

	"typebind/meta"
)

// Get reads the member and returns it as T.
// It fails with meta.ErrNotReadable when the member has no reader and with
// meta.ErrTypeMismatch when the value cannot be viewed as T.
func Get[T any](h *Handle) (T, error) {
	var zero T
	if h.err != nil {
		return zero, h.err
	}

	if h.read == nil {
		return zero, h.readErr
	}

	v := h.read()
	raw := v.Interface()
	if out, ok := raw.(T); ok {
		return out, nil
	}

	want := reflect.TypeFor[T]()
	if raw == nil && want.Kind() == reflect.Interface {
		return zero, nil
	}

	return zero, h.fail("get", meta.ErrTypeMismatch, want.String(), v.Type().String())
}

// Set writes value to the member.
// It fails with meta.ErrNotWritable when the member has no writer or the
// instance was bound by value, and with meta.ErrTypeMismatch when value is
// not assignable to the member's declared type.
func Set[T any](h *Handle, value T) error {
	if h.err != nil {
		return h.err
	}

	if h.write == nil {
		return h.writeErr
	}

	rv := reflect.ValueOf(&value).Elem()
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			if !nillable(h.declared) {
				return h.fail("set", meta.ErrTypeMismatch, h.declared.String(), "nil")
			}
			rv = reflect.Zero(h.declared)
		} else {
			rv = rv.Elem()
		}
	}

	if !rv.Type().AssignableTo(h.declared) {
		return h.fail("set", meta.ErrTypeMismatch, h.declared.String(), rv.Type().String())
	}

	h.write(rv)
	return nil
}

func nillable(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
