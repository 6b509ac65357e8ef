// Package enum lists the declared value domain of enum types.
package enum

import (
	"fmt"
	"reflect"

	"typebind/meta"
	"typebind/primitive"
)

// Values returns the declared values of t in declaration order.
// T must be exactly the Go type t describes; otherwise the call fails with
// meta.ErrTypeMismatch rather than reinterpreting another enum's values.
// Every call returns a fresh slice.
func Values[T any](t *meta.Type) ([]T, error) {
	want := reflect.TypeFor[T]()
	if err := check(t, want); err != nil {
		return nil, err
	}

	values := t.Values()
	out := make([]T, 0, len(values))
	for _, v := range values {
		cv, err := primitive.Convert(v.Value, want)
		if err != nil {
			return nil, mismatch(t, want, fmt.Sprintf("%T", v.Value))
		}
		out = append(out, cv.Interface().(T))
	}

	return out, nil
}

// ValuesOf looks T up in cat and returns its declared values.
func ValuesOf[T any](cat *meta.Catalog) ([]T, error) {
	t, ok := meta.TypeOf[T](cat)
	if !ok {
		return nil, &meta.AccessError{
			Op:   "values",
			Type: meta.IDOf(reflect.TypeFor[T]()).Short(),
			Want: "enum",
			Got:  "unregistered type",
			Err:  meta.ErrTypeMismatch,
		}
	}

	return Values[T](t)
}

// Names returns the declared value names of t in declaration order.
func Names(t *meta.Type) []string {
	if t == nil {
		return nil
	}

	values := t.Values()
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.Name)
	}

	return out
}

// Lookup returns the value declared under name.
func Lookup[T any](t *meta.Type, name string) (T, bool) {
	var zero T
	if check(t, reflect.TypeFor[T]()) != nil {
		return zero, false
	}

	for _, v := range t.Values() {
		if v.Name != name {
			continue
		}

		cv, err := primitive.Convert(v.Value, reflect.TypeFor[T]())
		if err != nil {
			return zero, false
		}
		return cv.Interface().(T), true
	}

	return zero, false
}

func check(t *meta.Type, want reflect.Type) error {
	if t == nil {
		return &meta.AccessError{Op: "values", Want: want.String(), Got: "nil", Err: meta.ErrTypeMismatch}
	}

	if t.Kind() != meta.KindEnum {
		return mismatch(t, want, t.Kind().String())
	}

	if want.Kind() == reflect.Pointer {
		return mismatch(t, want, t.ID().Short())
	}

	if gt := t.GoType(); gt != nil {
		if gt != want {
			return mismatch(t, want, gt.String())
		}
		return nil
	}

	if meta.IDOf(want) != t.ID() {
		return mismatch(t, want, t.ID().Short())
	}

	return nil
}

func mismatch(t *meta.Type, want reflect.Type, got string) error {
	return &meta.AccessError{
		Op:   "values",
		Type: t.ID().Short(),
		Want: want.String(),
		Got:  got,
		Err:  meta.ErrTypeMismatch,
	}
}
