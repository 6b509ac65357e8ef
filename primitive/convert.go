package primitive

import (
	"fmt"
	"math"
	"reflect"
)

// Convert turns a raw constant into a value of rtype.
// raw is either already of rtype, or one of the untyped carriers a constant
// decays to: int64, uint64, float64, bool or string.
// Conversions that would overflow or change the kind of value fail.
func Convert(raw any, rtype reflect.Type) (reflect.Value, error) {
	if rtype == nil {
		return reflect.Value{}, fmt.Errorf("convert %v: nil target type", raw)
	}

	rv := reflect.ValueOf(raw)
	if !rv.IsValid() {
		return reflect.Value{}, fmt.Errorf("convert <nil> to %s: no value", rtype)
	}

	if rv.Type() == rtype {
		return rv, nil
	}

	out := reflect.New(rtype).Elem()

	switch kind := FromReflectKind(rtype.Kind()); {
	case kind.IsSigned():
		n, ok := asInt64(rv)
		if !ok || out.OverflowInt(n) {
			return reflect.Value{}, convertErr(raw, rtype)
		}
		out.SetInt(n)

	case kind.IsUnsigned():
		n, ok := asUint64(rv)
		if !ok || out.OverflowUint(n) {
			return reflect.Value{}, convertErr(raw, rtype)
		}
		out.SetUint(n)

	case kind.IsNumber():
		if rv.Kind() != reflect.Float64 || out.OverflowFloat(rv.Float()) {
			return reflect.Value{}, convertErr(raw, rtype)
		}
		out.SetFloat(rv.Float())

	case kind == KindBool:
		if rv.Kind() != reflect.Bool {
			return reflect.Value{}, convertErr(raw, rtype)
		}
		out.SetBool(rv.Bool())

	case kind == KindString:
		if rv.Kind() != reflect.String {
			return reflect.Value{}, convertErr(raw, rtype)
		}
		out.SetString(rv.String())

	default:
		return reflect.Value{}, convertErr(raw, rtype)
	}

	return out, nil
}

func asInt64(rv reflect.Value) (int64, bool) {
	switch kind := FromReflectKind(rv.Kind()); {
	case kind.IsSigned():
		return rv.Int(), true
	case kind.IsUnsigned():
		if rv.Uint() > math.MaxInt64 {
			return 0, false
		}
		return int64(rv.Uint()), true
	default:
		return 0, false
	}
}

func asUint64(rv reflect.Value) (uint64, bool) {
	switch kind := FromReflectKind(rv.Kind()); {
	case kind.IsUnsigned():
		return rv.Uint(), true
	case kind.IsSigned():
		if rv.Int() < 0 {
			return 0, false
		}
		return uint64(rv.Int()), true
	default:
		return 0, false
	}
}

func convertErr(raw any, rtype reflect.Type) error {
	return fmt.Errorf("cannot convert %v (%T) to %s", raw, raw, rtype)
}
