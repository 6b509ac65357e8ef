package primitive

import (
	"reflect"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the primitive shapes an enum value can take.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindPrimitiveEnum // named type over any integer number, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsNumber reports integer and floating-point kinds.
func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// FromReflectKind maps a reflect.Kind to the primitive kind of the same shape,
// ignoring whether the type is named.
func FromReflectKind(k reflect.Kind) KindEnum {
	switch k {
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	default:
		return 0
	}
}

// FromReflectType classifies rtype: a builtin primitive gets its own kind and
// a named type over an integer, boolean or string is KindPrimitiveEnum.
func FromReflectType(rtype reflect.Type) KindEnum {
	switch {
	case rtype == nil:
		return 0
	case rtype.Name() != "" && rtype.PkgPath() == "":
		// predeclared: int, string, ...
		return FromReflectKind(rtype.Kind())
	case IsEnumCapable(rtype):
		return KindPrimitiveEnum
	default:
		return 0
	}
}

// IsEnumCapable reports whether rtype is a named type whose underlying kind can
// carry an enum domain: any integer, boolean or string.
func IsEnumCapable(rtype reflect.Type) bool {
	if rtype == nil || rtype.Name() == "" || rtype.PkgPath() == "" {
		return false
	}

	k := FromReflectKind(rtype.Kind())
	return k.IsInteger() || k == KindBool || k == KindString
}
