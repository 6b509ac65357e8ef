package meta

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch means the caller's expected type does not match the runtime type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNotReadable means the member has no reader.
	ErrNotReadable = errors.New("member is not readable")
	// ErrNotWritable means the member has no writer, or the bound instance is not addressable.
	ErrNotWritable = errors.New("member is not writable")
	// ErrUndeclaredMember means the bound instance's type does not declare the member.
	ErrUndeclaredMember = errors.New("member not declared by instance type")
)

// AccessError describes a failed typed access. It unwraps to one of the sentinel errors above.
type AccessError struct {
	Op     string // "get", "set" or "values"
	Type   string // type being accessed
	Member string // member name, empty for enum queries
	Want   string // expected type, if relevant
	Got    string // actual type, if relevant
	Err    error
}

func (e *AccessError) Error() string {
	target := e.Type
	if e.Member != "" {
		target += "." + e.Member
	}

	msg := fmt.Sprintf("%s %s: %v", e.Op, target, e.Err)
	if e.Want != "" || e.Got != "" {
		msg += fmt.Sprintf(" (want %s, got %s)", e.Want, e.Got)
	}

	return msg
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
