package bind

import (
	"reflect"

	"typebind/meta"
)

type (
	reader func() reflect.Value
	writer func(reflect.Value)
)

// Handle is a member bound to one instance.
type Handle struct {
	instance any
	member   *meta.Member

	read     reader
	write    writer
	declared reflect.Type // value type of the member on this instance

	readErr  error // why read is nil
	writeErr error // why write is nil
	err      error // resolution failure; every access reports it
}

// Bind pairs instance with member. Pass a pointer to allow writes.
func Bind(instance any, member *meta.Member) *Handle {
	h := &Handle{instance: instance, member: member}
	h.resolve()
	return h
}

// Member returns the bound member descriptor.
func (h *Handle) Member() *meta.Member { return h.member }

// Instance returns the bound instance.
func (h *Handle) Instance() any { return h.instance }

// Readable reports whether Get can succeed for some T.
func (h *Handle) Readable() bool { return h.err == nil && h.read != nil }

// Writable reports whether Set can succeed for some value.
func (h *Handle) Writable() bool { return h.err == nil && h.write != nil }

// Type returns the member's value type on the bound instance, or nil when
// the binding could not be resolved.
func (h *Handle) Type() reflect.Type { return h.declared }

func (h *Handle) resolve() {
	if h.member == nil {
		h.err = h.fail("bind", meta.ErrUndeclaredMember, "", "")
		return
	}

	rv := reflect.ValueOf(h.instance)
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		h.err = h.fail("bind", meta.ErrUndeclaredMember, h.member.Owner().Short(), "nil")
		return
	}

	recv := rv
	elem := rv
	if rv.Kind() == reflect.Pointer {
		elem = rv.Elem()
	}

	if got := meta.IDOf(elem.Type()); got != h.member.Owner() {
		h.err = h.fail("bind", meta.ErrUndeclaredMember, h.member.Owner().Short(), got.Short())
		return
	}

	switch h.member.Kind() {
	case meta.MemberField:
		h.resolveField(elem)
	case meta.MemberAccessor:
		h.resolveAccessor(recv)
	default:
		h.err = h.fail("bind", meta.ErrUndeclaredMember, "", "")
	}
}

func (h *Handle) resolveField(elem reflect.Value) {
	i := h.member.Index()
	if elem.Kind() != reflect.Struct || i < 0 || i >= elem.NumField() || elem.Type().Field(i).Name != h.member.Name() {
		h.err = h.fail("bind", meta.ErrUndeclaredMember, "", "")
		return
	}

	fv := elem.Field(i)
	h.declared = fv.Type()
	h.read = func() reflect.Value { return fv }

	if !fv.CanSet() {
		h.writeErr = h.fail("set", meta.ErrNotWritable, "pointer to "+h.member.Owner().Short(), "value")
		return
	}

	h.write = func(v reflect.Value) { fv.Set(v) }
}

func (h *Handle) resolveAccessor(recv reflect.Value) {
	if name := h.member.Getter(); name != "" {
		mv := recv.MethodByName(name)
		switch {
		case !mv.IsValid():
			h.readErr = h.fail("get", meta.ErrNotReadable, "pointer to "+h.member.Owner().Short(), "value")
		case mv.Type().NumIn() != 0 || mv.Type().NumOut() != 1:
			h.err = h.fail("bind", meta.ErrUndeclaredMember, "", "")
			return
		default:
			h.declared = mv.Type().Out(0)
			h.read = func() reflect.Value { return mv.Call(nil)[0] }
		}
	} else {
		h.readErr = h.fail("get", meta.ErrNotReadable, "", "")
	}

	if name := h.member.Setter(); name != "" {
		mv := recv.MethodByName(name)
		switch {
		case !mv.IsValid():
			h.writeErr = h.fail("set", meta.ErrNotWritable, "pointer to "+h.member.Owner().Short(), "value")
		case mv.Type().NumIn() != 1 || mv.Type().NumOut() != 0:
			h.err = h.fail("bind", meta.ErrUndeclaredMember, "", "")
			return
		default:
			h.declared = mv.Type().In(0)
			h.write = func(v reflect.Value) { mv.Call([]reflect.Value{v}) }
		}
	} else {
		h.writeErr = h.fail("set", meta.ErrNotWritable, "", "")
	}
}

func (h *Handle) fail(op string, err error, want, got string) error {
	ae := &meta.AccessError{Op: op, Want: want, Got: got, Err: err}
	if h.member != nil {
		ae.Type = h.member.Owner().Short()
		ae.Member = h.member.Name()
	}

	return ae
}
