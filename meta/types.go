package meta

import (
	"reflect"
	"slices"

	"typebind/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "typebind/internal/fixture"
	Name    string // e.g., "Circle"
}

// IDOf returns the TypeID of a named reflect.Type. Pointers are dereferenced.
func IDOf(rt reflect.Type) TypeID {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if rt == nil {
		return TypeID{}
	}

	return TypeID{PkgPath: rt.PkgPath(), Name: rt.Name()}
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the type name qualified by the package alias, e.g. "fixture.Circle".
func (t TypeID) Short() string {
	if alias := common.PkgAlias(t.PkgPath); alias != "" {
		return alias + "." + t.Name
	}

	return t.Name
}

// IsZero reports whether the TypeID is unset.
func (t TypeID) IsZero() bool {
	return t.Name == "" && t.PkgPath == ""
}

// Kind represents the kind of a type.
type Kind int

const (
	KindUnknown   Kind = iota
	KindStruct         // named struct; the only kind with a supertype and members
	KindInterface      // named interface
	KindEnum           // named primitive with a declared value domain
	KindBasic          // any other named type; always sealed
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindBasic:
		return "basic"
	default:
		return common.UnknownStr
	}
}

// Type describes one named type of the host program.
// A Type is immutable once its Catalog has been built.
type Type struct {
	id         TypeID
	kind       Kind
	sealed     bool
	super      *Type
	interfaces []*Type
	members    []*Member
	tags       []Tag
	values     []EnumValue
	goType     reflect.Type
}

func (t *Type) ID() TypeID { return t.id }

func (t *Type) Kind() Kind { return t.kind }

// Name returns the unqualified type name.
func (t *Type) Name() string { return t.id.Name }

// String returns the qualified type name.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}

	return t.id.String()
}

// IsSealed reports whether no other type may extend or implement this one.
func (t *Type) IsSealed() bool { return t.sealed }

// IsInterface reports whether the type is an interface.
func (t *Type) IsInterface() bool { return t.kind == KindInterface }

// Super returns the direct supertype, or nil for a root type.
func (t *Type) Super() *Type { return t.super }

// Interfaces returns the interfaces implemented directly at this level.
// Interfaces already satisfied by the supertype are not repeated here.
func (t *Type) Interfaces() []*Type { return slices.Clone(t.interfaces) }

// Members returns the members declared directly on the type: fields in
// declaration order, then accessors. Reflection cannot see method order, so
// accessors of a reflected type are sorted by name; only source-loaded
// catalogs list them in declaration order.
func (t *Type) Members() []*Member { return slices.Clone(t.members) }

// NumMembers returns the number of directly declared members.
func (t *Type) NumMembers() int { return len(t.members) }

// MemberAt returns the i-th declared member.
func (t *Type) MemberAt(i int) *Member { return t.members[i] }

// Member returns the directly declared member with the given name.
func (t *Type) Member(name string) (*Member, bool) {
	for _, m := range t.members {
		if m.name == name {
			return m, true
		}
	}

	return nil, false
}

// Tags returns the type-level tags in declaration order.
func (t *Type) Tags() []Tag { return slices.Clone(t.tags) }

// Values returns the declared values of an enum type in declaration order.
func (t *Type) Values() []EnumValue { return slices.Clone(t.values) }

// GoType returns the reflect.Type the descriptor was built from.
// It is nil for types loaded from source.
func (t *Type) GoType() reflect.Type { return t.goType }

// MemberKind distinguishes plain fields from accessor method pairs.
type MemberKind int

const (
	MemberField    MemberKind = iota // exported struct field
	MemberAccessor                   // X() getter and/or SetX(v) setter
)

// String returns a human-readable representation of the MemberKind.
func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberAccessor:
		return "accessor"
	default:
		return common.UnknownStr
	}
}

// Member describes a readable and/or writable slot declared on a struct type,
// independent of any instance.
type Member struct {
	owner    TypeID
	name     string
	kind     MemberKind
	index    int    // field index within the owner struct, -1 for accessors
	getter   string // getter method name, empty when there is none
	setter   string // setter method name, empty when there is none
	goType   reflect.Type
	typeName string
	tags     []Tag
}

// Owner returns the ID of the type that declares the member.
func (m *Member) Owner() TypeID { return m.owner }

func (m *Member) Name() string { return m.name }

func (m *Member) Kind() MemberKind { return m.kind }

// Index returns the struct field index, or -1 for accessor members.
func (m *Member) Index() int { return m.index }

// Getter returns the reader method name of an accessor member.
func (m *Member) Getter() string { return m.getter }

// Setter returns the writer method name of an accessor member.
func (m *Member) Setter() string { return m.setter }

// Type returns the declared value type. Nil for members loaded from source.
func (m *Member) Type() reflect.Type { return m.goType }

// TypeName returns the declared value type as written.
func (m *Member) TypeName() string { return m.typeName }

// Readable reports whether the member has a reader.
func (m *Member) Readable() bool { return m.kind == MemberField || m.getter != "" }

// Writable reports whether the member has a writer.
func (m *Member) Writable() bool { return m.kind == MemberField || m.setter != "" }

// Tags returns every tag attached to the member, in declaration order.
func (m *Member) Tags() []Tag { return slices.Clone(m.tags) }

// Tag returns the first tag of the given kind.
func (m *Member) Tag(kind string) (Tag, bool) {
	return firstTag(m.tags, kind)
}

// String returns "Owner.Name".
func (m *Member) String() string {
	return m.owner.Name + "." + m.name
}

// EnumValue is one declared constant of an enum type.
// Value holds either a value of the enum type itself (reflection source) or
// an untyped int64, uint64, float64, string or bool (source loader).
type EnumValue struct {
	Name  string
	Value any
}
