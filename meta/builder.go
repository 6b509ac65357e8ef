package meta

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"typebind/internal/match"
	"typebind/primitive"
)

// Directive words understood in a typebind control tag.
const (
	FlagSealed  = "sealed"
	FlagExtends = "extends"
)

// TypeDecl declares a type without a reflect.Type, e.g. from static analysis.
type TypeDecl struct {
	ID         TypeID
	Kind       Kind
	Sealed     bool
	Extends    TypeID   // zero for root types
	Implements []TypeID // interfaces implemented directly at this level
	Members    []MemberDecl
	Tags       []Tag
	Values     []EnumValue
}

// MemberDecl declares a member of a TypeDecl.
type MemberDecl struct {
	Name     string
	Kind     MemberKind
	Index    int // struct field index; ignored for accessors
	Getter   string
	Setter   string
	TypeName string
	Tags     []Tag
}

type typeOptions struct {
	sealed     bool
	extends    reflect.Type
	typeTags   []reflect.StructTag
	memberTags map[string][]reflect.StructTag
}

// TypeOption customizes how a reflected type is described.
type TypeOption func(*typeOptions)

// Sealed marks the type as sealed.
func Sealed() TypeOption {
	return func(o *typeOptions) { o.sealed = true }
}

// Extends names the embedded struct that acts as supertype,
// overriding the first-embedded-struct default.
func Extends(rt reflect.Type) TypeOption {
	return func(o *typeOptions) { o.extends = rt }
}

// WithTypeTags attaches type-level tags.
func WithTypeTags(tags ...reflect.StructTag) TypeOption {
	return func(o *typeOptions) { o.typeTags = append(o.typeTags, tags...) }
}

// WithMemberTags attaches tags to a member. Accessor members can only be
// tagged this way since methods carry no struct tags.
func WithMemberTags(member string, tag reflect.StructTag) TypeOption {
	return func(o *typeOptions) {
		if o.memberTags == nil {
			o.memberTags = make(map[string][]reflect.StructTag)
		}
		o.memberTags[member] = append(o.memberTags[member], tag)
	}
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for registration and linking decisions.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// Builder collects type registrations and produces an immutable Catalog.
// A Builder is not safe for concurrent use.
type Builder struct {
	logger  *zap.Logger
	entries []*entry
	byID    map[TypeID]*entry
	errs    []error
}

type entry struct {
	id       TypeID
	kind     Kind
	rt       reflect.Type
	decl     *TypeDecl
	opts     typeOptions
	values   []EnumValue
	implicit bool

	// filled by scan for reflected structs
	superRT  reflect.Type
	fields   []*Member
	typeTags []Tag
	sealed   bool
	promoted map[string]bool
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		logger: zap.NewNop(),
		byID:   make(map[TypeID]*entry),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Register adds a named type. Pointer types are dereferenced.
func (b *Builder) Register(rt reflect.Type, opts ...TypeOption) *Builder {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if rt == nil || rt.Name() == "" {
		b.errs = append(b.errs, fmt.Errorf("register %v: only named types can be registered", rt))
		return b
	}

	e := &entry{id: IDOf(rt), rt: rt, kind: reflectKind(rt)}
	for _, opt := range opts {
		opt(&e.opts)
	}

	b.add(e)
	return b
}

// RegisterType registers T.
func RegisterType[T any](b *Builder, opts ...TypeOption) *Builder {
	return b.Register(reflect.TypeFor[T](), opts...)
}

// RegisterEnum registers T as an enum whose domain is values, in the given order.
// Value names come from a String method when T has one.
func RegisterEnum[T comparable](b *Builder, values ...T) *Builder {
	rt := reflect.TypeFor[T]()
	if primitive.FromReflectType(rt) != primitive.KindPrimitiveEnum {
		b.errs = append(b.errs, fmt.Errorf("register enum %v: underlying kind %s cannot carry an enum", rt, rt.Kind()))
		return b
	}

	e := &entry{id: IDOf(rt), rt: rt, kind: KindEnum}
	seen := make(map[T]bool, len(values))
	for _, v := range values {
		if seen[v] {
			b.errs = append(b.errs, fmt.Errorf("register enum %s: duplicate value %v", e.id, v))
			return b
		}
		seen[v] = true
		e.values = append(e.values, EnumValue{Name: valueName(v), Value: v})
	}

	b.add(e)
	return b
}

// Declare adds a type described without reflection.
func (b *Builder) Declare(d TypeDecl) *Builder {
	if d.ID.Name == "" {
		b.errs = append(b.errs, errors.New("declare: type name is required"))
		return b
	}

	decl := d
	b.add(&entry{id: d.ID, kind: d.Kind, decl: &decl})
	return b
}

func (b *Builder) add(e *entry) {
	if prev, ok := b.byID[e.id]; ok {
		if prev.implicit {
			*prev = *e
			return
		}
		b.errs = append(b.errs, fmt.Errorf("type %s registered twice", e.id))
		return
	}

	b.byID[e.id] = e
	b.entries = append(b.entries, e)
	b.logger.Debug("registered type",
		zap.Stringer("type", e.id),
		zap.Stringer("kind", e.kind),
	)
}

// Build links supertypes, interfaces and members, and returns the Catalog.
// It fails on duplicate registrations, unknown or sealed supertypes and
// supertype cycles. Calling Build again yields a new Catalog that shares
// nothing mutable with earlier ones.
func (b *Builder) Build() (*Catalog, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	// Scanning may register implicit supertypes, so the slice can grow.
	for i := 0; i < len(b.entries); i++ {
		e := b.entries[i]
		if e.rt == nil || e.kind != KindStruct {
			continue
		}

		if err := b.scanStruct(e); err != nil {
			b.errs = append(b.errs, err)
			continue
		}

		if e.superRT != nil {
			if _, ok := b.byID[IDOf(e.superRT)]; !ok {
				b.logger.Debug("registering implicit supertype",
					zap.Stringer("type", e.id),
					zap.Stringer("super", IDOf(e.superRT)),
				)
				b.add(&entry{id: IDOf(e.superRT), rt: e.superRT, kind: KindStruct, implicit: true})
			}
		}
	}

	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	cat := newCatalog()
	for _, e := range b.entries {
		t := b.newType(e)
		cat.types[t.id] = t
		cat.order = append(cat.order, t)
		if e.rt != nil {
			cat.byType[e.rt] = t
		}
	}

	var errs []error
	for i, e := range b.entries {
		if err := b.linkSuper(cat, e, cat.order[i]); err != nil {
			errs = append(errs, err)
		}
	}

	for _, t := range cat.order {
		if err := checkAcyclic(t); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for i, e := range b.entries {
		if err := b.linkInterfaces(cat, e, cat.order[i]); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for i, e := range b.entries {
		cat.order[i].members = b.members(e)
	}

	return cat, nil
}

func (b *Builder) newType(e *entry) *Type {
	t := &Type{id: e.id, kind: e.kind, goType: e.rt, values: slices.Clone(e.values)}

	if e.decl != nil {
		t.sealed = e.decl.Sealed
		t.tags = slices.Clone(e.decl.Tags)
		t.values = slices.Clone(e.decl.Values)
	} else {
		t.sealed = e.opts.sealed || e.sealed
		t.tags = append(slices.Clone(e.typeTags), b.parseOptionTags(e.id, e.opts.typeTags)...)
	}

	// Nothing can embed an enum or a basic type and add behavior to it.
	if t.kind == KindEnum || t.kind == KindBasic {
		t.sealed = true
	}

	return t
}

func (b *Builder) parseOptionTags(id TypeID, raw []reflect.StructTag) []Tag {
	var out []Tag
	for _, r := range raw {
		tags, _, err := ParseTags(r)
		if err != nil {
			b.logger.Warn("ignoring malformed tag", zap.Stringer("type", id), zap.Error(err))
			continue
		}
		out = append(out, tags...)
	}

	return out
}

// scanStruct reads the supertype, type-level tags, field members and the
// names of methods promoted from embedded fields.
func (b *Builder) scanStruct(e *entry) error {
	rt := e.rt
	e.promoted = make(map[string]bool)
	e.superRT = nil
	e.fields = nil
	e.typeTags = nil
	e.sealed = false

	superIndex := -1
	firstEmbedded := -1
	explicit := false
	for i := range rt.NumField() {
		f := rt.Field(i)

		tags, control, err := ParseTags(f.Tag)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", e.id, f.Name, err)
		}
		flags := controlFlags(control)
		b.warnUnknownFlags(e.id, f.Name, flags)

		if f.Name == "_" {
			e.typeTags = append(e.typeTags, tags...)
			if slices.Contains(flags, FlagSealed) {
				e.sealed = true
			}
			continue
		}

		if f.Anonymous {
			collectPromoted(f.Type, e.promoted)

			if ft := derefType(f.Type); ft.Kind() == reflect.Struct && ft.Name() != "" {
				switch {
				case slices.Contains(flags, FlagExtends):
					if explicit {
						return fmt.Errorf("%s: more than one embedded field tagged %q", e.id, FlagExtends)
					}
					superIndex, explicit = i, true
				case firstEmbedded < 0:
					firstEmbedded = i
				}
			}
		}

		if !f.IsExported() {
			continue
		}

		e.fields = append(e.fields, &Member{
			owner:    e.id,
			name:     f.Name,
			kind:     MemberField,
			index:    i,
			goType:   f.Type,
			typeName: f.Type.String(),
			tags:     tags,
		})
	}

	if e.opts.extends != nil {
		want := derefType(e.opts.extends)
		superIndex = -1
		for i := range rt.NumField() {
			if f := rt.Field(i); f.Anonymous && derefType(f.Type) == want {
				superIndex = i
				break
			}
		}
		if superIndex < 0 {
			return fmt.Errorf("%s: supertype %s is not an embedded field", e.id, want)
		}
	}

	if superIndex < 0 {
		superIndex = firstEmbedded
	}

	if superIndex >= 0 {
		e.superRT = derefType(rt.Field(superIndex).Type)
		e.fields = slices.DeleteFunc(e.fields, func(m *Member) bool { return m.index == superIndex })
		b.logger.Debug("linked supertype",
			zap.Stringer("type", e.id),
			zap.Stringer("super", IDOf(e.superRT)),
		)
	}

	return nil
}

func (b *Builder) warnUnknownFlags(id TypeID, field string, flags []string) {
	known := []string{FlagSealed, FlagExtends}
	for _, flag := range flags {
		if slices.Contains(known, flag) {
			continue
		}

		b.logger.Warn("ignoring unknown control flag",
			zap.Stringer("type", id),
			zap.String("field", field),
			zap.String("flag", flag),
			zap.Strings("did_you_mean", match.Closest(flag, known, 1)),
		)
	}
}

func (b *Builder) linkSuper(cat *Catalog, e *entry, t *Type) error {
	var superID TypeID
	switch {
	case e.decl != nil:
		superID = e.decl.Extends
	case e.superRT != nil:
		superID = IDOf(e.superRT)
	}

	if superID.IsZero() {
		return nil
	}

	super, ok := cat.types[superID]
	if !ok {
		return fmt.Errorf("%s: unknown supertype %s", t.id, superID)
	}

	if super.kind != KindStruct || t.kind != KindStruct {
		return fmt.Errorf("%s: only structs can extend structs, got %s extending %s", t.id, t.kind, super.kind)
	}

	if super.sealed {
		return fmt.Errorf("%s: cannot extend sealed %s", t.id, super.id)
	}

	t.super = super
	return nil
}

func checkAcyclic(t *Type) error {
	seen := map[TypeID]bool{t.id: true}
	for s := t.super; s != nil; s = s.super {
		if seen[s.id] {
			return fmt.Errorf("%s: supertype cycle through %s", t.id, s.id)
		}
		seen[s.id] = true
	}

	return nil
}

func (b *Builder) linkInterfaces(cat *Catalog, e *entry, t *Type) error {
	if e.decl != nil {
		for _, id := range e.decl.Implements {
			iface, ok := cat.types[id]
			if !ok || iface.kind != KindInterface {
				return fmt.Errorf("%s: implemented type %s is not a known interface", t.id, id)
			}
			t.interfaces = append(t.interfaces, iface)
		}
		return nil
	}

	for _, iface := range cat.order {
		if iface == t || iface.kind != KindInterface || iface.goType == nil {
			continue
		}

		if !implements(t.goType, iface.goType) {
			continue
		}

		if t.super != nil && t.super.goType != nil && implements(t.super.goType, iface.goType) {
			continue
		}

		t.interfaces = append(t.interfaces, iface)
		b.logger.Debug("linked interface",
			zap.Stringer("type", t.id),
			zap.Stringer("interface", iface.id),
		)
	}

	return nil
}

func (b *Builder) members(e *entry) []*Member {
	if e.decl != nil {
		out := make([]*Member, 0, len(e.decl.Members))
		for _, d := range e.decl.Members {
			m := &Member{
				owner:    e.id,
				name:     d.Name,
				kind:     d.Kind,
				index:    d.Index,
				getter:   d.Getter,
				setter:   d.Setter,
				typeName: d.TypeName,
				tags:     slices.Clone(d.Tags),
			}
			if m.kind == MemberAccessor {
				m.index = -1
			}
			out = append(out, m)
		}
		return out
	}

	if e.rt == nil || e.kind != KindStruct {
		return nil
	}

	extra := make(map[string][]Tag, len(e.opts.memberTags))
	for name, raw := range e.opts.memberTags {
		extra[name] = b.parseOptionTags(e.id, raw)
	}

	out := make([]*Member, 0, len(e.fields))
	for _, f := range e.fields {
		m := *f
		m.tags = append(slices.Clone(f.tags), extra[m.name]...)
		out = append(out, &m)
	}

	return append(out, b.accessors(e, extra)...)
}

// accessors pairs X() T getters with SetX(T) setters declared on *T.
// A lone getter or setter only counts as a member when it is tagged.
func (b *Builder) accessors(e *entry, tags map[string][]Tag) []*Member {
	pt := reflect.PointerTo(e.rt)

	getters := make(map[string]reflect.Method)
	setters := make(map[string]reflect.Method)
	for i := range pt.NumMethod() {
		m := pt.Method(i)
		if e.promoted[m.Name] {
			continue
		}

		switch {
		case m.Type.NumIn() == 1 && m.Type.NumOut() == 1:
			getters[m.Name] = m
		case m.Type.NumIn() == 2 && m.Type.NumOut() == 0 && isSetterName(m.Name):
			setters[strings.TrimPrefix(m.Name, "Set")] = m
		}
	}

	names := make([]string, 0, len(getters)+len(setters))
	for name := range getters {
		names = append(names, name)
	}
	for name := range setters {
		if _, ok := getters[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var out []*Member
	for _, name := range names {
		g, hasGetter := getters[name]
		s, hasSetter := setters[name]

		if hasGetter && hasSetter && s.Type.In(1) != g.Type.Out(0) {
			b.logger.Debug("setter does not match getter type",
				zap.Stringer("type", e.id),
				zap.String("member", name),
			)
			hasSetter = false
		}

		if (!hasGetter || !hasSetter) && len(tags[name]) == 0 {
			continue
		}

		m := &Member{owner: e.id, name: name, kind: MemberAccessor, index: -1, tags: tags[name]}
		if hasGetter {
			m.getter = g.Name
			m.goType = g.Type.Out(0)
		}
		if hasSetter {
			m.setter = s.Name
			m.goType = s.Type.In(1)
		}
		m.typeName = m.goType.String()

		out = append(out, m)
	}

	return out
}

func isSetterName(name string) bool {
	return len(name) > len("Set") && strings.HasPrefix(name, "Set")
}

// collectPromoted records the method names an embedded field contributes.
func collectPromoted(ft reflect.Type, into map[string]bool) {
	if ft.Kind() != reflect.Interface && ft.Kind() != reflect.Pointer {
		ft = reflect.PointerTo(ft)
	}

	for i := range ft.NumMethod() {
		into[ft.Method(i).Name] = true
	}
}

func implements(rt, iface reflect.Type) bool {
	if rt.Implements(iface) {
		return true
	}

	return rt.Kind() != reflect.Interface && reflect.PointerTo(rt).Implements(iface)
}

func reflectKind(rt reflect.Type) Kind {
	switch rt.Kind() {
	case reflect.Struct:
		return KindStruct
	case reflect.Interface:
		return KindInterface
	default:
		return KindBasic
	}
}

func derefType(rt reflect.Type) reflect.Type {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	return rt
}

func valueName(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprint(v)
}
