package meta_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"typebind/internal/fixture"
	"typebind/meta"
)

func memberNames(t *meta.Type) []string {
	var names []string
	for _, m := range t.Members() {
		names = append(names, m.Name())
	}

	return names
}

func typeNames(types []*meta.Type) []string {
	var names []string
	for _, t := range types {
		names = append(names, t.Name())
	}

	return names
}

func TestBuilder_FixtureCatalog(t *testing.T) {
	cat := fixture.MustCatalog()

	circle := cat.MustLookup(fixture.ID("Circle"))
	assert.Equal(t, meta.KindStruct, circle.Kind(), meta.Dump(circle))
	require.NotNil(t, circle.Super())
	assert.Equal(t, "Shape", circle.Super().Name())
	assert.Nil(t, circle.Super().Super())
	assert.False(t, circle.IsSealed())
	assert.Equal(t, []string{"Radius", "Label"}, memberNames(circle))
	assert.Equal(t, []string{"Measurable", "Shaper"}, typeNames(circle.Interfaces()))

	shape := cat.MustLookup(fixture.ID("Shape"))
	assert.Equal(t, []string{"ID", "Fill"}, memberNames(shape))
	assert.Equal(t, []string{"Drawable"}, typeNames(shape.Interfaces()))

	ring := cat.MustLookup(fixture.ID("Ring"))
	assert.Equal(t, "Circle", ring.Super().Name())
	assert.Empty(t, ring.Interfaces())

	shaper := cat.MustLookup(fixture.ID("Shaper"))
	assert.True(t, shaper.IsInterface())
	assert.Equal(t, []string{"Drawable", "Measurable"}, typeNames(shaper.Interfaces()))
}

func TestBuilder_SealedSources(t *testing.T) {
	cat := fixture.MustCatalog()

	tests := []struct {
		name   string
		sealed bool
	}{
		{"Point", true},  // blank field control tag
		{"Token", true},  // Sealed option
		{"Color", true},  // enums are always sealed
		{"Status", true}, // enums are always sealed
		{"Shape", false},
		{"Drawable", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := cat.MustLookup(fixture.ID(tt.name))
			assert.Equal(t, tt.sealed, typ.IsSealed())
		})
	}
}

func TestBuilder_Accessors(t *testing.T) {
	cat := fixture.MustCatalog()
	person := cat.MustLookup(fixture.ID("Person"))

	assert.Equal(t, []string{"Name", "Age", "Status", "Email", "Nickname", "Password"}, memberNames(person))

	email, ok := person.Member("Email")
	require.True(t, ok)
	assert.Equal(t, meta.MemberAccessor, email.Kind())
	assert.Equal(t, "Email", email.Getter())
	assert.Equal(t, "SetEmail", email.Setter())
	assert.True(t, email.Readable())
	assert.True(t, email.Writable())
	assert.Equal(t, reflect.TypeFor[string](), email.Type())
	assert.Equal(t, -1, email.Index())

	nick, ok := person.Member("Nickname")
	require.True(t, ok)
	assert.True(t, nick.Readable())
	assert.False(t, nick.Writable())
	tag, ok := nick.Tag("audit")
	require.True(t, ok)
	assert.Equal(t, "read", tag.Value)

	pw, ok := person.Member("Password")
	require.True(t, ok)
	assert.False(t, pw.Readable())
	assert.True(t, pw.Writable())

	_, ok = person.Member("String")
	assert.False(t, ok, "untagged lone getters are plain methods")
	_, ok = person.Member("PasswordSet")
	assert.False(t, ok)
}

func TestBuilder_ExplicitExtends(t *testing.T) {
	cat := fixture.MustCatalog()
	emp := cat.MustLookup(fixture.ID("Employee"))

	require.NotNil(t, emp.Super())
	assert.Equal(t, "Person", emp.Super().Name())
	assert.Equal(t, []string{"Address", "Title"}, memberNames(emp), "promoted accessors are not redeclared")
}

func TestBuilder_TypeTags(t *testing.T) {
	cat := fixture.MustCatalog()
	person := cat.MustLookup(fixture.ID("Person"))

	assert.Equal(t, []meta.Tag{
		{Kind: "table", Value: "people"},
		{Kind: "table", Value: "persons"},
		{Kind: "audit", Value: "people"},
	}, person.Tags())

	point := cat.MustLookup(fixture.ID("Point"))
	assert.Equal(t, []meta.Tag{{Kind: "table", Value: "points"}}, point.Tags(), "control key is not a tag")
}

func TestBuilder_EnumValues(t *testing.T) {
	cat := fixture.MustCatalog()
	color := cat.MustLookup(fixture.ID("Color"))

	assert.Equal(t, meta.KindEnum, color.Kind())
	assert.Equal(t, []meta.EnumValue{
		{Name: "red", Value: fixture.ColorRed},
		{Name: "green", Value: fixture.ColorGreen},
		{Name: "blue", Value: fixture.ColorBlue},
	}, color.Values())
}

func TestBuilder_ImplicitSupertype(t *testing.T) {
	cat, err := meta.RegisterType[fixture.Ring](meta.NewBuilder()).Build()
	require.NoError(t, err)

	assert.Equal(t, 3, cat.Len())
	ring, ok := meta.TypeOf[fixture.Ring](cat)
	require.True(t, ok)
	assert.Equal(t, "Circle", ring.Super().Name())
	assert.Equal(t, "Shape", ring.Super().Super().Name())
}

type cycleA struct {
	*cycleB
	Name string
}

type cycleB struct {
	*cycleA
}

func TestBuilder_RejectsCycles(t *testing.T) {
	_, err := meta.RegisterType[cycleA](meta.NewBuilder()).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supertype cycle")
}

func TestBuilder_RejectsDuplicates(t *testing.T) {
	b := meta.NewBuilder()
	meta.RegisterType[fixture.Shape](b)
	meta.RegisterType[fixture.Shape](b)

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")
}

func TestBuilder_RejectsUnnamedAndBadEnums(t *testing.T) {
	b := meta.NewBuilder()
	b.Register(reflect.TypeFor[struct{ X int }]())
	meta.RegisterEnum(b, 1.5, 2.5)

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only named types")
	assert.Contains(t, err.Error(), "cannot carry an enum")
}

func TestBuilder_Declare(t *testing.T) {
	base := meta.TypeID{PkgPath: "example.com/zoo", Name: "Animal"}
	walker := meta.TypeID{PkgPath: "example.com/zoo", Name: "Walker"}
	dog := meta.TypeID{PkgPath: "example.com/zoo", Name: "Dog"}

	cat, err := meta.NewBuilder().
		Declare(meta.TypeDecl{ID: walker, Kind: meta.KindInterface}).
		Declare(meta.TypeDecl{ID: dog, Kind: meta.KindStruct, Extends: base, Implements: []meta.TypeID{walker},
			Members: []meta.MemberDecl{{Name: "Breed", Kind: meta.MemberField, Index: 1, TypeName: "string",
				Tags: []meta.Tag{{Kind: "validate", Value: "required"}}}}}).
		Declare(meta.TypeDecl{ID: base, Kind: meta.KindStruct}).
		Build()
	require.NoError(t, err)

	d := cat.MustLookup(dog)
	assert.Equal(t, base, d.Super().ID())
	assert.Equal(t, []string{"Walker"}, typeNames(d.Interfaces()))
	assert.Nil(t, d.GoType())

	breed, ok := d.Member("Breed")
	require.True(t, ok)
	assert.Nil(t, breed.Type())
	assert.Equal(t, "string", breed.TypeName())
}

func TestBuilder_DeclareUnknownSupertype(t *testing.T) {
	_, err := meta.NewBuilder().
		Declare(meta.TypeDecl{
			ID:      meta.TypeID{Name: "Orphan"},
			Kind:    meta.KindStruct,
			Extends: meta.TypeID{Name: "Missing"},
		}).
		Build()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown supertype Missing")
}

func TestBuilder_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	_, err := fixture.Register(meta.NewBuilder(meta.WithLogger(zap.New(core)))).Build()
	require.NoError(t, err)

	assert.NotZero(t, logs.FilterMessage("registered type").Len())
	linked := logs.FilterMessage("linked supertype").FilterField(zap.Stringer("type", fixture.ID("Circle"))).All()
	require.Len(t, linked, 1)
}

func TestCatalog_Default(t *testing.T) {
	assert.NotNil(t, meta.Default())

	cat := fixture.MustCatalog()
	meta.SetDefault(cat)
	t.Cleanup(func() { meta.SetDefault(nil) })

	assert.Same(t, cat, meta.Default())
	_, ok := meta.TypeOf[fixture.Circle](meta.Default())
	assert.True(t, ok)
}

func TestCatalog_LookupType(t *testing.T) {
	cat := fixture.MustCatalog()

	byPtr, ok := cat.LookupType(reflect.TypeFor[*fixture.Circle]())
	require.True(t, ok)
	byID, ok := cat.Lookup(fixture.ID("Circle"))
	require.True(t, ok)
	assert.Same(t, byID, byPtr)

	_, ok = cat.LookupType(reflect.TypeFor[testing.T]())
	assert.False(t, ok)
}

type misflagged struct {
	_    struct{} `typebind:",seal"`
	Name string
}

func TestBuilder_WarnsOnUnknownControlFlag(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	cat, err := meta.RegisterType[misflagged](meta.NewBuilder(meta.WithLogger(zap.New(core)))).Build()
	require.NoError(t, err)

	typ, ok := meta.TypeOf[misflagged](cat)
	require.True(t, ok)
	assert.False(t, typ.IsSealed())

	warned := logs.FilterMessage("ignoring unknown control flag").All()
	require.Len(t, warned, 1)
	assert.Equal(t, []any{"sealed"}, warned[0].ContextMap()["did_you_mean"])
}

type extendsPoint struct {
	fixture.Point
	Z int
}

func TestBuilder_RejectsSealedSupertype(t *testing.T) {
	b := meta.NewBuilder()
	meta.RegisterType[fixture.Point](b)
	meta.RegisterType[extendsPoint](b)

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot extend sealed typebind/internal/fixture.Point")

	// Implicit registration reads the blank field too.
	_, err = meta.RegisterType[extendsPoint](meta.NewBuilder()).Build()
	assert.ErrorContains(t, err, "cannot extend sealed")

	base := meta.TypeID{PkgPath: "example.com/zoo", Name: "Final"}
	_, err = meta.NewBuilder().
		Declare(meta.TypeDecl{ID: base, Kind: meta.KindStruct, Sealed: true}).
		Declare(meta.TypeDecl{ID: meta.TypeID{PkgPath: "example.com/zoo", Name: "Sub"}, Kind: meta.KindStruct, Extends: base}).
		Build()
	assert.ErrorContains(t, err, "cannot extend sealed example.com/zoo.Final")
}

type labeled struct {
	Name string `json:"name"`
}

func TestBuilder_BuildTwice(t *testing.T) {
	b := fixture.Register(meta.NewBuilder())
	meta.RegisterType[labeled](b, meta.WithMemberTags("Name", `validate:"required"`))

	first, err := b.Build()
	require.NoError(t, err)
	second, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, first.Len(), second.Len())
	for _, cat := range []*meta.Catalog{first, second} {
		assert.Equal(t, []string{"Radius", "Label"}, memberNames(cat.MustLookup(fixture.ID("Circle"))))
		assert.Equal(t, []string{"ID", "Fill"}, memberNames(cat.MustLookup(fixture.ID("Shape"))))

		typ, ok := meta.TypeOf[labeled](cat)
		require.True(t, ok)
		name, ok := typ.Member("Name")
		require.True(t, ok)
		assert.Equal(t, []meta.Tag{
			{Kind: "json", Value: "name"},
			{Kind: "validate", Value: "required"},
		}, name.Tags())
	}

	m1, _ := first.MustLookup(fixture.ID("Circle")).Member("Radius")
	m2, _ := second.MustLookup(fixture.ID("Circle")).Member("Radius")
	assert.NotSame(t, m1, m2, "catalogs share no members")
}

type reversed struct{ z, a int }

func (r *reversed) Zeta() int      { return r.z }
func (r *reversed) SetZeta(v int)  { r.z = v }
func (r *reversed) Alpha() int     { return r.a }
func (r *reversed) SetAlpha(v int) { r.a = v }

func TestBuilder_AccessorsSortedByName(t *testing.T) {
	cat, err := meta.RegisterType[reversed](meta.NewBuilder()).Build()
	require.NoError(t, err)

	typ, ok := meta.TypeOf[reversed](cat)
	require.True(t, ok)
	assert.Equal(t, []string{"Alpha", "Zeta"}, memberNames(typ), "reflection cannot see method order")
}
