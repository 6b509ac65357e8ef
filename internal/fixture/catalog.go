package fixture

import (
	"typebind/meta"
)

// PkgPath is the import path of this package.
const PkgPath = "typebind/internal/fixture"

// Register adds every fixture type to b. Options stand in for what the
// source loader reads from directive comments.
func Register(b *meta.Builder) *meta.Builder {
	meta.RegisterType[Drawable](b)
	meta.RegisterType[Measurable](b)
	meta.RegisterType[Shaper](b)
	meta.RegisterType[Shape](b)
	meta.RegisterType[Circle](b)
	meta.RegisterType[Ring](b)
	meta.RegisterType[Square](b)
	meta.RegisterType[Point](b)
	meta.RegisterType[Token](b, meta.Sealed())
	meta.RegisterType[Person](b,
		meta.WithTypeTags(`audit:"people"`),
		meta.WithMemberTags("Nickname", `audit:"read"`),
		meta.WithMemberTags("Password", `audit:"write"`),
	)
	meta.RegisterType[Employee](b)
	meta.RegisterType[Address](b)
	meta.RegisterEnum(b, ColorRed, ColorGreen, ColorBlue)
	meta.RegisterEnum(b, StatusPending, StatusActive, StatusRetired)

	return b
}

// MustCatalog builds the reflection catalog of the fixture types.
func MustCatalog() *meta.Catalog {
	cat, err := Register(meta.NewBuilder()).Build()
	if err != nil {
		panic(err)
	}

	return cat
}

// ID returns the TypeID of a fixture type by name.
func ID(name string) meta.TypeID {
	return meta.TypeID{PkgPath: PkgPath, Name: name}
}
