package hierarchy

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typebind/internal/fixture"
	"typebind/meta"
)

func typ(t *testing.T, cat *meta.Catalog, name string) *meta.Type {
	t.Helper()

	out, ok := cat.Lookup(fixture.ID(name))
	require.True(t, ok, "type %s not in fixture catalog", name)

	return out
}

func TestIsConvertible(t *testing.T) {
	cat := fixture.MustCatalog()

	tests := []struct {
		candidate string
		target    string
		want      bool
		rule      Rule
	}{
		{"Circle", "Shape", true, RuleAncestor},
		{"Circle", "Drawable", true, RuleInterface},
		{"Circle", "Measurable", true, RuleInterface},
		{"Shape", "Circle", false, RuleUnrelated},
		{"Shape", "Measurable", false, RuleUnrelated},
		{"Ring", "Shape", true, RuleAncestor},
		{"Ring", "Drawable", true, RuleInterface},
		{"Ring", "Shaper", true, RuleInterface},
		{"Square", "Circle", false, RuleUnrelated},
		{"Square", "Shaper", true, RuleInterface},
		{"Shaper", "Drawable", true, RuleInterface},
		{"Drawable", "Shaper", false, RuleUnrelated},
		{"Employee", "Person", true, RuleAncestor},
		{"Employee", "Address", false, RuleUnrelated},
		{"Circle", "Circle", true, RuleIdentity},
		{"Point", "Point", true, RuleIdentity},
		{"Circle", "Point", false, RuleSealed},
		{"Token", "Token", true, RuleIdentity},
		{"Shape", "Token", false, RuleSealed},
		{"Color", "Status", false, RuleSealed},
	}

	for _, tt := range tests {
		t.Run(tt.candidate+"->"+tt.target, func(t *testing.T) {
			candidate := typ(t, cat, tt.candidate)
			target := typ(t, cat, tt.target)

			assert.Equal(t, tt.want, IsConvertible(candidate, target))

			res := Explain(candidate, target)
			assert.Equal(t, tt.want, res.Convertible)
			assert.Equal(t, tt.rule, res.Rule, res.Reason)
			assert.NotEmpty(t, res.Reason)
		})
	}
}

func TestIsConvertible_Nil(t *testing.T) {
	cat := fixture.MustCatalog()
	shape := typ(t, cat, "Shape")

	assert.False(t, IsConvertible(nil, shape))
	assert.False(t, IsConvertible(shape, nil))
	assert.False(t, IsConvertible(nil, nil))

	res := Explain(nil, shape)
	assert.Equal(t, RuleInvalid, res.Rule)
	assert.Equal(t, "<nil>", res.Candidate)
}

func TestIsConvertible_Reflexive(t *testing.T) {
	for _, typ := range fixture.MustCatalog().Types() {
		assert.True(t, IsConvertible(typ, typ), typ.String())
	}
}

func TestIsConvertible_Transitive(t *testing.T) {
	cat := fixture.MustCatalog()
	types := cat.Types()

	for _, a := range types {
		for _, b := range types {
			if !IsConvertible(a, b) {
				continue
			}
			for _, c := range types {
				if IsConvertible(b, c) && !c.IsSealed() {
					assert.True(t, IsConvertible(a, c), "%s -> %s -> %s", a, b, c)
				}
			}
		}
	}
}

func TestIsConvertible_SealedTargetsOnlyAcceptThemselves(t *testing.T) {
	cat := fixture.MustCatalog()

	for _, target := range cat.Types() {
		if !target.IsSealed() {
			continue
		}
		for _, candidate := range cat.Types() {
			got := IsConvertible(candidate, target)
			assert.Equal(t, candidate.ID() == target.ID(), got, "%s -> %s", candidate, target)
		}
	}
}

func TestExplain_Via(t *testing.T) {
	cat := fixture.MustCatalog()

	res := Explain(typ(t, cat, "Ring"), typ(t, cat, "Drawable"))
	require.True(t, res.Convertible)
	require.NotNil(t, res.Via)
	assert.Equal(t, "Shape", res.Via.Name())
	assert.Contains(t, res.Reason, "ancestor")

	res = Explain(typ(t, cat, "Circle"), typ(t, cat, "Measurable"))
	assert.Equal(t, "Circle", res.Via.Name())
	assert.Equal(t, "candidate implements target", res.Reason)
}

func TestConvertibleTo(t *testing.T) {
	cat := fixture.MustCatalog()
	ring := typ(t, cat, "Ring")

	assert.True(t, ConvertibleTo[fixture.Shape](cat, ring))
	assert.True(t, ConvertibleTo[fixture.Drawable](cat, ring))
	assert.False(t, ConvertibleTo[fixture.Square](cat, ring))
	assert.False(t, ConvertibleTo[testing.T](cat, ring), "types outside the catalog")
}

func TestRule_String(t *testing.T) {
	assert.Equal(t, "ancestor", RuleAncestor.String())
	assert.Equal(t, "sealed", RuleSealed.String())
	assert.Equal(t, "unknown", Rule(42).String())
}

func TestWalker(t *testing.T) {
	cat := fixture.MustCatalog()
	ring := typ(t, cat, "Ring")

	var names []string
	for a := range Ancestors(ring) {
		names = append(names, a.Name())
	}
	assert.Equal(t, []string{"Circle", "Shape"}, names)

	lineage := slices.Collect(Lineage(ring))
	require.Len(t, lineage, 3)
	assert.Same(t, ring, lineage[0])

	assert.Equal(t, 2, Depth(ring))
	assert.Equal(t, 0, Depth(typ(t, cat, "Shape")))
	assert.Equal(t, 0, Depth(nil))
	assert.Empty(t, slices.Collect(Lineage(nil)))

	// Stopping early must not panic.
	for range Lineage(ring) {
		break
	}
}

func TestInterfacesAt(t *testing.T) {
	cat := fixture.MustCatalog()

	names := func(list []*meta.Type) []string {
		var out []string
		for _, x := range list {
			out = append(out, x.Name())
		}
		return out
	}

	assert.Equal(t, []string{"Drawable"}, names(InterfacesAt(typ(t, cat, "Shape"))))
	assert.Equal(t, []string{"Measurable", "Shaper"}, names(InterfacesAt(typ(t, cat, "Circle"))))
	assert.Empty(t, InterfacesAt(typ(t, cat, "Ring")))
	assert.Nil(t, InterfacesAt(nil))
}
