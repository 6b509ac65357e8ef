// Package warn declares types the source loader reports on.
package warn

import "typebind/internal/fixture"

// Box is generic and cannot be described.
type Box[T any] struct {
	Value T
}

// Gauge has a setter whose parameter differs from the getter result.
type Gauge struct {
	level int
}

func (g *Gauge) Level() int { return g.level }

func (g *Gauge) SetLevel(v int64) { g.level = int(v) }

// Widget carries a misspelled directive.
//
//typebind:seald
type Widget struct {
	Name string
}

// Crate carries a misspelled control flag.
type Crate struct {
	_    struct{} `typebind:",seal"`
	Size int
}

// Hybrid tags two embedded fields as its supertype.
type Hybrid struct {
	Left  `typebind:"extends"`
	Right `typebind:"extends"`
}

type Left struct {
	L int
}

type Right struct {
	R int
}

// Badge embeds a struct from a package that is not loaded.
type Badge struct {
	fixture.Shape
	Caption string
}

// Broken has a tag reflect cannot split.
type Broken struct {
	X int `json:x`
}

// Phase has a constant with no primitive value.
type Phase complex128

const PhaseI Phase = 1i

// Plate is sealed.
//
//typebind:sealed
type Plate struct {
	W int
}

// Tray embeds a sealed struct and stays a root type.
type Tray struct {
	Plate
	Depth int
}

// Namer and Labeled share a method without embedding.
type Namer interface {
	Name() string
}

type Labeled interface {
	Name() string
	Label() string
}
