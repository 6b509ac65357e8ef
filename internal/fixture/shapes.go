package fixture

import "math"

// Drawable is satisfied by every Shape.
type Drawable interface {
	Draw() string
}

// Measurable has an area.
type Measurable interface {
	Area() float64
}

// Shaper embeds both shape interfaces.
type Shaper interface {
	Drawable
	Measurable
}

// Shape is the root of the shape hierarchy.
type Shape struct {
	ID   int   `json:"id"`
	Fill Color `json:"fill" validate:"required"`
}

func (s *Shape) Draw() string { return "shape" }

// Circle extends Shape.
type Circle struct {
	Shape
	Radius float64 `json:"radius" validate:"required,gt=0"`
	Label  string  `json:"label,omitempty"`
	scale  float64
}

func (c *Circle) Area() float64 { return math.Pi * c.Radius * c.Radius }

// Ring extends Circle.
type Ring struct {
	Circle
	Inner float64 `json:"inner"`
}

// Square extends Shape and is unrelated to Circle.
type Square struct {
	Shape
	Side float64 `json:"side"`
}

func (s Square) Area() float64 { return s.Side * s.Side }

// Point cannot be extended.
type Point struct {
	_ struct{} `typebind:",sealed" table:"points"`
	X int      `json:"x"`
	Y int      `json:"y"`
}

// Token cannot be extended either; it is sealed by directive.
//
//typebind:sealed
type Token struct {
	Value string
}
