package fixture

// Color is an integer enum.
type Color int

const (
	ColorRed Color = iota + 1
	ColorGreen
	ColorBlue
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// Status is a string enum. Declaration order is not alphabetical on purpose.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusRetired Status = "retired"
)
