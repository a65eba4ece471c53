// Package warp maps world points through an optional nonlinear lens.
//
// A warp returns the apparent position of a point plus a scale factor that
// callers multiply into radii. The constraint solver and the renderers both
// consume it, so collisions are resolved between the circles as displayed.
package warp

// Region classifies where a point fell relative to the lens.
type Region uint8

const (
	// AtFocus means the point coincides with the focus; no direction is defined.
	AtFocus Region = iota
	// Inside means the point was displaced and scaled by the lens.
	Inside
	// Outside means the point is at or beyond the lens radius.
	Outside
)

func (r Region) String() string {
	switch r {
	case AtFocus:
		return "focus"
	case Inside:
		return "inside"
	case Outside:
		return "outside"
	}
	return "unknown"
}

// Point is the result of warping a world point.
type Point struct {
	X, Y   float64
	Scale  float64
	Region Region
}

// Warp maps a world point to its apparent point.
type Warp interface {
	Apply(x, y float64) Point
}

// Identity leaves every point unchanged with unit scale.
type Identity struct{}

func (Identity) Apply(x, y float64) Point {
	return Point{X: x, Y: y, Scale: 1, Region: Outside}
}
