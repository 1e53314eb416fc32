// Package pitch classifies event coordinates into discrete pitch regions
// and pass vectors into direction buckets. All functions are pure; missing
// coordinates map to an explicit unknown sentinel rather than an error.
package pitch

import "math"

// Standard StatsBomb pitch frame. The box thresholds are absolute in this
// frame and are never rescaled, unlike third boundaries which follow the
// observed extent of the active dataset.
const (
	DefaultLength = 120.0
	DefaultWidth  = 80.0

	BoxMinX = 102.0
	BoxMinY = 18.0
	BoxMaxY = 62.0
)

// forwardConeDegrees bounds the forward and backward direction cones around
// the attacking axis.
const forwardConeDegrees = 30.0

type Third int

const (
	ThirdUnknown Third = iota
	ThirdDefensive
	ThirdMiddle
	ThirdFinal
)

func (t Third) String() string {
	switch t {
	case ThirdDefensive:
		return "defensive"
	case ThirdMiddle:
		return "middle"
	case ThirdFinal:
		return "final"
	default:
		return "unknown"
	}
}

// ThirdOf buckets an x coordinate into pitch thirds with boundaries at one
// and two thirds of length. Length comes from configuration or from the
// maximum observed x in the dataset; letting it float tolerates both 0-100
// and 0-120 coordinate conventions without external configuration. The
// trade-off is that boundaries can differ slightly between a competition
// query and a single-match query, which is accepted behavior.
func ThirdOf(x *float64, length float64) Third {
	if x == nil || length <= 0 {
		return ThirdUnknown
	}
	switch {
	case *x < length/3:
		return ThirdDefensive
	case *x < 2*length/3:
		return ThirdMiddle
	default:
		return ThirdFinal
	}
}

type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionForward
	DirectionSideways
	DirectionBackward
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionSideways:
		return "sideways"
	case DirectionBackward:
		return "backward"
	default:
		return "unknown"
	}
}

// DirectionOf classifies the vector from (x,y) to (endX,endY) relative to
// the attacking axis (x increasing toward the opponent goal). Forward and
// backward are cones of ±30° around the axis and its reverse; everything
// else is sideways. Any missing coordinate, or a degenerate zero-length
// vector, yields DirectionUnknown and the event stays out of every
// directional denominator.
func DirectionOf(x, y, endX, endY *float64) Direction {
	if x == nil || y == nil || endX == nil || endY == nil {
		return DirectionUnknown
	}
	dx := *endX - *x
	dy := *endY - *y
	if dx == 0 && dy == 0 {
		return DirectionUnknown
	}
	angle := math.Abs(math.Atan2(dy, dx)) * 180 / math.Pi
	switch {
	case angle <= forwardConeDegrees:
		return DirectionForward
	case angle >= 180-forwardConeDegrees:
		return DirectionBackward
	default:
		return DirectionSideways
	}
}

// InBox reports whether a coordinate lies inside the attacking penalty box,
// boundary inclusive. The thresholds are absolute in the 120x80 frame.
func InBox(x, y *float64) bool {
	if x == nil || y == nil {
		return false
	}
	return *x >= BoxMinX && *y >= BoxMinY && *y <= BoxMaxY
}
