package domain

import "math"

// CartesianDirection is one of the six signed world axes.
type CartesianDirection uint8

const (
	PosX CartesianDirection = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// CartesianDirections lists every direction in a fixed order.
var CartesianDirections = [6]CartesianDirection{PosX, NegX, PosY, NegY, PosZ, NegZ}

// DirectionFromAxis returns the direction along axis (0=x, 1=y, 2=z).
func DirectionFromAxis(axis int, positive bool) CartesianDirection {
	if axis < 0 || axis > 2 {
		panic("axis out of range")
	}
	d := CartesianDirection(axis * 2)
	if !positive {
		d++
	}
	return d
}

// directionTolerance is how far a vector may stray from a unit axis and still round to it.
const directionTolerance = 1e-3

// DirectionFromVector rounds a near-unit vector to the axis direction it points along.
func DirectionFromVector(v [3]float64) (CartesianDirection, bool) {
	axis := -1
	for i, c := range v {
		switch {
		case math.Abs(c) <= directionTolerance:
		case math.Abs(math.Abs(c)-1) <= directionTolerance:
			if axis != -1 {
				return 0, false
			}
			axis = i
		default:
			return 0, false
		}
	}
	if axis == -1 {
		return 0, false
	}
	return DirectionFromAxis(axis, v[axis] > 0), true
}

// Axis returns 0, 1 or 2 for x, y, z.
func (d CartesianDirection) Axis() int { return int(d) / 2 }

func (d CartesianDirection) IsNegative() bool { return d%2 == 1 }

// Sign is +1 for positive directions and -1 for negative ones.
func (d CartesianDirection) Sign() int {
	if d.IsNegative() {
		return -1
	}
	return 1
}

func (d CartesianDirection) Opposite() CartesianDirection {
	if d.IsNegative() {
		return d - 1
	}
	return d + 1
}

// Abs drops the sign.
func (d CartesianDirection) Abs() CartesianDirection { return DirectionFromAxis(d.Axis(), true) }

func (d CartesianDirection) IsParallelTo(o CartesianDirection) bool { return d.Axis() == o.Axis() }

// Vector returns the unit vector of d.
func (d CartesianDirection) Vector() [3]int {
	var v [3]int
	v[d.Axis()] = d.Sign()
	return v
}

// Cross returns d × o. The second result is false when the two are parallel.
func (d CartesianDirection) Cross(o CartesianDirection) (CartesianDirection, bool) {
	if d.IsParallelTo(o) {
		return 0, false
	}
	a, b := d.Vector(), o.Vector()
	c := [3]int{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
	for axis, v := range c {
		if v != 0 {
			return DirectionFromAxis(axis, v > 0), true
		}
	}
	panic("cross product of perpendicular axes is zero")
}

func (d CartesianDirection) String() string {
	switch d {
	case PosX:
		return "+X"
	case NegX:
		return "-X"
	case PosY:
		return "+Y"
	case NegY:
		return "-Y"
	case PosZ:
		return "+Z"
	case NegZ:
		return "-Z"
	default:
		return "?"
	}
}

// DiagonalPair is two perpendicular directions walked one after the other.
type DiagonalPair [2]CartesianDirection

// Diagonals holds the 12 unordered, non-parallel direction pairs.
var Diagonals = buildDiagonals()

func buildDiagonals() []DiagonalPair {
	out := make([]DiagonalPair, 0, 12)
	for i, a := range CartesianDirections {
		for _, b := range CartesianDirections[i+1:] {
			if a.IsParallelTo(b) {
				continue
			}
			out = append(out, DiagonalPair{a, b})
		}
	}
	return out
}

// RadialDirection is a rotation sense about one world axis. Walking in a
// radial direction keeps a piece on the same ring of faces around that axis.
type RadialDirection uint8

const (
	ClockwiseX RadialDirection = iota
	CounterX
	ClockwiseY
	CounterY
	ClockwiseZ
	CounterZ
)

var RadialDirections = [6]RadialDirection{ClockwiseX, CounterX, ClockwiseY, CounterY, ClockwiseZ, CounterZ}

// RotationAxis is the signed axis of the rotation; counterclockwise uses the negative axis.
func (r RadialDirection) RotationAxis() CartesianDirection { return CartesianDirection(r) }

// ToCartesian returns the tangent direction of the rotation on the face with
// the given normal. It is undefined when the rotation axis is the normal axis.
func (r RadialDirection) ToCartesian(normal CartesianDirection) (CartesianDirection, bool) {
	return r.RotationAxis().Cross(normal)
}

func (r RadialDirection) String() string {
	switch r {
	case ClockwiseX:
		return "cw-x"
	case CounterX:
		return "ccw-x"
	case ClockwiseY:
		return "cw-y"
	case CounterY:
		return "ccw-y"
	case ClockwiseZ:
		return "cw-z"
	case CounterZ:
		return "ccw-z"
	default:
		return "?"
	}
}

// ParseRadialDirection is the inverse of RadialDirection.String.
func ParseRadialDirection(s string) (RadialDirection, bool) {
	for _, r := range RadialDirections {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}
