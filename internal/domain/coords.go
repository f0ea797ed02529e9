package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Coordinates identify a cell on the cube surface. Exactly one of X, Y, Z is
// zero: that axis is the face normal, and NormalIsPositive picks which of the
// two faces on it is meant. The other two values are 1-based positions.
type Coordinates struct {
	X, Y, Z          uint32
	NormalIsPositive bool
}

var ErrBadCoordinates = errors.New("bad coordinates")

func NewCoordinates(x, y, z uint32, normalIsPositive bool) Coordinates {
	return Coordinates{X: x, Y: y, Z: z, NormalIsPositive: normalIsPositive}
}

// Axis returns the value on axis 0, 1 or 2.
func (c Coordinates) Axis(i int) uint32 {
	switch i {
	case 0:
		return c.X
	case 1:
		return c.Y
	case 2:
		return c.Z
	}
	panic("axis out of range")
}

func (c *Coordinates) setAxis(i int, v uint32) {
	switch i {
	case 0:
		c.X = v
	case 1:
		c.Y = v
	case 2:
		c.Z = v
	default:
		panic("axis out of range")
	}
}

// Valid reports whether exactly one axis is zero.
func (c Coordinates) Valid() bool {
	zeros := 0
	for i := 0; i < 3; i++ {
		if c.Axis(i) == 0 {
			zeros++
		}
	}
	return zeros == 1
}

// InRange reports whether c is a valid cell of a cube with the given side length.
func (c Coordinates) InRange(sideLength uint32) bool {
	if !c.Valid() {
		return false
	}
	for i := 0; i < 3; i++ {
		if c.Axis(i) > sideLength {
			return false
		}
	}
	return true
}

// Normal returns the outward normal of the face c lies on. It panics when
// the coordinates do not have exactly one zero axis.
func (c Coordinates) Normal() CartesianDirection {
	if !c.Valid() {
		panic(fmt.Sprintf("coordinates without a single zero axis: %#v", c))
	}
	for i := 0; i < 3; i++ {
		if c.Axis(i) == 0 {
			return DirectionFromAxis(i, c.NormalIsPositive)
		}
	}
	panic("unreachable")
}

// Compare orders coordinates lexicographically by (x, y, z, normal sign).
func (c Coordinates) Compare(o Coordinates) int {
	for i := 0; i < 3; i++ {
		a, b := c.Axis(i), o.Axis(i)
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	switch {
	case c.NormalIsPositive == o.NormalIsPositive:
		return 0
	case !c.NormalIsPositive:
		return -1
	default:
		return 1
	}
}

// Step moves one cell along direction. The result folds onto the adjacent
// face when it leaves [1, sideLength]; crossed reports that fold. ok is
// false when direction is parallel to the normal.
func (c Coordinates) Step(direction CartesianDirection, sideLength uint32) (next Coordinates, crossed bool, ok bool) {
	normal := c.Normal()
	if normal.IsParallelTo(direction) {
		return Coordinates{}, false, false
	}

	next = c
	axis := direction.Axis()
	v := int(c.Axis(axis)) + direction.Sign()
	switch {
	case v <= 0:
		next.NormalIsPositive = false
		v = 0
		crossed = true
	case v > int(sideLength):
		next.NormalIsPositive = true
		v = 0
		crossed = true
	}
	if crossed {
		edge := uint32(1)
		if c.NormalIsPositive {
			edge = sideLength
		}
		next.setAxis(normal.Axis(), edge)
	}
	next.setAxis(axis, uint32(v))
	return next, crossed, true
}

// StepRadial converts r relative to the current face and steps once.
func (c Coordinates) StepRadial(r RadialDirection, sideLength uint32) (Coordinates, bool, bool) {
	direction, ok := r.ToCartesian(c.Normal())
	if !ok {
		return Coordinates{}, false, false
	}
	return c.Step(direction, sideLength)
}

// Diagonal walks pair[0] then pair[1]. When both steps cross an edge the
// result is a corner neighbour, not a diagonal, and ok is false.
func (c Coordinates) Diagonal(pair DiagonalPair, sideLength uint32) (Coordinates, bool, bool) {
	first, crossedFirst, ok := c.Step(pair[0], sideLength)
	if !ok {
		return Coordinates{}, false, false
	}
	second, crossedSecond, ok := first.Step(pair[1], sideLength)
	if !ok {
		return Coordinates{}, false, false
	}
	if crossedFirst && crossedSecond {
		return Coordinates{}, false, false
	}
	return second, crossedFirst || crossedSecond, true
}

// Adjacent returns the four cells one step away on the surface.
func (c Coordinates) Adjacent(sideLength uint32) [4]Coordinates {
	var out [4]Coordinates
	i := 0
	for _, d := range CartesianDirections {
		next, _, ok := c.Step(d, sideLength)
		if !ok {
			continue
		}
		out[i] = next
		i++
	}
	return out
}

// Opposite reflects c through the centre of the cube.
func (c Coordinates) Opposite(sideLength uint32) Coordinates {
	out := c
	out.NormalIsPositive = !c.NormalIsPositive
	for i := 0; i < 3; i++ {
		if v := c.Axis(i); v != 0 {
			out.setAxis(i, sideLength+1-v)
		}
	}
	return out
}

// CellsWithinDistance returns every cell reachable from c in at most dist
// surface steps, c included. With onlyWalkable, blocked cells are neither
// entered nor returned.
func (c Coordinates) CellsWithinDistance(dist uint32, onlyWalkable bool, board *Board) []Coordinates {
	type entry struct {
		coords Coordinates
		dist   uint32
	}
	seen := map[Coordinates]struct{}{c: {}}
	out := []Coordinates{c}
	queue := []entry{{c, 0}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e.dist == dist {
			continue
		}
		for _, next := range e.coords.Adjacent(board.SideLength) {
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			if onlyWalkable {
				cell, ok := board.Cell(next)
				if !ok || cell.Blocked {
					continue
				}
			}
			out = append(out, next)
			queue = append(queue, entry{next, e.dist + 1})
		}
	}
	return out
}

const axisLetters = "abcdefghijklmnopqrstuvwxyz"

// MaxSideLength is the largest cube the text notation can address.
const MaxSideLength = uint32(len(axisLetters))

// String renders the face letter (upper case for a positive normal), the
// first in-face axis as a letter and the second as a number, e.g. "Yd4".
func (c Coordinates) String() string {
	if !c.Valid() || c.X > MaxSideLength || c.Y > MaxSideLength || c.Z > MaxSideLength {
		return fmt.Sprintf("(%d,%d,%d,%t)", c.X, c.Y, c.Z, c.NormalIsPositive)
	}
	face := []byte("xyz")[c.Normal().Axis()]
	if c.NormalIsPositive {
		face -= 'a' - 'A'
	}
	out := []byte{face}
	second := false
	for i := 0; i < 3; i++ {
		v := c.Axis(i)
		if v == 0 {
			continue
		}
		if second {
			out = strconv.AppendUint(out, uint64(v), 10)
		} else {
			out = append(out, axisLetters[v-1])
		}
		second = true
	}
	return string(out)
}

// ParseCoordinates reads the notation produced by String.
func ParseCoordinates(s string) (Coordinates, error) {
	if len(s) < 3 {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrBadCoordinates, s)
	}
	var c Coordinates
	var normalAxis int
	switch s[0] {
	case 'x', 'X':
		normalAxis = 0
	case 'y', 'Y':
		normalAxis = 1
	case 'z', 'Z':
		normalAxis = 2
	default:
		return Coordinates{}, fmt.Errorf("%w: face %q", ErrBadCoordinates, s[0])
	}
	c.NormalIsPositive = s[0] >= 'A' && s[0] <= 'Z'

	if s[1] < 'a' || s[1] > 'z' {
		return Coordinates{}, fmt.Errorf("%w: column %q", ErrBadCoordinates, s[1])
	}
	first := uint64(s[1]-'a') + 1
	second, err := strconv.ParseUint(s[2:], 10, 32)
	if err != nil || second == 0 || second > uint64(MaxSideLength) {
		return Coordinates{}, fmt.Errorf("%w: row in %q", ErrBadCoordinates, s)
	}

	values := []uint32{uint32(first), uint32(second)}
	for i := 0; i < 3; i++ {
		if i == normalAxis {
			continue
		}
		c.setAxis(i, values[0])
		values = values[1:]
	}
	return c, nil
}

func (c Coordinates) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %#v", ErrBadCoordinates, c)
	}
	return []byte(c.String()), nil
}

func (c *Coordinates) UnmarshalText(text []byte) error {
	parsed, err := ParseCoordinates(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
