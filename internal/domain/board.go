package domain

import (
	"errors"
	"fmt"
	"slices"
)

// EntityID is an opaque handle owned by the rendering side. The zero value means none.
type EntityID uint64

const NoEntity EntityID = 0

// CellColor classifies a cell for display.
type CellColor uint8

const (
	Bright CellColor = iota
	Mid
	Dark
)

func (c CellColor) String() string {
	switch c {
	case Bright:
		return "bright"
	case Mid:
		return "mid"
	case Dark:
		return "dark"
	default:
		return "?"
	}
}

// Cell is the per-cell state kept by the board.
type Cell struct {
	Plane     EntityID
	Coords    Coordinates
	Color     CellColor
	CanMoveTo bool
	Blocked   bool
}

var (
	ErrBadSideLength = errors.New("bad side length")
	ErrNoCell        = errors.New("no cell at coordinates")
)

// Board maps every surface cell of the cube to its Cell.
type Board struct {
	cells      map[Coordinates]*Cell
	SideLength uint32
}

// NewBoard builds a board with all 6·n² cells.
func NewBoard(sideLength uint32) (*Board, error) {
	if sideLength == 0 || sideLength > MaxSideLength {
		return nil, fmt.Errorf("%w: %d", ErrBadSideLength, sideLength)
	}
	b := &Board{
		cells:      make(map[Coordinates]*Cell, 6*sideLength*sideLength),
		SideLength: sideLength,
	}
	for normal := 0; normal < 3; normal++ {
		for _, positive := range []bool{true, false} {
			for u := uint32(1); u <= sideLength; u++ {
				for v := uint32(1); v <= sideLength; v++ {
					var c Coordinates
					c.NormalIsPositive = positive
					vals := []uint32{u, v}
					for axis := 0; axis < 3; axis++ {
						if axis == normal {
							continue
						}
						c.setAxis(axis, vals[0])
						vals = vals[1:]
					}
					b.cells[c] = &Cell{Coords: c, Color: CellColor((u + v) % 3)}
				}
			}
		}
	}
	return b, nil
}

// Cell returns a copy of the cell at c.
func (b *Board) Cell(c Coordinates) (Cell, bool) {
	cell, ok := b.cells[c]
	if !ok {
		return Cell{}, false
	}
	return *cell, true
}

// CellRef returns the stored cell for in-place updates.
func (b *Board) CellRef(c Coordinates) (*Cell, bool) {
	cell, ok := b.cells[c]
	return cell, ok
}

// Len is the number of cells.
func (b *Board) Len() int { return len(b.cells) }

// Cells returns copies of all cells ordered by Coordinates.Compare.
func (b *Board) Cells() []Cell {
	out := make([]Cell, 0, len(b.cells))
	for _, cell := range b.cells {
		out = append(out, *cell)
	}
	slices.SortFunc(out, func(a, b Cell) int { return a.Coords.Compare(b.Coords) })
	return out
}

// SetPlane records the visual handle of a cell.
func (b *Board) SetPlane(c Coordinates, plane EntityID) error {
	cell, ok := b.cells[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoCell, c)
	}
	cell.Plane = plane
	return nil
}

// SetBlocked marks terrain that range-limited walks may not enter.
func (b *Board) SetBlocked(c Coordinates, blocked bool) error {
	cell, ok := b.cells[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoCell, c)
	}
	cell.Blocked = blocked
	return nil
}

// Highlight sets CanMoveTo on exactly the given cells.
func (b *Board) Highlight(dests []Coordinates) {
	b.ClearHighlights()
	for _, c := range dests {
		if cell, ok := b.cells[c]; ok {
			cell.CanMoveTo = true
		}
	}
}

func (b *Board) ClearHighlights() {
	for _, cell := range b.cells {
		cell.CanMoveTo = false
	}
}

// Highlighted returns the coordinates currently flagged CanMoveTo, ordered.
func (b *Board) Highlighted() []Coordinates {
	var out []Coordinates
	for c, cell := range b.cells {
		if cell.CanMoveTo {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, Coordinates.Compare)
	return out
}

// Clone deep-copies the board.
func (b *Board) Clone() *Board {
	out := &Board{cells: make(map[Coordinates]*Cell, len(b.cells)), SideLength: b.SideLength}
	for c, cell := range b.cells {
		cp := *cell
		out.cells[c] = &cp
	}
	return out
}
