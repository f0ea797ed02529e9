package domain

import (
	"errors"
	"fmt"
	"slices"
)

// Errors returned by game operations.
var (
	ErrNoUnit          = errors.New("no unit at source cell")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrFriendlyCapture = errors.New("cannot capture a friendly unit")
	ErrIllegalMove     = errors.New("illegal move")
)

// Game holds the board, the roster and whose turn it is.
type Game struct {
	Board *Board
	Units *Units
	Turn  Team
	Moves []GameMove
}

// NewGame returns a cube of the given side length with the starting layout and White to move.
func NewGame(sideLength uint32) (*Game, error) {
	layout, err := StartingLayout(sideLength)
	if err != nil {
		return nil, err
	}
	board, err := NewBoard(sideLength)
	if err != nil {
		return nil, err
	}
	units := &Units{}
	for _, p := range layout {
		units.Add(NewUnit(p.Type, p.Team, p.Coords))
	}
	return &Game{Board: board, Units: units, Turn: White}, nil
}

// NewGameWith builds a game from an explicit placement, e.g. a puzzle position.
func NewGameWith(sideLength uint32, placements []Placement, turn Team) (*Game, error) {
	board, err := NewBoard(sideLength)
	if err != nil {
		return nil, err
	}
	units := &Units{}
	for _, p := range placements {
		if _, ok := board.Cell(p.Coords); !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoCell, p.Coords)
		}
		if units.IsOccupied(p.Coords) {
			return nil, fmt.Errorf("two units on %s", p.Coords)
		}
		units.Add(NewUnit(p.Type, p.Team, p.Coords))
	}
	return &Game{Board: board, Units: units, Turn: turn}, nil
}

// LegalMoves returns the destinations of the unit on c. It is empty for an empty cell.
func (g *Game) LegalMoves(c Coordinates) ([]Coordinates, error) {
	if _, ok := g.Board.Cell(c); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCell, c)
	}
	unit, ok := g.Units.At(c)
	if !ok {
		return nil, nil
	}
	return UnitMoves(*unit, g.Board, g.Units), nil
}

// Select highlights the destinations of the unit on c and returns them.
// Selecting an empty cell clears the highlights.
func (g *Game) Select(c Coordinates) ([]Coordinates, error) {
	moves, err := g.LegalMoves(c)
	if err != nil {
		return nil, err
	}
	g.Board.Highlight(moves)
	return moves, nil
}

// MakeMove validates and commits m for the side to move. It returns the
// captured unit, if any.
func (g *Game) MakeMove(m GameMove) (*Unit, error) {
	if _, ok := g.Board.Cell(m.To); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCell, m.To)
	}
	unit, ok := g.Units.At(m.From)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoUnit, m.From)
	}
	if unit.Team != g.Turn {
		return nil, ErrNotYourTurn
	}
	if target, ok := g.Units.At(m.To); ok && target.Team == unit.Team {
		return nil, ErrFriendlyCapture
	}
	if !slices.Contains(UnitMoves(*unit, g.Board, g.Units), m.To) {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	var captured *Unit
	if target, ok := g.Units.At(m.To); ok {
		target.Dead = true
		cp := *target
		captured = &cp
	}
	unit.Coords = m.To
	unit.Type = unit.Type.Moved()
	g.Units.RemoveDead()

	g.Board.ClearHighlights()
	g.Moves = append(g.Moves, m)
	g.Turn = g.Turn.Opposite()
	return captured, nil
}

// Clone deep-copies the game.
func (g *Game) Clone() *Game {
	return &Game{
		Board: g.Board.Clone(),
		Units: g.Units.Clone(),
		Turn:  g.Turn,
		Moves: slices.Clone(g.Moves),
	}
}
