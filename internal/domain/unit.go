package domain

import (
	"fmt"
	"slices"
)

// Team is one side of the game.
type Team uint8

const (
	White Team = iota
	Black
)

func (t Team) Opposite() Team {
	if t == White {
		return Black
	}
	return White
}

// Sign is +1 for White and -1 for Black.
func (t Team) Sign() float64 {
	if t == White {
		return 1
	}
	return -1
}

func (t Team) String() string {
	if t == White {
		return "white"
	}
	return "black"
}

func ParseTeam(s string) (Team, bool) {
	switch s {
	case "white", "White", "w":
		return White, true
	case "black", "Black", "b":
		return Black, true
	default:
		return White, false
	}
}

func (t Team) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Team) UnmarshalText(text []byte) error {
	parsed, ok := ParseTeam(string(text))
	if !ok {
		return fmt.Errorf("invalid team %q", text)
	}
	*t = parsed
	return nil
}

// PieceKind is the movement family of a unit.
type PieceKind uint8

const (
	Rook PieceKind = iota
	Bishop
	King
	Pawn
	Knight
	Queen
)

var PieceKinds = [6]PieceKind{Rook, Bishop, King, Pawn, Knight, Queen}

func (k PieceKind) String() string {
	switch k {
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case King:
		return "king"
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Queen:
		return "queen"
	default:
		return fmt.Sprintf("piece(%d)", k)
	}
}

func ParsePieceKind(s string) (PieceKind, bool) {
	for _, k := range PieceKinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func (k PieceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PieceKind) UnmarshalText(text []byte) error {
	parsed, ok := ParsePieceKind(string(text))
	if !ok {
		return fmt.Errorf("invalid piece %q", text)
	}
	*k = parsed
	return nil
}

// CanCaptureOverEdge reports whether the kind may land on an occupied cell of another face.
func (k PieceKind) CanCaptureOverEdge() bool { return k == Knight }

// UnitType is a piece kind plus the per-instance state pawns carry.
// Forward and HasMoved are ignored for every other kind.
type UnitType struct {
	Kind     PieceKind
	Forward  RadialDirection
	HasMoved bool
}

func TypeOf(kind PieceKind) UnitType { return UnitType{Kind: kind} }

// PawnType returns an unmoved pawn walking in forward.
func PawnType(forward RadialDirection) UnitType {
	return UnitType{Kind: Pawn, Forward: forward}
}

// Moved returns the type after the unit has made a move.
func (t UnitType) Moved() UnitType {
	if t.Kind == Pawn {
		t.HasMoved = true
	}
	return t
}

func (t UnitType) String() string {
	if t.Kind != Pawn {
		return t.Kind.String()
	}
	return fmt.Sprintf("pawn(%s,moved=%t)", t.Forward, t.HasMoved)
}

// Unit is a piece on the board.
type Unit struct {
	Type   UnitType
	Coords Coordinates
	Team   Team
	Dead   bool
	// Entity is the rendering side's handle; never interpreted here.
	Entity EntityID
}

func NewUnit(t UnitType, team Team, coords Coordinates) Unit {
	return Unit{Type: t, Team: team, Coords: coords}
}

// Units is the roster of live units. Lookups are linear; rosters are small.
type Units struct {
	units []Unit
}

func NewUnits(units ...Unit) *Units {
	return &Units{units: slices.Clone(units)}
}

func (u *Units) Add(unit Unit) { u.units = append(u.units, unit) }

func (u *Units) Len() int { return len(u.units) }

// All returns the live units in roster order. The slice must not be retained across mutations.
func (u *Units) All() []Unit { return u.units }

// OfTeam returns copies of the team's units in roster order.
func (u *Units) OfTeam(team Team) []Unit {
	var out []Unit
	for _, unit := range u.units {
		if unit.Team == team && !unit.Dead {
			out = append(out, unit)
		}
	}
	return out
}

// At returns the unit standing on c.
func (u *Units) At(c Coordinates) (*Unit, bool) {
	i := u.index(c)
	if i < 0 {
		return nil, false
	}
	return &u.units[i], true
}

func (u *Units) index(c Coordinates) int {
	for i := range u.units {
		if u.units[i].Coords == c && !u.units[i].Dead {
			return i
		}
	}
	return -1
}

// AtEntity finds a unit by its rendering handle.
func (u *Units) AtEntity(e EntityID) (*Unit, bool) {
	if e == NoEntity {
		return nil, false
	}
	for i := range u.units {
		if u.units[i].Entity == e {
			return &u.units[i], true
		}
	}
	return nil, false
}

func (u *Units) IsOccupied(c Coordinates) bool {
	_, ok := u.At(c)
	return ok
}

// Remove takes the unit on c out of the roster and returns it.
func (u *Units) Remove(c Coordinates) (Unit, bool) {
	unit, ok := u.At(c)
	if !ok {
		return Unit{}, false
	}
	unit.Dead = true
	removed := *unit
	u.RemoveDead()
	removed.Dead = false
	return removed, true
}

// RemoveDead compacts the roster, dropping every unit flagged Dead.
func (u *Units) RemoveDead() {
	u.units = slices.DeleteFunc(u.units, func(unit Unit) bool { return unit.Dead })
}

func (u *Units) Clone() *Units { return &Units{units: slices.Clone(u.units)} }

// UnitState is the comparable part of a unit.
type UnitState struct {
	Coords Coordinates
	Type   UnitType
	Team   Team
	Dead   bool
}

// Snapshot returns the roster as a sorted list of states, independent of roster order.
func (u *Units) Snapshot() []UnitState {
	out := make([]UnitState, 0, len(u.units))
	for _, unit := range u.units {
		out = append(out, UnitState{Coords: unit.Coords, Type: unit.Type, Team: unit.Team, Dead: unit.Dead})
	}
	slices.SortFunc(out, func(a, b UnitState) int {
		if c := a.Coords.Compare(b.Coords); c != 0 {
			return c
		}
		return int(a.Team) - int(b.Team)
	})
	return out
}
