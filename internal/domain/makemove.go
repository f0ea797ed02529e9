package domain

import "slices"

// Undo is what Unmake needs to take a move back.
type Undo struct {
	Move     GameMove
	PrevType UnitType
	Captured *Unit

	capturedAt int
}

// Make applies m to the roster without checking how the unit moves. It
// reports false, changing nothing, when no unit stands on m.From or m.To
// holds a unit of the same team.
func (u *Units) Make(m GameMove) (Undo, bool) {
	mover, ok := u.At(m.From)
	if m.From == m.To || !ok {
		return Undo{}, false
	}
	if target, ok := u.At(m.To); ok && target.Team == mover.Team {
		return Undo{}, false
	}
	undo := Undo{Move: m}
	if i := u.index(m.To); i >= 0 {
		captured := u.units[i]
		undo.Captured = &captured
		undo.capturedAt = i
		u.units = slices.Delete(u.units, i, i+1)
	}
	unit, _ := u.At(m.From)
	undo.PrevType = unit.Type
	unit.Coords = m.To
	unit.Type = unit.Type.Moved()
	return undo, true
}

// Unmake reverts a move returned by Make, roster order included. It panics
// when the moved unit is gone.
func (u *Units) Unmake(undo Undo) {
	unit, ok := u.At(undo.Move.To)
	if !ok {
		panic("unmake: no unit on " + undo.Move.To.String())
	}
	unit.Coords = undo.Move.From
	unit.Type = undo.PrevType
	if undo.Captured != nil {
		u.units = slices.Insert(u.units, undo.capturedAt, *undo.Captured)
	}
}

// WithMove makes m, runs fn, and always unmakes before returning.
// It reports false without calling fn when the move could not be made.
func (u *Units) WithMove(m GameMove, fn func()) bool {
	undo, ok := u.Make(m)
	if !ok {
		return false
	}
	defer u.Unmake(undo)
	fn()
	return true
}
