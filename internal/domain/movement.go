package domain

import "math"

// GameMove moves the unit on From to To.
type GameMove struct {
	From Coordinates `json:"from"`
	To   Coordinates `json:"to"`
}

func (m GameMove) String() string { return m.From.String() + "-" + m.To.String() }

const unlimited = math.MaxUint32

// UnitMoves returns every pseudo-legal destination of unit, without duplicates,
// in the order the movement parts discover them.
func UnitMoves(unit Unit, board *Board, units *Units) []Coordinates {
	var moves []Coordinates
	n := board.SideLength
	switch unit.Type.Kind {
	case King:
		moves = straight(unit.Coords, 1, 0, n, units)
		moves = append(moves, diagonals(unit.Coords, 1, 0, n, units)...)
	case Rook:
		moves = straight(unit.Coords, unlimited, 1, n, units)
	case Bishop:
		moves = diagonals(unit.Coords, unlimited, 1, n, units)
	case Queen:
		moves = straight(unit.Coords, unlimited, 1, n, units)
		moves = append(moves, diagonals(unit.Coords, unlimited, 1, n, units)...)
	case Knight:
		moves = knightLeaps(unit.Coords, 1, n)
	case Pawn:
		moves = pawnMoves(unit, n, units)
	}
	return filterDestinations(unit, moves, units)
}

// filterDestinations drops friendly-occupied cells and, for kinds that cannot
// capture over an edge, occupied cells on another face.
func filterDestinations(unit Unit, moves []Coordinates, units *Units) []Coordinates {
	seen := make(map[Coordinates]struct{}, len(moves))
	out := moves[:0]
	normal := unit.Coords.Normal()
	for _, to := range moves {
		if _, dup := seen[to]; dup {
			continue
		}
		seen[to] = struct{}{}

		other, occupied := units.At(to)
		switch {
		case !occupied:
		case other.Team == unit.Team:
			continue
		case to.Normal() != normal && !unit.Type.Kind.CanCaptureOverEdge():
			continue
		}
		out = append(out, to)
	}
	return out
}

func pawnMoves(unit Unit, sideLength uint32, units *Units) []Coordinates {
	normal := unit.Coords.Normal()
	forward, ok := unit.Type.Forward.ToCartesian(normal)
	if !ok {
		logger.Error().
			Stringer("coords", unit.Coords).
			Stringer("direction", unit.Type.Forward).
			Msg("pawn direction cannot be walked on this face")
		return nil
	}

	dist := uint32(2)
	if unit.Type.HasMoved {
		dist = 1
	}
	out := walkRadial(unit.Coords, unit.Type.Forward, dist, 2, sideLength, units, false)

	side, _ := forward.Cross(normal)
	for _, s := range []CartesianDirection{side, side.Opposite()} {
		to, _, ok := unit.Coords.Diagonal(DiagonalPair{forward, s}, sideLength)
		if !ok {
			continue
		}
		if other, occupied := units.At(to); occupied && other.Team != unit.Team {
			out = append(out, to)
		}
	}
	return out
}
