package domain

import "fmt"

// MinLayoutSideLength is the smallest cube the starting layout fits on.
const MinLayoutSideLength = 3

// Placement is one entry of a starting layout.
type Placement struct {
	Type   UnitType
	Team   Team
	Coords Coordinates
}

// StartingLayout places White around the cube corner where the +X, +Y and +Z
// faces meet, and mirrors every piece through the centre for Black. Pawns keep
// their radial direction when mirrored: it maps onto the reflected face.
func StartingLayout(n uint32) ([]Placement, error) {
	if n < MinLayoutSideLength || n > MaxSideLength {
		return nil, fmt.Errorf("%w: starting layout needs %d..%d, got %d", ErrBadSideLength, MinLayoutSideLength, MaxSideLength, n)
	}
	white := []Placement{
		// +Y face
		{TypeOf(King), White, NewCoordinates(n, 0, n, true)},
		{TypeOf(Queen), White, NewCoordinates(n-1, 0, n, true)},
		{TypeOf(Bishop), White, NewCoordinates(n, 0, n-1, true)},
		{TypeOf(Knight), White, NewCoordinates(n-1, 0, n-1, true)},
		// +X face
		{TypeOf(Rook), White, NewCoordinates(0, n, n, true)},
		{TypeOf(Bishop), White, NewCoordinates(0, n-1, n, true)},
		// +Z face
		{TypeOf(Rook), White, NewCoordinates(n, n, 0, true)},
		{TypeOf(Knight), White, NewCoordinates(n, n-1, 0, true)},

		{PawnType(ClockwiseZ), White, NewCoordinates(n-2, 0, n, true)},
		{PawnType(ClockwiseZ), White, NewCoordinates(n-2, 0, n-1, true)},
		{PawnType(CounterX), White, NewCoordinates(n, 0, n-2, true)},
		{PawnType(CounterX), White, NewCoordinates(n-1, 0, n-2, true)},
		{PawnType(ClockwiseY), White, NewCoordinates(0, n, n-1, true)},
		{PawnType(ClockwiseY), White, NewCoordinates(0, n-1, n-1, true)},
		{PawnType(CounterY), White, NewCoordinates(n-1, n, 0, true)},
		{PawnType(CounterY), White, NewCoordinates(n-1, n-1, 0, true)},
	}
	out := make([]Placement, 0, 2*len(white))
	out = append(out, white...)
	for _, p := range white {
		out = append(out, Placement{Type: p.Type, Team: Black, Coords: p.Coords.Opposite(n)})
	}
	return out, nil
}
