package search

import (
	"cmp"
	"slices"

	"github.com/jaminalder/cubechess/internal/domain"
)

const (
	tierQuiet = iota
	tierCapture
	tierHint
)

type rankedMove struct {
	move domain.GameMove
	tier int
	eval float64
}

// generate lists every pseudo-legal move of team in roster order.
func generate(board *domain.Board, units *domain.Units, team domain.Team) []domain.GameMove {
	var out []domain.GameMove
	for _, unit := range units.OfTeam(team) {
		for _, to := range domain.UnitMoves(unit, board, units) {
			out = append(out, domain.GameMove{From: unit.Coords, To: to})
		}
	}
	return out
}

// order puts the hint first, then captures, then quiet moves. Inside a tier
// moves are sorted by the static score after the move, best first; ties keep
// generation order. Moves that cannot be made are dropped.
func order(moves []domain.GameMove, units *domain.Units, team domain.Team, w Weights, hint *domain.GameMove) []domain.GameMove {
	ranked := make([]rankedMove, 0, len(moves))
	for _, m := range moves {
		r := rankedMove{move: m, tier: tierQuiet}
		switch {
		case hint != nil && m == *hint:
			r.tier = tierHint
		case units.IsOccupied(m.To):
			r.tier = tierCapture
		}
		if !units.WithMove(m, func() { r.eval = evaluateFor(units, team, w) }) {
			continue
		}
		ranked = append(ranked, r)
	}
	slices.SortStableFunc(ranked, func(a, b rankedMove) int {
		if c := cmp.Compare(b.tier, a.tier); c != 0 {
			return c
		}
		return cmp.Compare(b.eval, a.eval)
	})

	out := make([]domain.GameMove, len(ranked))
	for i, r := range ranked {
		out[i] = r.move
	}
	return out
}
