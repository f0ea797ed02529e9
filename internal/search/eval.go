package search

import "github.com/jaminalder/cubechess/internal/domain"

// Weights is the material value of each piece kind.
type Weights struct {
	Pawn   float64 `mapstructure:"pawn"`
	Knight float64 `mapstructure:"knight"`
	Bishop float64 `mapstructure:"bishop"`
	Rook   float64 `mapstructure:"rook"`
	Queen  float64 `mapstructure:"queen"`
	King   float64 `mapstructure:"king"`
}

// DefaultWeights are the classic values, with the king outweighing every
// other piece combined.
func DefaultWeights() Weights {
	return Weights{Pawn: 1, Knight: 3, Bishop: 3, Rook: 5, Queen: 9, King: 1000}
}

func (w Weights) IsZero() bool { return w == Weights{} }

// Of returns the value of kind.
func (w Weights) Of(kind domain.PieceKind) float64 {
	switch kind {
	case domain.Pawn:
		return w.Pawn
	case domain.Knight:
		return w.Knight
	case domain.Bishop:
		return w.Bishop
	case domain.Rook:
		return w.Rook
	case domain.Queen:
		return w.Queen
	case domain.King:
		return w.King
	default:
		return 0
	}
}

// Evaluate returns white material minus black material.
func Evaluate(units *domain.Units, w Weights) float64 {
	var score float64
	for _, u := range units.All() {
		if u.Dead {
			continue
		}
		score += u.Team.Sign() * w.Of(u.Type.Kind)
	}
	return score
}

// evaluateFor scores the position from team's point of view.
func evaluateFor(units *domain.Units, team domain.Team, w Weights) float64 {
	return Evaluate(units, w) * team.Sign()
}
