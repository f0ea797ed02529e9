package search

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/cubechess/internal/domain"
)

func cc(x, y, z uint32, positive bool) domain.Coordinates {
	return domain.NewCoordinates(x, y, z, positive)
}

func position(t *testing.T, placements ...domain.Placement) *domain.Game {
	t.Helper()
	g, err := domain.NewGameWith(4, placements, domain.White)
	require.NoError(t, err)
	return g
}

func piece(kind domain.PieceKind, team domain.Team, c domain.Coordinates) domain.Placement {
	return domain.Placement{Type: domain.TypeOf(kind), Team: team, Coords: c}
}

func TestEvaluate(t *testing.T) {
	g, err := domain.NewGame(4)
	require.NoError(t, err)
	w := DefaultWeights()

	assert.Zero(t, Evaluate(g.Units, w))

	queen := cc(2, 0, 1, false)
	u, ok := g.Units.At(queen)
	require.True(t, ok)
	require.Equal(t, domain.Queen, u.Type.Kind)
	require.Equal(t, domain.Black, u.Team)
	g.Units.Remove(queen)

	assert.Equal(t, 9.0, Evaluate(g.Units, w))
	assert.Equal(t, 9.0, evaluateFor(g.Units, domain.White, w))
	assert.Equal(t, -9.0, evaluateFor(g.Units, domain.Black, w))
}

func TestCapturesHangingQueen(t *testing.T) {
	g := position(t,
		piece(domain.Rook, domain.White, cc(2, 0, 2, true)),
		piece(domain.King, domain.White, cc(1, 0, 1, false)),
		piece(domain.Queen, domain.Black, cc(2, 0, 4, true)),
		piece(domain.King, domain.Black, cc(4, 0, 4, false)),
	)
	for _, depth := range []int{1, 2} {
		res, err := New(Options{}).NextMove(context.Background(), g.Board, g.Units, domain.White, depth)
		require.NoError(t, err)
		assert.Equal(t, domain.GameMove{From: cc(2, 0, 2, true), To: cc(2, 0, 4, true)}, res.Move, "depth %d", depth)
		assert.Equal(t, 5.0, res.Score, "depth %d", depth)
		assert.Len(t, res.Variation, depth)
	}
}

func TestDeeperSearchRefusesDefendedPawn(t *testing.T) {
	g := position(t,
		piece(domain.Queen, domain.White, cc(1, 0, 1, true)),
		piece(domain.King, domain.White, cc(4, 0, 1, false)),
		domain.Placement{Type: domain.PawnType(domain.ClockwiseX), Team: domain.Black, Coords: cc(1, 0, 3, true)},
		piece(domain.Rook, domain.Black, cc(1, 0, 4, true)),
		piece(domain.King, domain.Black, cc(4, 0, 4, false)),
	)
	grab := domain.GameMove{From: cc(1, 0, 1, true), To: cc(1, 0, 3, true)}

	shallow, err := New(Options{}).NextMove(context.Background(), g.Board, g.Units, domain.White, 1)
	require.NoError(t, err)
	assert.Equal(t, grab, shallow.Move)
	assert.Equal(t, 4.0, shallow.Score)

	deep, err := New(Options{}).NextMove(context.Background(), g.Board, g.Units, domain.White, 2)
	require.NoError(t, err)
	assert.NotEqual(t, grab, deep.Move)
	assert.Equal(t, 3.0, deep.Score)
}

func TestPruningMatchesMinimax(t *testing.T) {
	start, err := domain.NewGame(4)
	require.NoError(t, err)
	open := position(t,
		piece(domain.Queen, domain.White, cc(2, 0, 2, true)),
		piece(domain.Knight, domain.White, cc(0, 2, 3, true)),
		piece(domain.King, domain.White, cc(4, 0, 4, true)),
		piece(domain.Rook, domain.Black, cc(3, 0, 4, true)),
		piece(domain.Bishop, domain.Black, cc(1, 3, 0, true)),
		piece(domain.Knight, domain.Black, cc(2, 0, 3, true)),
		piece(domain.King, domain.Black, cc(1, 0, 1, false)),
	)

	for name, g := range map[string]*domain.Game{"start": start, "open": open} {
		for _, team := range []domain.Team{domain.White, domain.Black} {
			for depth := 1; depth <= 3; depth++ {
				pruned, err := New(Options{}).NextMove(context.Background(), g.Board, g.Units, team, depth)
				require.NoError(t, err)
				full, err := New(Options{DisablePruning: true}).NextMove(context.Background(), g.Board, g.Units, team, depth)
				require.NoError(t, err)

				assert.Equal(t, full.Move, pruned.Move, "%s %v depth %d", name, team, depth)
				assert.Equal(t, full.Score, pruned.Score, "%s %v depth %d", name, team, depth)
				assert.LessOrEqual(t, pruned.Nodes, full.Nodes, "%s %v depth %d", name, team, depth)
			}
		}
	}
}

func TestNextMoveLeavesCallerStateAlone(t *testing.T) {
	g, err := domain.NewGame(4)
	require.NoError(t, err)
	_, err = g.Select(cc(2, 0, 4, true))
	require.NoError(t, err)
	units := slices.Clone(g.Units.All())
	highlighted := g.Board.Highlighted()

	_, err = New(Options{}).NextMove(context.Background(), g.Board, g.Units, domain.White, 2)
	require.NoError(t, err)

	assert.Equal(t, units, g.Units.All())
	assert.Equal(t, highlighted, g.Board.Highlighted())
}

func TestNextMoveErrors(t *testing.T) {
	g := position(t, piece(domain.King, domain.White, cc(1, 0, 1, true)))
	s := New(Options{})

	_, err := s.NextMove(context.Background(), g.Board, g.Units, domain.Black, 2)
	require.ErrorIs(t, err, ErrNoMoves)

	_, err = s.NextMove(context.Background(), g.Board, g.Units, domain.White, 0)
	require.ErrorIs(t, err, ErrBadDepth)
	_, err = s.NextMove(context.Background(), g.Board, g.Units, domain.White, MaxDepth+1)
	require.ErrorIs(t, err, ErrBadDepth)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.NextMove(ctx, g.Board, g.Units, domain.White, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOrderPutsHintThenCaptures(t *testing.T) {
	g := position(t,
		piece(domain.Rook, domain.White, cc(2, 0, 2, true)),
		domain.Placement{Type: domain.PawnType(domain.ClockwiseX), Team: domain.Black, Coords: cc(2, 0, 4, true)},
		piece(domain.Queen, domain.Black, cc(4, 0, 2, true)),
	)
	hint := domain.GameMove{From: cc(2, 0, 2, true), To: cc(2, 0, 1, true)}
	moves := generate(g.Board, g.Units, domain.White)
	require.Contains(t, moves, hint)

	ordered := order(moves, g.Units, domain.White, DefaultWeights(), &hint)
	require.Len(t, ordered, len(moves))
	assert.Equal(t, hint, ordered[0])
	assert.Equal(t, cc(4, 0, 2, true), ordered[1].To, "queen capture before pawn capture")
	assert.Equal(t, cc(2, 0, 4, true), ordered[2].To)
	for _, m := range ordered[3:] {
		assert.False(t, g.Units.IsOccupied(m.To), "quiet moves last, got %v", m)
	}
}

func TestSearcherKeepsVariationForNextSearch(t *testing.T) {
	g, err := domain.NewGame(4)
	require.NoError(t, err)
	s := New(Options{Weights: Weights{Pawn: 1, Knight: 3, Bishop: 3, Rook: 5, Queen: 9, King: 100}})

	res, err := s.NextMove(context.Background(), g.Board, g.Units, domain.White, 3)
	require.NoError(t, err)
	require.Len(t, res.Variation, 3)
	assert.Equal(t, res.Variation[2:], s.hints())

	s.Reset()
	assert.Empty(t, s.hints())
}
