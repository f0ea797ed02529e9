// Package search picks moves for a computer-controlled side with a
// depth-limited negamax search and alpha-beta pruning.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/jaminalder/cubechess/internal/domain"
)

var (
	ErrNoMoves  = errors.New("no moves to play")
	ErrBadDepth = errors.New("search depth out of range")
)

// MaxDepth bounds a single search; the tree grows roughly 30-fold per ply.
const MaxDepth = 6

// Options configure a Searcher. The zero value searches with DefaultWeights.
type Options struct {
	Weights Weights
	// DisablePruning visits every node; used to check pruning against plain minimax.
	DisablePruning bool
	Logger         *zerolog.Logger
}

// Result is the outcome of one search.
type Result struct {
	Move domain.GameMove
	// Score is from the point of view of the side that moves.
	Score     float64
	Variation []domain.GameMove
	Nodes     int
	Cutoffs   int
}

// Searcher keeps the principal variation of its last search and uses it to
// order moves in the next one. A Searcher is not safe for concurrent use.
type Searcher struct {
	weights Weights
	prune   bool
	log     zerolog.Logger

	lastVariation []domain.GameMove
}

func New(opts Options) *Searcher {
	s := &Searcher{weights: opts.Weights, prune: !opts.DisablePruning, log: zerolog.Nop()}
	if s.weights.IsZero() {
		s.weights = DefaultWeights()
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "search").Logger()
	}
	return s
}

// NextMove searches depth plies for team and returns the best move found.
// board and units are cloned; the caller's state is never touched. ctx is
// checked between sibling moves.
func (s *Searcher) NextMove(ctx context.Context, board *domain.Board, units *domain.Units, team domain.Team, depth int) (Result, error) {
	if depth < 1 || depth > MaxDepth {
		return Result{}, fmt.Errorf("%w: %d not in 1..%d", ErrBadDepth, depth, MaxDepth)
	}
	st := &state{
		ctx:     ctx,
		board:   board.Clone(),
		units:   units.Clone(),
		weights: s.weights,
		prune:   s.prune,
		hints:   s.hints(),
	}

	start := time.Now()
	score, line, err := st.negamax(team, depth, 0, math.Inf(-1), math.Inf(1))
	if err != nil {
		return Result{}, err
	}
	if len(line) == 0 {
		return Result{}, ErrNoMoves
	}
	s.lastVariation = line

	res := Result{Move: line[0], Score: score, Variation: line, Nodes: st.nodes, Cutoffs: st.cutoffs}
	s.log.Debug().
		Stringer("team", team).
		Int("depth", depth).
		Stringer("move", res.Move).
		Float64("score", score).
		Int("nodes", st.nodes).
		Int("cutoffs", st.cutoffs).
		Dur("took", time.Since(start)).
		Msg("search finished")
	return res, nil
}

// hints shifts the last variation by the two plies that have been played since.
func (s *Searcher) hints() []domain.GameMove {
	if len(s.lastVariation) <= 2 {
		return nil
	}
	return slices.Clone(s.lastVariation[2:])
}

// Reset forgets the cached variation, e.g. when a new game starts.
func (s *Searcher) Reset() { s.lastVariation = nil }

type state struct {
	ctx     context.Context
	board   *domain.Board
	units   *domain.Units
	weights Weights
	prune   bool
	hints   []domain.GameMove

	nodes   int
	cutoffs int
}

func (st *state) hint(ply int) *domain.GameMove {
	if ply < len(st.hints) {
		return &st.hints[ply]
	}
	return nil
}

// negamax returns the score of the position for team together with the best
// line found. Once alpha >= beta the remaining siblings are skipped and the
// best score seen so far is returned, which may lie outside the window.
func (st *state) negamax(team domain.Team, depth, ply int, alpha, beta float64) (float64, []domain.GameMove, error) {
	st.nodes++
	if depth == 0 {
		return evaluateFor(st.units, team, st.weights), nil, nil
	}

	moves := order(generate(st.board, st.units, team), st.units, team, st.weights, st.hint(ply))
	best := math.Inf(-1)
	var line []domain.GameMove
	for _, m := range moves {
		if err := st.ctx.Err(); err != nil {
			return 0, nil, err
		}

		var (
			score float64
			child []domain.GameMove
			err   error
		)
		made := st.units.WithMove(m, func() {
			score, child, err = st.negamax(team.Opposite(), depth-1, ply+1, -beta, -alpha)
		})
		if !made {
			continue
		}
		if err != nil {
			return 0, nil, err
		}
		score = -score

		if score > best || line == nil {
			best = score
			line = append([]domain.GameMove{m}, child...)
		}
		alpha = max(alpha, best)
		if alpha >= beta {
			st.cutoffs++
			if st.prune {
				break
			}
		}
	}
	if line == nil {
		return evaluateFor(st.units, team, st.weights), nil, nil
	}
	return best, line, nil
}
