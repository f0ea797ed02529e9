package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jaminalder/cubechess/internal/domain"
	"github.com/jaminalder/cubechess/internal/search"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
	ErrNotComputer = errors.New("the side to move is not played by the computer")
	ErrBusy        = errors.New("game changed while the computer was thinking")
)

// GameState is the in-memory state tracked per game. Copies handed out by
// the service own their Game.
type GameState struct {
	ID    string
	Game  *domain.Game
	White string
	Black string
	// Computer is the team the computer plays, if any.
	Computer *domain.Team
	Depth    int
	Created  time.Time
	Updated  time.Time
}

// Seat returns the player id on team.
func (gs *GameState) Seat(team domain.Team) string {
	if team == domain.White {
		return gs.White
	}
	return gs.Black
}

// IsComputer reports whether the computer plays team.
func (gs *GameState) IsComputer(team domain.Team) bool {
	return gs.Computer != nil && *gs.Computer == team
}

func (gs *GameState) clone() *GameState {
	cp := *gs
	cp.Game = gs.Game.Clone()
	if gs.Computer != nil {
		team := *gs.Computer
		cp.Computer = &team
	}
	return &cp
}

// Event is broadcast to subscribers after every committed move.
type Event struct {
	GameID     string
	Team       domain.Team
	Move       domain.GameMove
	Captured   *domain.Unit
	Turn       domain.Team
	ByComputer bool
}

type subscriber struct {
	ch        chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// close ends the event channel and releases the goroutine watching ctx.
func (s *subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.ch)
		close(s.done)
	})
}

type entry struct {
	state    *GameState
	searcher *search.Searcher
	// thinking serialises computer turns of one game.
	thinking sync.Mutex
}

// Config holds the defaults applied to new games.
type Config struct {
	SideLength uint32
	Depth      int
	Timeout    time.Duration
	Weights    search.Weights
	Logger     *zerolog.Logger
}

// Service manages games and subscribers.
type Service struct {
	mu    sync.Mutex
	games map[string]*entry
	subs  map[string]map[*subscriber]struct{}
	cfg   Config
	log   zerolog.Logger
}

// NewService creates a service; zero config fields fall back to side 8, depth 3.
func NewService(cfg Config) *Service {
	if cfg.SideLength == 0 {
		cfg.SideLength = 8
	}
	if cfg.Depth < 1 || cfg.Depth > search.MaxDepth {
		cfg.Depth = 3
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "app").Logger()
	}
	return &Service{
		games: make(map[string]*entry),
		subs:  make(map[string]map[*subscriber]struct{}),
		cfg:   cfg,
		log:   log,
	}
}

// NewGameOptions override the service defaults for one game.
type NewGameOptions struct {
	SideLength uint32
	Computer   *domain.Team
	Depth      int
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame(opts NewGameOptions) (*GameState, error) {
	side := opts.SideLength
	if side == 0 {
		side = s.cfg.SideLength
	}
	depth := opts.Depth
	if depth == 0 {
		depth = s.cfg.Depth
	}
	if depth < 1 || depth > search.MaxDepth {
		return nil, fmt.Errorf("%w: %d not in 1..%d", search.ErrBadDepth, depth, search.MaxDepth)
	}
	game, err := domain.NewGame(side)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	gs := &GameState{
		ID:      uuid.NewString(),
		Game:    game,
		Depth:   depth,
		Created: now,
		Updated: now,
	}
	if opts.Computer != nil {
		team := *opts.Computer
		gs.Computer = &team
	}
	base := zerolog.Nop()
	if s.cfg.Logger != nil {
		base = *s.cfg.Logger
	}
	searchLog := base.With().Str("game", gs.ID).Logger()
	e := &entry{
		state:    gs,
		searcher: search.New(search.Options{Weights: s.cfg.Weights, Logger: &searchLog}),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[gs.ID] = e
	s.log.Info().Str("game", gs.ID).Uint32("side", side).Msg("game created")
	return gs.clone(), nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.games[id]
	if !ok {
		return nil, false
	}
	return e.state.clone(), true
}

// Join assigns a free seat to the player. seated is false for spectators.
func (s *Service) Join(id, playerID string) (team domain.Team, seated bool, gs *GameState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.games[id]
	if !ok {
		return domain.White, false, nil, ErrNotFound
	}
	st := e.state
	for _, t := range []domain.Team{domain.White, domain.Black} {
		if st.IsComputer(t) {
			continue
		}
		seat := &st.White
		if t == domain.Black {
			seat = &st.Black
		}
		if *seat == playerID || *seat == "" {
			*seat = playerID
			team, seated = t, true
			break
		}
	}
	st.Updated = time.Now()
	return team, seated, st.clone(), nil
}

// Moves returns the legal destinations of the unit on from.
func (s *Service) Moves(id string, from domain.Coordinates) ([]domain.Coordinates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.state.Game.LegalMoves(from)
}

// Play validates seat and turn, applies a move, updates timestamps, and broadcasts.
func (s *Service) Play(id, playerID string, m domain.GameMove) (*GameState, error) {
	s.mu.Lock()
	e, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	st := e.state
	var seat domain.Team
	switch playerID {
	case "":
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	case st.White:
		seat = domain.White
	case st.Black:
		seat = domain.Black
	default:
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if seat != st.Game.Turn {
		s.mu.Unlock()
		return nil, ErrNotYourTurn
	}
	ev, err := s.commitLocked(e, m, false)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.broadcastLocked(id, ev)
	cp := st.clone()
	s.mu.Unlock()
	return cp, nil
}

// PlayAI lets the computer choose and commit the move for the side to move.
// The search runs without holding the service lock; if a move is committed
// in the meantime, ErrBusy is returned and nothing is played.
func (s *Service) PlayAI(ctx context.Context, id string) (*GameState, search.Result, error) {
	s.mu.Lock()
	e, ok := s.games[id]
	s.mu.Unlock()
	if !ok {
		return nil, search.Result{}, ErrNotFound
	}

	e.thinking.Lock()
	defer e.thinking.Unlock()

	s.mu.Lock()
	st := e.state
	if !st.IsComputer(st.Game.Turn) {
		s.mu.Unlock()
		return nil, search.Result{}, ErrNotComputer
	}
	board, units := st.Game.Board.Clone(), st.Game.Units.Clone()
	team, depth, ply := st.Game.Turn, st.Depth, len(st.Game.Moves)
	s.mu.Unlock()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	res, err := e.searcher.NextMove(ctx, board, units, team, depth)
	if err != nil {
		return nil, search.Result{}, fmt.Errorf("computer move: %w", err)
	}

	s.mu.Lock()
	if len(st.Game.Moves) != ply {
		s.mu.Unlock()
		return nil, search.Result{}, ErrBusy
	}
	ev, err := s.commitLocked(e, res.Move, true)
	if err != nil {
		s.mu.Unlock()
		return nil, search.Result{}, err
	}
	s.broadcastLocked(id, ev)
	cp := st.clone()
	s.mu.Unlock()
	return cp, res, nil
}

func (s *Service) commitLocked(e *entry, m domain.GameMove, byComputer bool) (Event, error) {
	st := e.state
	team := st.Game.Turn
	captured, err := st.Game.MakeMove(m)
	if err != nil {
		return Event{}, err
	}
	st.Updated = time.Now()

	ev := Event{GameID: st.ID, Team: team, Move: m, Captured: captured, Turn: st.Game.Turn, ByComputer: byComputer}
	logEvent := s.log.Debug().
		Str("game", st.ID).
		Stringer("team", team).
		Stringer("move", m).
		Bool("computer", byComputer)
	if captured != nil {
		logEvent = logEvent.Stringer("captured", captured.Type).Uint64("entity", uint64(captured.Entity))
	}
	logEvent.Msg("move played")
	return ev, nil
}

// broadcastLocked fans out ev without blocking; subscribers whose buffer is
// full are closed and dropped.
func (s *Service) broadcastLocked(id string, ev Event) {
	dropped := 0
	for sub := range s.subs[id] {
		select {
		case sub.ch <- ev:
		default:
			delete(s.subs[id], sub)
			sub.close()
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Warn().Str("game", id).Int("dropped", dropped).Msg("dropped slow subscribers")
	}
}

// subscriberBuffer is how many events a subscriber may lag behind before it is dropped.
const subscriberBuffer = 8

// Subscribe registers a subscriber for a game. The channel is closed when
// ctx ends, unsub is called, or the subscriber falls too far behind.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan Event, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan Event, subscriberBuffer), done: make(chan struct{})}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			sub.close()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			unsub()
		case <-sub.done:
		}
	}()
	return sub.ch, unsub, nil
}
