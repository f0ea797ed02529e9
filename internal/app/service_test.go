package app

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/jaminalder/cubechess/internal/domain"
	"github.com/jaminalder/cubechess/internal/search"
)

func cc(x, y, z uint32, positive bool) domain.Coordinates {
	return domain.NewCoordinates(x, y, z, positive)
}

// pawnPush is a legal first move for White on a side-4 cube.
var pawnPush = domain.GameMove{From: cc(2, 0, 4, true), To: cc(1, 0, 4, true)}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(Config{SideLength: 4, Depth: 1})
}

func teamPtr(t domain.Team) *domain.Team { return &t }

func TestCreateAndGet(t *testing.T) {
	s := newTestService(t)
	gs, err := s.CreateGame(NewGameOptions{})
	if err != nil {
		t.Fatalf("CreateGame error: %v", err)
	}
	if !ValidID(gs.ID) {
		t.Fatalf("expected a uuid game ID, got %q", gs.ID)
	}
	if gs.Game.Turn != domain.White || gs.Game.Board.SideLength != 4 || gs.Game.Units.Len() != 32 {
		t.Fatalf("unexpected initial game: turn=%v side=%d units=%d", gs.Game.Turn, gs.Game.Board.SideLength, gs.Game.Units.Len())
	}
	if gs.Created.IsZero() || gs.Updated.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}

	gs.Game.Units.Remove(cc(4, 0, 4, true))
	got, ok := s.Get(gs.ID)
	if !ok || got.ID != gs.ID {
		t.Fatalf("Get should find created game")
	}
	if got.Game.Units.Len() != 32 {
		t.Fatalf("mutating a copy must not reach the stored game")
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatalf("Get should miss an unknown id")
	}
}

func TestCreateGameRejectsBadSide(t *testing.T) {
	s := newTestService(t)
	if _, err := s.CreateGame(NewGameOptions{SideLength: 2}); !errors.Is(err, domain.ErrBadSideLength) {
		t.Fatalf("expected ErrBadSideLength, got %v", err)
	}
}

func TestCreateGameRejectsDepthOutOfRange(t *testing.T) {
	s := newTestService(t)
	for _, depth := range []int{-1, search.MaxDepth + 1} {
		if _, err := s.CreateGame(NewGameOptions{Depth: depth}); !errors.Is(err, search.ErrBadDepth) {
			t.Fatalf("depth %d: expected ErrBadDepth, got %v", depth, err)
		}
	}
}

func TestJoinSeatsAndRejoin(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame(NewGameOptions{})
	p1, p2, p3 := "p1", "p2", "p3"

	side, seated, _, err := s.Join(gs.ID, p1)
	if err != nil || !seated || side != domain.White {
		t.Fatalf("p1 should claim White, got %v seated=%t err=%v", side, seated, err)
	}
	side, seated, _, err = s.Join(gs.ID, p2)
	if err != nil || !seated || side != domain.Black {
		t.Fatalf("p2 should claim Black, got %v seated=%t err=%v", side, seated, err)
	}
	side, seated, _, err = s.Join(gs.ID, p1)
	if err != nil || !seated || side != domain.White {
		t.Fatalf("p1 rejoin should keep White, got %v seated=%t err=%v", side, seated, err)
	}
	_, seated, st, err := s.Join(gs.ID, p3)
	if err != nil || seated {
		t.Fatalf("p3 should spectate, got seated=%t err=%v", seated, err)
	}
	if st.Seat(domain.White) != p1 || st.Seat(domain.Black) != p2 {
		t.Fatalf("unexpected seats: %q / %q", st.White, st.Black)
	}
	if _, _, _, err := s.Join("missing", p1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJoinSkipsComputerSeat(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame(NewGameOptions{Computer: teamPtr(domain.White)})

	side, seated, _, _ := s.Join(gs.ID, "p1")
	if !seated || side != domain.Black {
		t.Fatalf("p1 should get Black next to the computer, got %v seated=%t", side, seated)
	}
	if _, seated, _, _ := s.Join(gs.ID, "p2"); seated {
		t.Fatalf("no seat should be left for p2")
	}
}

func TestPlayEnforcesTurnAndSpectatorBlocked(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame(NewGameOptions{})
	p1, p2, p3 := "p1", "p2", "p3"
	s.Join(gs.ID, p1) // White
	s.Join(gs.ID, p2) // Black
	s.Join(gs.ID, p3) // spectator

	if _, err := s.Play(gs.ID, p2, pawnPush); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if _, err := s.Play(gs.ID, p3, pawnPush); !errors.Is(err, ErrNotAPlayer) {
		t.Fatalf("expected ErrNotAPlayer, got %v", err)
	}
	if _, err := s.Play(gs.ID, "", pawnPush); !errors.Is(err, ErrNotAPlayer) {
		t.Fatalf("expected ErrNotAPlayer for an empty id, got %v", err)
	}
	st, err := s.Play(gs.ID, p1, pawnPush)
	if err != nil {
		t.Fatalf("White play failed: %v", err)
	}
	if st.Game.Turn != domain.Black || len(st.Game.Moves) != 1 || !st.Game.Units.IsOccupied(pawnPush.To) {
		t.Fatalf("unexpected state after White move: turn=%v moves=%v", st.Game.Turn, st.Game.Moves)
	}
	if _, err := s.Play(gs.ID, p1, domain.GameMove{From: pawnPush.To, To: cc(1, 0, 3, true)}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn for White again, got %v", err)
	}
}

func TestPlayRejectsIllegalMove(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame(NewGameOptions{})
	s.Join(gs.ID, "p1")

	bad := domain.GameMove{From: cc(2, 0, 4, true), To: cc(2, 0, 1, true)}
	if _, err := s.Play(gs.ID, "p1", bad); !errors.Is(err, domain.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if got, _ := s.Get(gs.ID); len(got.Game.Moves) != 0 {
		t.Fatalf("illegal move must not be recorded")
	}
}

func TestMoves(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame(NewGameOptions{})
	moves, err := s.Moves(gs.ID, pawnPush.From)
	if err != nil {
		t.Fatalf("Moves: %v", err)
	}
	if !slices.Contains(moves, pawnPush.To) {
		t.Fatalf("expected %v among %v", pawnPush.To, moves)
	}
	if _, err := s.Moves("missing", pawnPush.From); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayAI(t *testing.T) {
	s := newTestService(t)
	human, _ := s.CreateGame(NewGameOptions{})
	if _, _, err := s.PlayAI(context.Background(), human.ID); !errors.Is(err, ErrNotComputer) {
		t.Fatalf("expected ErrNotComputer, got %v", err)
	}

	gs, _ := s.CreateGame(NewGameOptions{Computer: teamPtr(domain.Black), Depth: 2})
	s.Join(gs.ID, "p1")
	if _, _, err := s.PlayAI(context.Background(), gs.ID); !errors.Is(err, ErrNotComputer) {
		t.Fatalf("computer plays Black, not White: %v", err)
	}
	if _, err := s.Play(gs.ID, "p1", pawnPush); err != nil {
		t.Fatalf("Play: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	events, unsub, err := s.Subscribe(ctx, gs.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsub()

	st, res, err := s.PlayAI(context.Background(), gs.ID)
	if err != nil {
		t.Fatalf("PlayAI: %v", err)
	}
	if st.Game.Turn != domain.White || len(st.Game.Moves) != 2 || st.Game.Moves[1] != res.Move {
		t.Fatalf("computer move not committed: turn=%v moves=%v", st.Game.Turn, st.Game.Moves)
	}
	if mover, ok := st.Game.Units.At(res.Move.To); !ok || mover.Team != domain.Black {
		t.Fatalf("expected a black unit on %v", res.Move.To)
	}

	select {
	case ev := <-events:
		if !ev.ByComputer || ev.Team != domain.Black || ev.Move != res.Move || ev.Turn != domain.White {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for the computer move event")
	}
}

func TestSubscribeAndBroadcast(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame(NewGameOptions{})
	s.Join(gs.ID, "p1")
	s.Join(gs.ID, "p2")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ch, unsub, err := s.Subscribe(ctx, gs.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsub()

	if _, err := s.Play(gs.ID, "p1", pawnPush); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed unexpectedly")
		}
		if ev.GameID != gs.ID || ev.Team != domain.White || ev.Move != pawnPush || ev.Turn != domain.Black || ev.Captured != nil {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for broadcast")
	}

	if _, _, err := s.Subscribe(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDropSlowSubscriber(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame(NewGameOptions{})

	slow, _, err := s.Subscribe(context.Background(), gs.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	s.mu.Lock()
	for i := 0; i <= subscriberBuffer; i++ {
		s.broadcastLocked(gs.ID, Event{GameID: gs.ID})
	}
	remaining := len(s.subs[gs.ID])
	s.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("slow subscriber should be dropped, %d left", remaining)
	}

	got := 0
	for range slow {
		got++
	}
	if got != subscriberBuffer {
		t.Fatalf("expected %d buffered events before close, got %d", subscriberBuffer, got)
	}
}

func TestUnsubscribeReleasesWatcher(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame(NewGameOptions{})

	ch, unsub, err := s.Subscribe(context.Background(), gs.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	s.mu.Lock()
	var sub *subscriber
	for sub = range s.subs[gs.ID] {
		break
	}
	s.mu.Unlock()

	unsub()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
	select {
	case <-sub.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher not released after unsubscribe")
	}
	unsub()
}

func TestUnsubscribeOnContextCancel(t *testing.T) {
	s := newTestService(t)
	gs, _ := s.CreateGame(NewGameOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := s.Subscribe(ctx, gs.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected channel to be closed")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}
