package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jaminalder/cubechess/internal/app"
	"github.com/jaminalder/cubechess/internal/domain"
	"github.com/jaminalder/cubechess/internal/search"
)

const maxJSONBodyBytes = 1 << 16

type handlers struct {
	svc *app.Service
	log zerolog.Logger
}

type unitView struct {
	At      domain.Coordinates `json:"at"`
	Kind    domain.PieceKind   `json:"kind"`
	Team    domain.Team        `json:"team"`
	Forward string             `json:"forward,omitempty"`
	Moved   bool               `json:"moved,omitempty"`
	Entity  uint64             `json:"entity,omitempty"`
}

func viewUnit(u domain.Unit) unitView {
	v := unitView{At: u.Coords, Kind: u.Type.Kind, Team: u.Team, Entity: uint64(u.Entity)}
	if u.Type.Kind == domain.Pawn {
		v.Forward = u.Type.Forward.String()
		v.Moved = u.Type.HasMoved
	}
	return v
}

type gameView struct {
	ID         string            `json:"id"`
	SideLength uint32            `json:"sideLength"`
	Turn       domain.Team       `json:"turn"`
	White      string            `json:"white"`
	Black      string            `json:"black"`
	You        string            `json:"you"`
	Units      []unitView        `json:"units"`
	Moves      []domain.GameMove `json:"moves"`
}

// seatLabel hides player ids from other callers.
func seatLabel(gs *app.GameState, team domain.Team) string {
	switch {
	case gs.IsComputer(team):
		return "computer"
	case gs.Seat(team) == "":
		return "open"
	default:
		return "human"
	}
}

func viewGame(gs *app.GameState, playerID string) gameView {
	v := gameView{
		ID:         gs.ID,
		SideLength: gs.Game.Board.SideLength,
		Turn:       gs.Game.Turn,
		White:      seatLabel(gs, domain.White),
		Black:      seatLabel(gs, domain.Black),
		You:        "spectator",
		Moves:      append([]domain.GameMove{}, gs.Game.Moves...),
	}
	for _, team := range []domain.Team{domain.White, domain.Black} {
		if playerID != "" && gs.Seat(team) == playerID {
			v.You = team.String()
		}
	}
	for _, u := range gs.Game.Units.All() {
		if !u.Dead {
			v.Units = append(v.Units, viewUnit(u))
		}
	}
	return v
}

type createRequest struct {
	SideLength uint32       `json:"sideLength"`
	Computer   *domain.Team `json:"computer"`
	Depth      int          `json:"depth"`
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pid := ensurePlayerCookie(w, r)
	gs, err := h.svc.CreateGame(app.NewGameOptions{SideLength: req.SideLength, Computer: req.Computer, Depth: req.Depth})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// the creator takes the first free seat
	if _, _, joined, err := h.svc.Join(gs.ID, pid); err == nil {
		gs = joined
	}
	w.Header().Set("Location", "/games/"+gs.ID)
	writeJSONStatus(w, http.StatusCreated, viewGame(gs, pid))
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	pid := ensurePlayerCookie(w, r)
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, app.ErrNotFound)
		return
	}
	writeJSON(w, viewGame(gs, pid))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	pid := ensurePlayerCookie(w, r)
	_, _, gs, err := h.svc.Join(chi.URLParam(r, "id"), pid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, viewGame(gs, pid))
}

type movesView struct {
	From domain.Coordinates   `json:"from"`
	To   []domain.Coordinates `json:"to"`
}

func (h *handlers) moves(w http.ResponseWriter, r *http.Request) {
	from, err := domain.ParseCoordinates(r.URL.Query().Get("from"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	dests, err := h.svc.Moves(chi.URLParam(r, "id"), from)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, movesView{From: from, To: append([]domain.Coordinates{}, dests...)})
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	var m domain.GameMove
	if err := decodeJSON(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pid := ensurePlayerCookie(w, r)
	gs, err := h.svc.Play(chi.URLParam(r, "id"), pid, m)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, viewGame(gs, pid))
}

type aiView struct {
	Game      gameView          `json:"game"`
	Move      domain.GameMove   `json:"move"`
	Score     float64           `json:"score"`
	Variation []domain.GameMove `json:"variation"`
	Nodes     int               `json:"nodes"`
}

func (h *handlers) ai(w http.ResponseWriter, r *http.Request) {
	pid := ensurePlayerCookie(w, r)
	gs, res, err := h.svc.PlayAI(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, aiView{
		Game:      viewGame(gs, pid),
		Move:      res.Move,
		Score:     res.Score,
		Variation: res.Variation,
		Nodes:     res.Nodes,
	})
}

// statusFor maps service and rules errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNotYourTurn), errors.Is(err, app.ErrNotAPlayer):
		return http.StatusForbidden
	case errors.Is(err, app.ErrNotComputer), errors.Is(err, app.ErrBusy), errors.Is(err, search.ErrNoMoves):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadCoordinates), errors.Is(err, domain.ErrBadSideLength), errors.Is(err, search.ErrBadDepth):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrIllegalMove), errors.Is(err, domain.ErrFriendlyCapture),
		errors.Is(err, domain.ErrNoUnit), errors.Is(err, domain.ErrNoCell), errors.Is(err, domain.ErrNotYourTurn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONStatus(w, status, map[string]string{"error": msg})
}
