package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"gridmcts/game"
	"gridmcts/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// FindMoveRequest is the body of POST /findmove. Cells hold 0 (empty),
// 1 (X) or 2 (O) in row-major order; Player is the side to move.
type FindMoveRequest struct {
	Rows      int   `json:"rows"`
	Cols      int   `json:"cols"`
	WinLength int   `json:"win_length"`
	Cells     []int `json:"cells"`
	Player    int   `json:"player"`
}

type FindMoveResponse struct {
	Move     int  `json:"move"`
	NoMove   bool `json:"no_move"`
	Episodes int  `json:"episodes"`
}

func NewFindMoveRequest(b *game.Board) FindMoveRequest {
	cells := make([]int, b.Size())
	for i := range cells {
		cells[i] = int(b.Cell(i))
	}
	return FindMoveRequest{
		Rows:      b.Rows(),
		Cols:      b.Cols(),
		WinLength: b.WinLength(),
		Cells:     cells,
		Player:    int(b.Player()),
	}
}

// Board rebuilds and validates the position described by the request.
func (r FindMoveRequest) Board() (*game.Board, error) {
	cells := make([]game.Piece, len(r.Cells))
	for i, c := range r.Cells {
		if c < int(game.Empty) || c > int(game.PlayerB) {
			return nil, fmt.Errorf("%w: cell %d holds unknown piece %d", game.ErrInvalidBoard, i, c)
		}
		cells[i] = game.Piece(c)
	}
	if r.Player < int(game.PlayerA) || r.Player > int(game.PlayerB) {
		return nil, fmt.Errorf("%w: player to move must be 1 or 2, got %d", game.ErrInvalidBoard, r.Player)
	}
	return game.FromCells(r.Rows, r.Cols, r.WinLength, cells, game.Piece(r.Player))
}

// Server answers move requests with a single agent. Agents keep per-search
// state, so requests are served one at a time.
type Server struct {
	mu    sync.Mutex
	agent Agent
}

func NewServer(agent Agent) *Server {
	return &Server{agent: agent}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	r.Post("/findmove", s.handleFindMove)
	return r
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var payload FindMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	board, err := payload.Board()
	if err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	move, metric := s.agent.FindMove(board)
	s.mu.Unlock()

	log.Debug().Str("request_id", middleware.GetReqID(r.Context())).Int("move", move).Int("episodes", metric.Episodes).Msg("served move request")

	w.Header().Set("Content-Type", "application/json")
	resp := FindMoveResponse{Move: move, NoMove: move == searcher.NoMove, Episodes: metric.Episodes}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode move: "+err.Error(), http.StatusInternalServerError)
	}
}

// StartAgentServer serves agent on addr until ctx is done.
func StartAgentServer(ctx context.Context, addr string, agent Agent) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewServer(agent).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("starting agent server on %s ...", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("agent server stopped: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down agent server: %w", err)
		}
		if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info().Msg("agent server stopped")
		return nil
	}
}
