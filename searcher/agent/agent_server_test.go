package agent

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gridmcts/game"
	"gridmcts/searcher"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mcts := searcher.NewMCTS(searcher.WithBudget(200), searcher.WithSeed(1), searcher.WithMetrics())
	srv := httptest.NewServer(NewServer(NewEvaluationAgent(mcts)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url+"/findmove", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestFindMoveRequest(t *testing.T) {
	t.Run("round trips a board", func(t *testing.T) {
		b, err := game.FromCells(2, 3, 2, []game.Piece{
			game.PlayerA, game.Empty, game.PlayerB,
			game.Empty, game.Empty, game.Empty,
		}, game.PlayerA)
		require.NoError(t, err)

		req := NewFindMoveRequest(b)
		require.Equal(t, []int{1, 0, 2, 0, 0, 0}, req.Cells)
		require.Equal(t, 1, req.Player)

		got, err := req.Board()
		require.NoError(t, err)
		require.Equal(t, b.Cells(), got.Cells())
		require.Equal(t, b.LegalMoves(), got.LegalMoves())
		require.Equal(t, 2, got.WinLength())
	})

	t.Run("rejects unknown pieces and players", func(t *testing.T) {
		_, err := FindMoveRequest{Rows: 1, Cols: 2, WinLength: 2, Cells: []int{0, 3}, Player: 1}.Board()
		require.ErrorIs(t, err, game.ErrInvalidBoard)

		_, err = FindMoveRequest{Rows: 1, Cols: 2, WinLength: 2, Cells: []int{0, -1}, Player: 1}.Board()
		require.ErrorIs(t, err, game.ErrInvalidBoard)

		_, err = FindMoveRequest{Rows: 1, Cols: 2, WinLength: 2, Cells: []int{0, 0}, Player: 0}.Board()
		require.ErrorIs(t, err, game.ErrInvalidBoard)
	})
}

func TestHandleFindMove(t *testing.T) {
	srv := newTestServer(t)

	t.Run("returns the winning move", func(t *testing.T) {
		resp := postJSON(t, srv.URL, FindMoveRequest{
			Rows: 3, Cols: 3, WinLength: 3,
			Cells:  []int{1, 1, 0, 2, 2, 0, 0, 0, 0},
			Player: 1,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var got FindMoveResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Equal(t, 2, got.Move)
		require.False(t, got.NoMove)
		require.Positive(t, got.Episodes)
	})

	t.Run("reports no move on a finished game", func(t *testing.T) {
		resp := postJSON(t, srv.URL, FindMoveRequest{
			Rows: 3, Cols: 3, WinLength: 3,
			Cells:  []int{1, 1, 1, 2, 2, 0, 0, 0, 0},
			Player: 2,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got FindMoveResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.True(t, got.NoMove)
		require.Equal(t, searcher.NoMove, got.Move)
		require.Zero(t, got.Episodes)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/findmove", "application/json", strings.NewReader("{"))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects an invalid board", func(t *testing.T) {
		resp := postJSON(t, srv.URL, FindMoveRequest{Rows: 3, Cols: 3, WinLength: 4, Cells: make([]int, 9), Player: 1})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = postJSON(t, srv.URL, FindMoveRequest{Rows: 3, Cols: 3, WinLength: 3, Cells: make([]int, 8), Player: 1})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("ping", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/ping")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("only accepts POST", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/findmove")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}
