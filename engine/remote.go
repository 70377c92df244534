package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gridmcts/experiments/metrics"
	"gridmcts/game"
	"gridmcts/searcher"
	"gridmcts/searcher/agent"
)

// RemoteAgent asks an agent server for moves over HTTP.
type RemoteAgent struct {
	URL    string
	Client *http.Client
}

func NewRemoteAgent(url string) *RemoteAgent {
	return &RemoteAgent{
		URL:    strings.TrimSuffix(url, "/"),
		Client: http.DefaultClient,
	}
}

// FindMove encodes the board in JSON and posts it to /findmove on the agent side.
func (a *RemoteAgent) FindMove(ctx context.Context, state *game.Board) (int, metrics.SearchMetric, error) {
	bodyBytes, err := json.Marshal(agent.NewFindMoveRequest(state))
	if err != nil {
		return searcher.NoMove, metrics.SearchMetric{}, fmt.Errorf("failed to encode move request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL+"/findmove", bytes.NewReader(bodyBytes))
	if err != nil {
		return searcher.NoMove, metrics.SearchMetric{}, fmt.Errorf("failed to create move request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return searcher.NoMove, metrics.SearchMetric{}, fmt.Errorf("failed to request move: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return searcher.NoMove, metrics.SearchMetric{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var move agent.FindMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&move); err != nil {
		return searcher.NoMove, metrics.SearchMetric{}, fmt.Errorf("failed to decode move: %w", err)
	}

	searchMetric := metrics.SearchMetric{Episodes: move.Episodes}
	if move.NoMove {
		return searcher.NoMove, searchMetric, nil
	}
	return move.Move, searchMetric, nil
}
