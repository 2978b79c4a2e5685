package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
)

// maxAnalyzeBody は解析リクエストの本文の上限
const maxAnalyzeBody = 1 << 12

type analyzeRequest struct {
	Board [4][4]int `json:"board"`
	Depth int       `json:"depth,omitempty"`
}

type depthPayload struct {
	Depth int     `json:"depth"`
	Move  string  `json:"move"`
	Score float64 `json:"score"`
	Nodes int     `json:"nodes"`
}

type analyzeResponse struct {
	Move      string         `json:"move"`
	Available []string       `json:"available"`
	Depths    []depthPayload `json:"depths"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeBody)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	minimax := s.cfg.Minimax
	if req.Depth != 0 {
		if req.Depth < 2 || req.Depth > s.cfg.DepthLimit {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("depth must be between 2 and %d", s.cfg.DepthLimit),
			})
			return
		}
		minimax.MaxDepth = req.Depth
	}

	state, err := domain.NewGameFromBoard(s.cfg.Game, s.newRand(), domain.NewBoardFromCells(req.Board))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	agent, err := domain.NewMinimaxAgent(minimax)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	move, results, err := agent.Analyze(state)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNoMoves) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	resp := analyzeResponse{
		Move:      move.String(),
		Available: directionNames(state.AvailableMoves()),
		Depths:    make([]depthPayload, 0, len(results)),
	}
	for _, res := range results {
		resp.Depths = append(resp.Depths, depthPayload{
			Depth: res.Depth,
			Move:  res.Move.String(),
			Score: res.Score,
			Nodes: res.Nodes,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func directionNames(dirs []domain.Direction) []string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return names
}
