package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
	"github.com/nnaakkaaii/minimax2048/internal/usecase"
)

type frame struct {
	Step     int       `json:"step"`
	Move     string    `json:"move,omitempty"`
	Score    int       `json:"score"`
	BestTile int       `json:"best_tile"`
	Board    [4][4]int `json:"board"`
	Final    bool      `json:"final,omitempty"`
}

// handleAutoPlay は1ゲームを自動プレイし、1手ごとに盤面を送る
// クエリ: agent=minimax|random|randomwalk, depth=n
func (s *Server) handleAutoPlay(w http.ResponseWriter, r *http.Request) {
	play := usecase.DefaultAutoPlayConfig()
	play.Game = s.cfg.Game
	play.Game.GameMode = false
	play.Minimax = s.cfg.Minimax
	play.Verbose = false
	play.Delay = s.cfg.StreamDelay

	if agent := r.URL.Query().Get("agent"); agent != "" {
		play.Agent = usecase.AgentKind(agent)
	}
	if raw := r.URL.Query().Get("depth"); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil || depth < 2 || depth > s.cfg.DepthLimit {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid depth"})
			return
		}
		play.Minimax.MaxDepth = depth
	}
	if _, err := usecase.NewAgent(play, nil); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket-upgrade-failed")
		return
	}
	defer conn.Close()

	result, err := usecase.AutoPlay(r.Context(), io.Discard, s.newRand(), play,
		func(step int, move domain.Direction, state *domain.GameState) error {
			return conn.WriteJSON(frame{
				Step:     step,
				Move:     move.String(),
				Score:    state.Score(),
				BestTile: state.MaxTile(),
				Board:    state.Board().Cells(),
			})
		})
	if err != nil {
		log.Debug().Err(err).Msg("autoplay-stream-aborted")
		return
	}

	if err := conn.WriteJSON(frame{
		Step:     result.Steps,
		Score:    result.Score,
		BestTile: result.BestTile,
		Board:    result.Board.Cells(),
		Final:    true,
	}); err != nil {
		log.Debug().Err(err).Msg("autoplay-final-frame-failed")
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game ended"))
}
