package domain

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// Computerノードで置くタイルの値（4が出る可能性は探索では無視する）
const searchSpawnValue = 2

// MinimaxConfig は MinimaxAgent の設定
type MinimaxConfig struct {
	// MaxDepth は反復深化の上限。深さ 1..MaxDepth-1 を探索する
	MaxDepth int
	// PreferDeepest が true なら最後に完了した深さの手を採用する
	// false なら全ての深さで最も高いスコアの手を採用する
	PreferDeepest bool
	Weights       HeuristicWeights
}

// DefaultMinimaxConfig はデフォルトの設定を返す
func DefaultMinimaxConfig() MinimaxConfig {
	return MinimaxConfig{
		MaxDepth:      4,
		PreferDeepest: false,
		Weights:       DefaultHeuristicWeights(),
	}
}

// DepthResult は1回の深さ制限付き探索の結果
type DepthResult struct {
	Depth int
	Move  Direction
	Score float64
	// Nodes は探索したノード数
	Nodes int
}

// MinimaxAgent はαβ法付きミニマックス探索と反復深化で手を選ぶ
type MinimaxAgent struct {
	cfg       MinimaxConfig
	evaluator Evaluator
	nodes     int
}

// NewMinimaxAgent は新しいMinimaxAgentを生成する
func NewMinimaxAgent(cfg MinimaxConfig) (*MinimaxAgent, error) {
	if cfg.MaxDepth < 2 {
		return nil, fmt.Errorf("max depth %d must be at least 2: %w", cfg.MaxDepth, ErrInvalidConfig)
	}
	return &MinimaxAgent{
		cfg:       cfg,
		evaluator: NewHeuristicEvaluator(cfg.Weights),
	}, nil
}

// NewMinimaxAgentWithEvaluator は任意の評価関数を使うMinimaxAgentを生成する
func NewMinimaxAgentWithEvaluator(cfg MinimaxConfig, evaluator Evaluator) (*MinimaxAgent, error) {
	a, err := NewMinimaxAgent(cfg)
	if err != nil {
		return nil, err
	}
	a.evaluator = evaluator
	return a, nil
}

// GetMove は反復深化で探索し、採用した手を返す
// 改善する候補がなければ最初の合法手を返す
func (a *MinimaxAgent) GetMove(state *GameState) Direction {
	move, _ := a.bestMove(state)
	return move
}

// Analyze は深さごとの探索結果を返す
func (a *MinimaxAgent) Analyze(state *GameState) (Direction, []DepthResult, error) {
	if len(state.AvailableMoves()) == 0 {
		return Left, nil, ErrNoMoves
	}
	move, results := a.bestMove(state)
	return move, results, nil
}

func (a *MinimaxAgent) bestMove(state *GameState) (Direction, []DepthResult) {
	moves := state.AvailableMoves()
	if len(moves) == 0 {
		return Left, nil
	}

	bestDir := moves[0]
	bestScore := math.Inf(-1)
	results := make([]DepthResult, 0, a.cfg.MaxDepth)

	for depth := 1; depth < a.cfg.MaxDepth; depth++ {
		a.nodes = 0
		score, dir := a.search(a.rootCopy(state), math.Inf(-1), math.Inf(1), 1, depth)
		results = append(results, DepthResult{Depth: depth, Move: dir, Score: score, Nodes: a.nodes})

		log.Debug().
			Int("depth", depth).
			Str("move", dir.String()).
			Float64("score", score).
			Int("nodes", a.nodes).
			Msg("deepening-iteratively")

		if a.cfg.PreferDeepest {
			if !math.IsInf(score, -1) {
				bestDir, bestScore = dir, score
			}
			continue
		}
		if score > bestScore {
			bestDir, bestScore = dir, score
		}
	}

	return bestDir, results
}

// rootCopy は探索用に game mode を外した複製を返す
func (a *MinimaxAgent) rootCopy(state *GameState) *GameState {
	c := state.Copy()
	c.cfg.GameMode = false
	return c
}

// search はαβ法で評価値を返す。depth == 1 のノードでは最善手も返す
func (a *MinimaxAgent) search(state *GameState, alpha, beta float64, depth, maxDepth int) (float64, Direction) {
	a.nodes++
	if depth > maxDepth || state.end {
		return a.evaluator.Evaluate(state.board), Left
	}

	if state.active == PlayerAgent {
		moves := state.AvailableMoves()
		if len(moves) == 0 {
			return a.evaluator.Evaluate(state.board), Left
		}

		best := math.Inf(-1)
		bestDir := moves[0]
		for _, dir := range moves {
			child := state.Copy()
			child.PerformMove(dir)
			v, _ := a.search(child, alpha, beta, depth+1, maxDepth)
			if v > best {
				best = v
				bestDir = dir
			}
			if best > alpha {
				alpha = best
			}
			if best >= beta {
				return best, bestDir
			}
		}
		return best, bestDir
	}

	empty := state.board.EmptyCells()
	if len(empty) == 0 {
		return a.evaluator.Evaluate(state.board), Left
	}

	worst := math.Inf(1)
	for _, pos := range empty {
		child := state.Copy()
		child.placeTile(pos[0], pos[1], searchSpawnValue)
		v, _ := a.search(child, alpha, beta, depth+1, maxDepth)
		if v < worst {
			worst = v
		}
		if worst < beta {
			beta = worst
		}
		if worst <= alpha {
			return worst, Left
		}
	}
	return worst, Left
}
