package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
)

// AgentKind はエージェントの種類
type AgentKind string

const (
	AgentMinimax    AgentKind = "minimax"
	AgentRandom     AgentKind = "random"
	AgentRandomWalk AgentKind = "randomwalk"
)

// AutoPlayConfig は自動プレイの設定
type AutoPlayConfig struct {
	Game    domain.GameConfig
	Minimax domain.MinimaxConfig
	Agent   AgentKind
	// RandomProb は randomwalk エージェントが完全ランダムな手を選ぶ確率
	RandomProb float64
	Delay      time.Duration
	Verbose    bool
	// ReportEvery 手ごとに盤面を表示する（Verbose のとき）
	ReportEvery int
	// MaxSteps が0より大きい場合、その手数で打ち切る
	MaxSteps int
}

// DefaultAutoPlayConfig はデフォルトの設定を返す
func DefaultAutoPlayConfig() AutoPlayConfig {
	game := domain.DefaultGameConfig()
	// Agent と Computer の手番を明示的に交互に進める
	game.GameMode = false
	return AutoPlayConfig{
		Game:        game,
		Minimax:     domain.DefaultMinimaxConfig(),
		Agent:       AgentMinimax,
		RandomProb:  0.5,
		Delay:       0,
		Verbose:     true,
		ReportEvery: 100,
	}
}

// GameResult は1ゲームの結果
type GameResult struct {
	Score    int
	BestTile int
	Steps    int
	Elapsed  time.Duration
	Board    domain.Board
}

// StepFunc は Agent の手と Computer のタイル配置が終わるたびに呼ばれる
type StepFunc func(step int, move domain.Direction, state *domain.GameState) error

// NewAgent は設定に応じたエージェントを生成する
func NewAgent(config AutoPlayConfig, rng domain.Rand) (domain.Agent, error) {
	switch config.Agent {
	case AgentMinimax, "":
		agent, err := domain.NewMinimaxAgent(config.Minimax)
		if err != nil {
			return nil, err
		}
		return agent, nil
	case AgentRandom:
		return domain.NewRandomAgent(rng), nil
	case AgentRandomWalk:
		return domain.NewRandomWalkAgent(config.RandomProb, rng), nil
	default:
		return nil, fmt.Errorf("unknown agent %q: %w", config.Agent, domain.ErrInvalidConfig)
	}
}

// AutoPlay は自動でゲームを1回プレイする
// ctx のキャンセルは手と手の間でのみ確認する
func AutoPlay(ctx context.Context, w io.Writer, rng domain.Rand, config AutoPlayConfig, onStep StepFunc) (GameResult, error) {
	game, err := domain.NewGame(config.Game, rng)
	if err != nil {
		return GameResult{}, err
	}
	agent, err := NewAgent(config, rng)
	if err != nil {
		return GameResult{}, err
	}

	if config.Verbose {
		fmt.Fprintln(w, "=== 2048 AutoPlay ===")
		fmt.Fprintf(w, "Agent: %s, Depth: %d\n\n", config.Agent, config.Minimax.MaxDepth)
	}

	start := time.Now()
	lap := start
	steps := 0

	for !game.IsLost() {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		if config.MaxSteps > 0 && steps >= config.MaxSteps {
			break
		}

		move := agent.GetMove(game)
		playTurn(game, move)
		steps++

		if config.Verbose && config.ReportEvery > 0 && steps%config.ReportEvery == 0 {
			now := time.Now()
			fmt.Fprintf(w, "========== Step %d ==========\n", steps)
			fmt.Fprintf(w, "Time cost ===> %.3fs\n", now.Sub(lap).Seconds())
			fmt.Fprint(w, game)
			lap = now
		}

		if onStep != nil {
			if err := onStep(steps, move, game); err != nil {
				return GameResult{}, err
			}
		}

		if config.Delay > 0 {
			time.Sleep(config.Delay)
		}
	}

	result := GameResult{
		Score:    game.Score(),
		BestTile: game.MaxTile(),
		Steps:    steps,
		Elapsed:  time.Since(start),
		Board:    game.Board(),
	}

	log.Debug().
		Str("agent", string(config.Agent)).
		Int("score", result.Score).
		Int("best-tile", result.BestTile).
		Int("steps", result.Steps).
		Dur("elapsed", result.Elapsed).
		Msg("game-ended")

	// 最終結果は常に表示
	fmt.Fprint(w, game)
	fmt.Fprintf(w, "Game ended at step %d\n", steps)
	fmt.Fprintf(w, "Final Score: %d\n", result.Score)
	fmt.Fprintf(w, "Max Tile: %d\n", result.BestTile)

	return result, nil
}

// playTurn は Agent の手を適用し、game mode でなければ Computer のタイル配置も行う
func playTurn(game *domain.GameState, move domain.Direction) {
	game.PerformMove(move)
	if game.ActivePlayer() == domain.PlayerComputer {
		game.PerformMove(move)
	}
}
