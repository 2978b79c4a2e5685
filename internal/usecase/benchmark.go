package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
	"github.com/nnaakkaaii/minimax2048/internal/record"
)

// BenchmarkConfig は複数ゲームをまとめて実行する設定
type BenchmarkConfig struct {
	Play  AutoPlayConfig
	Games int
	// Concurrency は同時に進めるゲーム数。各ゲームの探索自体は単一スレッド
	Concurrency int
	// Task は結果ファイル名
	Task string
}

// DefaultBenchmarkConfig はデフォルトの設定を返す
func DefaultBenchmarkConfig() BenchmarkConfig {
	play := DefaultAutoPlayConfig()
	play.Verbose = false
	return BenchmarkConfig{
		Play:        play,
		Games:       10,
		Concurrency: 1,
		Task:        "results/minimax",
	}
}

// Summary は複数ゲームの集計
type Summary struct {
	Games     int
	MeanScore float64
	MaxScore  int
	MeanSteps float64
	BestTile  int
	// TileCounts は最大タイルごとのゲーム数
	TileCounts map[int]int
}

// WriteTo は集計を表示する
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	var total int64
	n, err := fmt.Fprintf(w, "Games: %d\nMean Score: %.1f\nMax Score: %d\nMean Steps: %.1f\nBest Tile: %d\n",
		s.Games, s.MeanScore, s.MaxScore, s.MeanSteps, s.BestTile)
	total += int64(n)
	if err != nil {
		return total, err
	}

	tiles := make([]int, 0, len(s.TileCounts))
	for tile := range s.TileCounts {
		tiles = append(tiles, tile)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiles)))
	for _, tile := range tiles {
		n, err := fmt.Fprintf(w, "  %6d: %d\n", tile, s.TileCounts[tile])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Benchmark は config.Games 回のゲームを実行し、結果を sink に追記する
// newRand はゲームごとに独立した乱数源を返す
func Benchmark(ctx context.Context, config BenchmarkConfig, newRand func() domain.Rand, sink record.Writer) (Summary, error) {
	if config.Games <= 0 {
		return Summary{}, fmt.Errorf("games %d must be positive: %w", config.Games, domain.ErrInvalidConfig)
	}
	limit := config.Concurrency
	if limit <= 0 {
		limit = 1
	}

	play := config.Play
	play.Verbose = false

	var (
		mu      sync.Mutex
		results = make([]GameResult, 0, config.Games)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := 0; i < config.Games; i++ {
		g.Go(func() error {
			res, err := AutoPlay(ctx, io.Discard, newRand(), play, nil)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}

			if sink != nil {
				rec, err := record.New(config.Task, string(play.Agent), res.Score, res.Steps, res.Elapsed, res.Board)
				if err != nil {
					return fmt.Errorf("game %d: %w", i, err)
				}
				if err := sink.Append(rec); err != nil {
					return fmt.Errorf("game %d: %w", i, err)
				}
			}

			log.Info().
				Int("game", i).
				Int("score", res.Score).
				Int("best-tile", res.BestTile).
				Int("steps", res.Steps).
				Dur("elapsed", res.Elapsed).
				Msg("game-finished")

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summarize(results), nil
}

func summarize(results []GameResult) Summary {
	s := Summary{
		Games:      len(results),
		TileCounts: make(map[int]int),
	}
	if len(results) == 0 {
		return s
	}

	scoreSum, stepSum := 0, 0
	for _, r := range results {
		scoreSum += r.Score
		stepSum += r.Steps
		if r.Score > s.MaxScore {
			s.MaxScore = r.Score
		}
		if r.BestTile > s.BestTile {
			s.BestTile = r.BestTile
		}
		s.TileCounts[r.BestTile]++
	}
	s.MeanScore = float64(scoreSum) / float64(len(results))
	s.MeanSteps = float64(stepSum) / float64(len(results))
	return s
}
