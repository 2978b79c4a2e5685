package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
	"github.com/nnaakkaaii/minimax2048/internal/record"
	"github.com/nnaakkaaii/minimax2048/internal/usecase"
)

func main() {
	depth := flag.Int("depth", 4, "iterative deepening limit (searches depths 1..depth-1)")
	delay := flag.Int("delay", 0, "delay between moves (ms)")
	agent := flag.String("agent", "minimax", "agent: minimax, random, randomwalk")
	prob := flag.Float64("prob", 0.5, "fully random move probability for randomwalk")
	spawn4 := flag.Bool("spawn4", false, "spawn 4 with 10% probability")
	dualScore := flag.Bool("score-dual-merge", false, "score both pairs of an [A,A,B,B] merge")
	deepest := flag.Bool("prefer-deepest", false, "use the deepest completed search instead of the best score")
	every := flag.Int("every", 100, "print the board every n steps")
	task := flag.String("task", "", "append the result to <dir>/<task>.csv")
	dir := flag.String("dir", ".", "result directory")
	quiet := flag.Bool("quiet", false, "suppress output")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	config := usecase.DefaultAutoPlayConfig()
	config.Agent = usecase.AgentKind(*agent)
	config.RandomProb = *prob
	config.Minimax.MaxDepth = *depth
	config.Minimax.PreferDeepest = *deepest
	config.Game.ScoreDualMerge = *dualScore
	if *spawn4 {
		config.Game.Spawn = domain.SpawnWeighted
	}
	config.Delay = time.Duration(*delay) * time.Millisecond
	config.ReportEvery = *every
	config.Verbose = !*quiet

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := usecase.AutoPlay(ctx, os.Stdout, frand.New(), config, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("autoplay-failed")
	}

	if *task == "" {
		return
	}
	rec, err := record.New(*task, *agent, result.Score, result.Steps, result.Elapsed, result.Board)
	if err != nil {
		log.Fatal().Err(err).Msg("record-failed")
	}
	if err := record.NewCSVWriter(*dir).Append(rec); err != nil {
		log.Fatal().Err(err).Msg("record-failed")
	}
}
