package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
	"github.com/nnaakkaaii/minimax2048/internal/record"
	"github.com/nnaakkaaii/minimax2048/internal/usecase"
)

func main() {
	games := flag.Int("games", 10, "number of games")
	concurrency := flag.Int("concurrency", 1, "games played at the same time")
	agent := flag.String("agent", "minimax", "agent: minimax, random, randomwalk")
	prob := flag.Float64("prob", 0.5, "fully random move probability for randomwalk")
	depth := flag.Int("depth", 4, "iterative deepening limit (searches depths 1..depth-1)")
	spawn4 := flag.Bool("spawn4", false, "spawn 4 with 10% probability")
	task := flag.String("task", "results/minimax", "result file name under dir")
	dir := flag.String("dir", ".", "result directory")
	format := flag.String("format", "csv", "result format: csv, bson")
	prof := flag.String("profile", "", "profile mode: cpu, mem")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		log.Fatal().Str("profile", *prof).Msg("unknown-profile-mode")
	}

	var sink record.Writer
	switch *format {
	case "csv":
		sink = record.NewCSVWriter(*dir)
	case "bson":
		sink = record.NewBSONWriter(*dir)
	default:
		log.Fatal().Str("format", *format).Msg("unknown-result-format")
	}

	config := usecase.DefaultBenchmarkConfig()
	config.Games = *games
	config.Concurrency = *concurrency
	config.Task = *task
	config.Play.Agent = usecase.AgentKind(*agent)
	config.Play.RandomProb = *prob
	config.Play.Minimax.MaxDepth = *depth
	if *spawn4 {
		config.Play.Game.Spawn = domain.SpawnWeighted
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := usecase.Benchmark(ctx, config, func() domain.Rand { return frand.New() }, sink)
	if err != nil {
		// Fatal は defer を実行しないのでプロファイルは書き出されない
		log.Error().Err(err).Msg("benchmark-failed")
		return
	}
	if _, err := summary.WriteTo(os.Stdout); err != nil {
		log.Error().Err(err).Msg("write-summary-failed")
	}
}
