package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/minimax2048/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	depth := flag.Int("depth", 4, "default iterative deepening limit")
	limit := flag.Int("limit", 6, "largest depth a request may ask for")
	delay := flag.Int("delay", 50, "delay between streamed moves (ms)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := server.DefaultConfig()
	cfg.Addr = *addr
	cfg.Minimax.MaxDepth = *depth
	cfg.DepthLimit = *limit
	cfg.StreamDelay = time.Duration(*delay) * time.Millisecond

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server-failed")
	}
}
