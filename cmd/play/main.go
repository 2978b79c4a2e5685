package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
	"github.com/nnaakkaaii/minimax2048/internal/usecase"
)

func main() {
	spawn4 := flag.Bool("spawn4", false, "spawn 4 with 10% probability")
	flag.Parse()

	config := domain.DefaultGameConfig()
	if *spawn4 {
		config.Spawn = domain.SpawnWeighted
	}
	if err := usecase.PlayGame(os.Stdin, os.Stdout, frand.New(), config); err != nil {
		log.Fatal().Err(err).Msg("play-failed")
	}
}
