package usecase

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
)

// PlayGame はCLIで2048ゲームを実行する
func PlayGame(r io.Reader, w io.Writer, rng domain.Rand, config domain.GameConfig) error {
	game, err := domain.NewGame(config, rng)
	if err != nil {
		return err
	}
	reader := bufio.NewReader(r)

	fmt.Fprintln(w, "=== 2048 ===")
	fmt.Fprintln(w, "Controls: w=Up, s=Down, a=Left, d=Right, q=Quit")
	fmt.Fprintln(w)

	for {
		fmt.Fprint(w, game)

		if game.IsLost() {
			fmt.Fprintln(w, "Game ended.")
			return nil
		}

		fmt.Fprint(w, "Enter a direction: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(strings.ToLower(input))
		if input == "q" {
			fmt.Fprintln(w, "Force quit, bye bye~")
			return nil
		}

		dir, ok := parseDirection(input)
		if !ok {
			fmt.Fprintln(w, "Invalid input. Use w/a/s/d or q to quit.")
			continue
		}

		if !containsMove(game.AvailableMoves(), dir) {
			fmt.Fprintln(w, "Cannot move in that direction.")
			continue
		}
		playTurn(game, dir)
		fmt.Fprintln(w)
	}
}

func parseDirection(input string) (domain.Direction, bool) {
	switch input {
	case "w":
		return domain.Up, true
	case "s":
		return domain.Down, true
	case "a":
		return domain.Left, true
	case "d":
		return domain.Right, true
	default:
		return 0, false
	}
}

func containsMove(moves []domain.Direction, dir domain.Direction) bool {
	for _, m := range moves {
		if m == dir {
			return true
		}
	}
	return false
}
