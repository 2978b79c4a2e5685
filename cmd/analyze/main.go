package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
)

func main() {
	depth := flag.Int("depth", 5, "iterative deepening limit")
	deepest := flag.Bool("prefer-deepest", false, "use the deepest completed search instead of the best score")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	scanner := bufio.NewScanner(os.Stdin)
	gameConfig := domain.DefaultGameConfig()
	gameConfig.GameMode = false

	fmt.Println("=== 2048 Interactive Analyzer ===")
	fmt.Println("Enter board state as 16 numbers (0 for empty), or 'quit' to exit")
	fmt.Println("Example: 0 0 0 0 0 0 0 0 0 0 0 0 0 0 2 2")
	fmt.Println()

	currentDepth := *depth
	for {
		board, ok := inputBoard(scanner)
		if !ok {
			return
		}

	analyze:
		for {
			fmt.Println("\nCurrent board:")
			fmt.Print(board)

			state, err := domain.NewGameFromBoard(gameConfig, nil, board)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				break
			}
			if state.IsLost() {
				fmt.Println("Game Over!")
				break
			}

			cfg := domain.DefaultMinimaxConfig()
			cfg.MaxDepth = currentDepth
			cfg.PreferDeepest = *deepest
			agent, err := domain.NewMinimaxAgent(cfg)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				break
			}

			fmt.Printf("\nSearch depth: %d\n", currentDepth)
			bestMove, results, err := agent.Analyze(state)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				break
			}

			fmt.Printf("\n=== Recommended move: %s ===\n", bestMove)
			fmt.Println("\nDepth results:")
			for _, r := range results {
				fmt.Printf("  depth %d: %-5s %.2f (%d nodes)\n", r.Depth, r.Move, r.Score, r.Nodes)
			}

			fmt.Println("\nOptions:")
			fmt.Println("  1. Apply suggested move and add new tile")
			fmt.Println("  2. Enter custom move and new tile")
			fmt.Println("  3. Change search depth")
			fmt.Println("  4. New board")
			fmt.Println("  5. Quit")
			fmt.Print("Choice: ")

			if !scanner.Scan() {
				return
			}
			switch scanner.Text() {
			case "1":
				board = applyMoveWithNewTile(scanner, board, bestMove)
			case "2":
				board = customMoveWithNewTile(scanner, board)
			case "3":
				currentDepth = changeDepth(scanner, currentDepth)
			case "4":
				break analyze
			case "5":
				return
			default:
				fmt.Println("Invalid choice")
			}
		}
	}
}

func inputBoard(scanner *bufio.Scanner) (domain.Board, bool) {
	for {
		fmt.Println("Enter board (16 numbers separated by spaces, or 'quit'):")
		if !scanner.Scan() {
			return domain.Board{}, false
		}
		input := scanner.Text()
		if input == "quit" {
			return domain.Board{}, false
		}

		board, err := parseBoard(input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		return board, true
	}
}

func parseBoard(input string) (domain.Board, error) {
	parts := strings.Fields(input)
	if len(parts) != 16 {
		return domain.Board{}, fmt.Errorf("need exactly 16 numbers, got %d", len(parts))
	}

	var cells [4][4]int
	for i := 0; i < 16; i++ {
		val, err := strconv.Atoi(parts[i])
		if err != nil {
			return domain.Board{}, fmt.Errorf("parse number: %w", err)
		}
		cells[i/4][i%4] = val
	}

	board := domain.NewBoardFromCells(cells)
	return board, board.Validate()
}

func applyMoveWithNewTile(scanner *bufio.Scanner, board domain.Board, dir domain.Direction) domain.Board {
	newBoard, score := board.Shift(dir, false)
	fmt.Printf("\nApplied %s (score gained: +%d)\n", dir, score)
	fmt.Print(newBoard)

	fmt.Println("\nEmpty cells:")
	for i, cell := range newBoard.EmptyCells() {
		fmt.Printf("  %d: (%d,%d)\n", i, cell[0], cell[1])
	}

	fmt.Print("\nEnter new tile position (row col) and value (2 or 4): ")
	if !scanner.Scan() {
		return board
	}
	parts := strings.Fields(scanner.Text())
	if len(parts) != 3 {
		fmt.Println("Invalid input. Format: row col value")
		return board
	}

	row, errRow := strconv.Atoi(parts[0])
	col, errCol := strconv.Atoi(parts[1])
	val, errVal := strconv.Atoi(parts[2])
	if errRow != nil || errCol != nil || row < 0 || row > 3 || col < 0 || col > 3 {
		fmt.Println("Invalid position")
		return board
	}
	if newBoard.Get(row, col) != 0 {
		fmt.Println("Cell is not empty")
		return board
	}
	if errVal != nil || (val != 2 && val != 4) {
		fmt.Println("Value must be 2 or 4")
		return board
	}

	return newBoard.Set(row, col, val)
}

func customMoveWithNewTile(scanner *bufio.Scanner, board domain.Board) domain.Board {
	fmt.Print("Enter direction (left/right/up/down): ")
	if !scanner.Scan() {
		return board
	}
	dir, ok := domain.ParseDirection(strings.TrimSpace(scanner.Text()))
	if !ok {
		fmt.Println("Invalid direction")
		return board
	}

	return applyMoveWithNewTile(scanner, board, dir)
}

func changeDepth(scanner *bufio.Scanner, currentDepth int) int {
	fmt.Printf("Enter new depth (current: %d): ", currentDepth)
	if !scanner.Scan() {
		return currentDepth
	}
	newDepth, err := strconv.Atoi(scanner.Text())
	if err != nil || newDepth < 2 || newDepth > 10 {
		fmt.Println("Invalid depth (must be 2-10)")
		return currentDepth
	}
	return newDepth
}
