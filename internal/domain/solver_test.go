package domain

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/matryer/is"
)

// plainMinimax は枝刈りなしのミニマックス
func plainMinimax(ev Evaluator, state *GameState, depth, maxDepth int) (float64, Direction) {
	if depth > maxDepth || state.end {
		return ev.Evaluate(state.board), Left
	}

	if state.active == PlayerAgent {
		moves := state.AvailableMoves()
		if len(moves) == 0 {
			return ev.Evaluate(state.board), Left
		}
		best, bestDir := math.Inf(-1), moves[0]
		for _, dir := range moves {
			child := state.Copy()
			child.PerformMove(dir)
			if v, _ := plainMinimax(ev, child, depth+1, maxDepth); v > best {
				best, bestDir = v, dir
			}
		}
		return best, bestDir
	}

	empty := state.board.EmptyCells()
	if len(empty) == 0 {
		return ev.Evaluate(state.board), Left
	}
	worst := math.Inf(1)
	for _, pos := range empty {
		child := state.Copy()
		child.placeTile(pos[0], pos[1], searchSpawnValue)
		if v, _ := plainMinimax(ev, child, depth+1, maxDepth); v < worst {
			worst = v
		}
	}
	return worst, Left
}

// sampleStates はランダムプレイで到達した Agent 手番の局面を集める
func sampleStates(t *testing.T, seed int64, n int) []*GameState {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	g, err := NewGame(nonGameConfig(), rng)
	if err != nil {
		t.Fatal(err)
	}
	agent := NewRandomAgent(rng)

	states := make([]*GameState, 0, n)
	for len(states) < n && !g.IsLost() {
		states = append(states, g.Copy())
		move := agent.GetMove(g)
		g.PerformMove(move)
		g.PerformMove(move)
	}
	return states
}

func TestNewMinimaxAgentRejectsShallowDepth(t *testing.T) {
	cfg := DefaultMinimaxConfig()
	cfg.MaxDepth = 1
	if _, err := NewMinimaxAgent(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	agent, err := NewMinimaxAgent(DefaultMinimaxConfig())
	if err != nil {
		t.Fatal(err)
	}

	for seed := int64(0); seed < 3; seed++ {
		for i, state := range sampleStates(t, seed, 60) {
			if i%6 != 0 {
				continue
			}
			for depth := 1; depth <= 3; depth++ {
				root := agent.rootCopy(state)
				wantScore, wantMove := plainMinimax(agent.evaluator, root.Copy(), 1, depth)
				gotScore, gotMove := agent.search(root.Copy(), math.Inf(-1), math.Inf(1), 1, depth)
				if gotScore != wantScore || gotMove != wantMove {
					t.Errorf("seed %d state %d depth %d: alpha-beta (%v, %f) != minimax (%v, %f)\n%s",
						seed, i, depth, gotMove, gotScore, wantMove, wantScore, state.Board())
				}
			}
		}
	}
}

func TestAlphaBetaPrunes(t *testing.T) {
	agent, err := NewMinimaxAgent(DefaultMinimaxConfig())
	if err != nil {
		t.Fatal(err)
	}
	state := sampleStates(t, 7, 10)[9]

	root := agent.rootCopy(state)
	agent.nodes = 0
	agent.search(root, math.Inf(-1), math.Inf(1), 1, 3)
	pruned := agent.nodes

	full := 0
	var count func(s *GameState, depth int)
	count = func(s *GameState, depth int) {
		full++
		if depth > 3 || s.end {
			return
		}
		if s.active == PlayerAgent {
			for _, dir := range s.AvailableMoves() {
				child := s.Copy()
				child.PerformMove(dir)
				count(child, depth+1)
			}
			return
		}
		for _, pos := range s.board.EmptyCells() {
			child := s.Copy()
			child.placeTile(pos[0], pos[1], searchSpawnValue)
			count(child, depth+1)
		}
	}
	count(agent.rootCopy(state), 1)

	if pruned >= full {
		t.Errorf("alpha-beta visited %d nodes, full tree has %d", pruned, full)
	}
}

func TestSearchCutoffAtAgentNode(t *testing.T) {
	agent, err := NewMinimaxAgent(DefaultMinimaxConfig())
	if err != nil {
		t.Fatal(err)
	}
	root := agent.rootCopy(mustGame(t, DefaultGameConfig(), fixedRand{}, [4][4]int{
		{0, 512, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 2, 0},
		{0, 0, 0, 0},
	}))
	if n := len(root.AvailableMoves()); n != 4 {
		t.Fatalf("expected 4 moves, got %d", n)
	}

	// beta = -Inf なので最初の子の評価で打ち切られる
	agent.nodes = 0
	agent.search(root, math.Inf(-1), math.Inf(-1), 1, 1)
	if agent.nodes != 2 {
		t.Errorf("visited %d nodes, want 2 (root and first child)", agent.nodes)
	}
}

func TestSearchCutoffAtComputerNode(t *testing.T) {
	agent, err := NewMinimaxAgent(DefaultMinimaxConfig())
	if err != nil {
		t.Fatal(err)
	}
	root := agent.rootCopy(mustGame(t, DefaultGameConfig(), fixedRand{}, [4][4]int{
		{0, 512, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 2, 0},
		{0, 0, 0, 0},
	}))
	root.PerformMove(Left)
	if root.ActivePlayer() != PlayerComputer {
		t.Fatal("expected Computer to move")
	}

	// alpha = +Inf なので最初のタイル配置の評価で打ち切られる
	agent.nodes = 0
	agent.search(root, math.Inf(1), math.Inf(1), 1, 1)
	if agent.nodes != 2 {
		t.Errorf("visited %d nodes, want 2 (root and first placement)", agent.nodes)
	}
}

func TestGetMoveIsLegal(t *testing.T) {
	agent, err := NewMinimaxAgent(DefaultMinimaxConfig())
	if err != nil {
		t.Fatal(err)
	}

	for _, state := range sampleStates(t, 3, 40) {
		move := agent.GetMove(state)
		if !containsDirection(state.AvailableMoves(), move) {
			t.Fatalf("GetMove returned illegal move %v for\n%s", move, state.Board())
		}
	}
}

func TestGetMoveDoesNotMutateState(t *testing.T) {
	is := is.New(t)
	agent, err := NewMinimaxAgent(DefaultMinimaxConfig())
	is.NoErr(err)

	state := sampleStates(t, 11, 5)[4]
	before := state.Copy()
	agent.GetMove(state)

	is.True(state.Board().Equal(before.Board()))
	is.Equal(state.Score(), before.Score())
	is.Equal(state.ActivePlayer(), before.ActivePlayer())
}

func TestGetMoveKeepsMaxTileInCorner(t *testing.T) {
	cfg := DefaultMinimaxConfig()
	cfg.MaxDepth = 3
	agent, err := NewMinimaxAgent(cfg)
	if err != nil {
		t.Fatal(err)
	}

	state := mustGame(t, DefaultGameConfig(), fixedRand{}, [4][4]int{
		{0, 512, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 2, 0},
		{0, 0, 0, 0},
	})
	if move := agent.GetMove(state); move != Left {
		t.Errorf("expected Left, got %v", move)
	}
}

func TestAnalyzeSelectionPolicy(t *testing.T) {
	for _, preferDeepest := range []bool{false, true} {
		cfg := DefaultMinimaxConfig()
		cfg.MaxDepth = 5
		cfg.PreferDeepest = preferDeepest
		agent, err := NewMinimaxAgent(cfg)
		if err != nil {
			t.Fatal(err)
		}

		for _, state := range sampleStates(t, 5, 8) {
			move, results, err := agent.Analyze(state)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != cfg.MaxDepth-1 {
				t.Fatalf("expected %d depths, got %d", cfg.MaxDepth-1, len(results))
			}

			want := results[len(results)-1].Move
			if !preferDeepest {
				best := math.Inf(-1)
				for _, r := range results {
					if r.Score > best {
						best, want = r.Score, r.Move
					}
				}
			}
			if move != want {
				t.Errorf("preferDeepest=%v: got %v, want %v", preferDeepest, move, want)
			}
		}
	}
}

func TestAnalyzeLostState(t *testing.T) {
	agent, err := NewMinimaxAgent(DefaultMinimaxConfig())
	if err != nil {
		t.Fatal(err)
	}
	state := mustGame(t, DefaultGameConfig(), fixedRand{}, [4][4]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	if _, _, err := agent.Analyze(state); !errors.Is(err, ErrNoMoves) {
		t.Errorf("expected ErrNoMoves, got %v", err)
	}
}
