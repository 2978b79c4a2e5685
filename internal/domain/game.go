package domain

import (
	"fmt"
	"strconv"
	"strings"

	"lukechampine.com/frand"
)

// Rand はタイル出現やランダムエージェントが使う乱数源
// *frand.RNG と *math/rand.Rand の両方が満たす
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Player は手番を表す
type Player int

const (
	PlayerAgent Player = iota
	PlayerComputer
)

// Opponent は相手の手番を返す
func (p Player) Opponent() Player {
	if p == PlayerAgent {
		return PlayerComputer
	}
	return PlayerAgent
}

func (p Player) String() string {
	if p == PlayerAgent {
		return "Agent"
	}
	return "Computer"
}

// SpawnPolicy は新しいタイルの値の決め方
type SpawnPolicy int

const (
	// SpawnTwo は常に2を置く
	SpawnTwo SpawnPolicy = iota
	// SpawnWeighted は10%で4、それ以外は2を置く
	SpawnWeighted
)

// minUpperBound 以下では2048タイルを表示用マッピングで表せない
const minUpperBound = 10

// GameConfig はゲームの設定
type GameConfig struct {
	// GameMode が true のとき、盤面が変化した手の直後にComputerの手番を同じ呼び出しで処理する
	GameMode bool
	// UpperBound は表示できるタイルの指数の上限（2^(UpperBound-1) まで）
	UpperBound int
	Spawn      SpawnPolicy
	// ScoreDualMerge が true のとき [A,A,B,B] の同時マージにもスコアを加算する
	ScoreDualMerge bool
}

// DefaultGameConfig はデフォルトの設定を返す
func DefaultGameConfig() GameConfig {
	return GameConfig{
		GameMode:       true,
		UpperBound:     20,
		Spawn:          SpawnTwo,
		ScoreDualMerge: false,
	}
}

// Validate は設定を検証する
func (c GameConfig) Validate() error {
	if c.UpperBound <= minUpperBound {
		return fmt.Errorf("upper bound %d must be greater than %d: %w", c.UpperBound, minUpperBound, ErrInvalidConfig)
	}
	if c.UpperBound > 62 {
		return fmt.Errorf("upper bound %d overflows tile values: %w", c.UpperBound, ErrInvalidConfig)
	}
	if c.Spawn != SpawnTwo && c.Spawn != SpawnWeighted {
		return fmt.Errorf("unknown spawn policy %d: %w", c.Spawn, ErrInvalidConfig)
	}
	return nil
}

// GameState は2048ゲームの状態を管理する
type GameState struct {
	board     Board
	prevBoard Board
	score     int
	active    Player
	end       bool
	cfg       GameConfig
	rng       Rand
}

// NewGame は2枚のタイルを配置した新しいゲームを開始する
// rng が nil の場合は frand を使う
func NewGame(cfg GameConfig, rng Rand) (*GameState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = frand.New()
	}
	g := &GameState{
		board:  NewBoard(),
		active: PlayerAgent,
		cfg:    cfg,
		rng:    rng,
	}
	// 初期配置として2つのタイルを配置
	g.spawnTile()
	g.spawnTile()
	g.prevBoard = g.board
	g.end = !g.board.mergeable()
	return g, nil
}

// NewGameFromBoard は指定した盤面から Agent の手番でゲームを開始する
func NewGameFromBoard(cfg GameConfig, rng Rand, board Board) (*GameState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := board.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = frand.New()
	}
	return &GameState{
		board:     board,
		prevBoard: board,
		active:    PlayerAgent,
		end:       !board.mergeable(),
		cfg:       cfg,
		rng:       rng,
	}, nil
}

// Board は現在の盤面を返す
func (g *GameState) Board() Board {
	return g.board
}

// PreviousBoard は直前の遷移開始時の盤面を返す
func (g *GameState) PreviousBoard() Board {
	return g.prevBoard
}

// Score は現在のスコアを返す
func (g *GameState) Score() int {
	return g.score
}

// ActivePlayer は現在の手番を返す
func (g *GameState) ActivePlayer() Player {
	return g.active
}

// IsTerminal は直近の遷移で記録された終局フラグを返す
func (g *GameState) IsTerminal() bool {
	return g.end
}

// Config はゲームの設定を返す
func (g *GameState) Config() GameConfig {
	return g.cfg
}

// EmptyCells は空きマスの座標を返す
func (g *GameState) EmptyCells() [][2]int {
	return g.board.EmptyCells()
}

// MaxTile は最大タイルを返す
func (g *GameState) MaxTile() int {
	return g.board.MaxTile()
}

// IsLost は空きマスもマージ可能なペアもない場合に true を返す
func (g *GameState) IsLost() bool {
	return !g.board.mergeable()
}

// PerformMove は現在の手番の操作を1回行い、盤面が変化したかを返す
// Computer の手番で空きマスがあればタイルを1枚置き、それ以外は dir 方向にマージする
func (g *GameState) PerformMove(dir Direction) bool {
	g.prevBoard = g.board

	if g.active == PlayerComputer && g.board.CountEmpty() > 0 {
		g.spawnTile()
	} else {
		newBoard, score := g.board.Shift(dir, g.cfg.ScoreDualMerge)
		g.board = newBoard
		g.score += score
	}

	g.end = !g.board.mergeable()
	g.active = g.active.Opponent()

	changed := !g.board.Equal(g.prevBoard)
	if g.cfg.GameMode && changed {
		g.spawnTile()
		g.active = g.active.Opponent()
		g.end = !g.board.mergeable()
	}

	return changed
}

// AvailableMoves は盤面を変化させる方向を Left, Right, Up, Down の順で返す
// Agent の手番を前提とし、手番に関係なく盤面のシフトだけで判定する
func (g *GameState) AvailableMoves() []Direction {
	moves := make([]Direction, 0, 4)
	for _, dir := range AllDirections {
		shifted, _ := g.board.Shift(dir, g.cfg.ScoreDualMerge)
		if !shifted.Equal(g.board) {
			moves = append(moves, dir)
		}
	}
	return moves
}

// Copy は乱数源以外の状態を共有しない複製を返す
func (g *GameState) Copy() *GameState {
	c := *g
	return &c
}

// placeTile は指定マスにタイルを置いて手番を交代する（探索のComputerノード用）
func (g *GameState) placeTile(row, col, value int) {
	g.prevBoard = g.board
	g.board = g.board.Set(row, col, value)
	g.end = !g.board.mergeable()
	g.active = g.active.Opponent()
}

// spawnTile は空きマスにランダムにタイルを配置する
func (g *GameState) spawnTile() {
	empty := g.board.EmptyCells()
	if len(empty) == 0 {
		return
	}

	pos := empty[g.rng.Intn(len(empty))]
	val := 2
	if g.cfg.Spawn == SpawnWeighted && g.rng.Float64() > 0.9 {
		val = 4
	}
	g.board = g.board.Set(pos[0], pos[1], val)
}

// String は盤面・スコア・空きマス数を表示する
// セル幅は UpperBound で表せる最大タイルの桁数に合わせる
func (g *GameState) String() string {
	width := len(strconv.Itoa(1 << (g.cfg.UpperBound - 1)))
	sep := strings.Repeat("-", (width+3)*4+1)

	var sb strings.Builder
	for r := 0; r < 4; r++ {
		sb.WriteString(sep + "\n")
		for c := 0; c < 4; c++ {
			v := g.board.Get(r, c)
			cell := ""
			if v != 0 {
				cell = strconv.Itoa(v)
			}
			fmt.Fprintf(&sb, "| %*s ", width, cell)
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(sep + "\n")
	fmt.Fprintf(&sb, "Score: %d\nEmpty Tiles: %d\n", g.score, g.board.CountEmpty())
	sb.WriteString(sep + "\n")
	return sb.String()
}
