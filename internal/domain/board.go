package domain

import (
	"fmt"
	"strings"
)

// Direction はスワイプの方向を表す
// 並びは LEFT, RIGHT, UP, DOWN の順（0..3）
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// AllDirections は探索・合法手判定で使う方向の順序
var AllDirections = []Direction{Left, Right, Up, Down}

// String は方向の名前を返す
func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Up:
		return "Up"
	case Down:
		return "Down"
	default:
		return "Unknown"
	}
}

// ParseDirection は名前から方向を返す（大文字小文字は区別しない）
func ParseDirection(s string) (Direction, bool) {
	for _, d := range AllDirections {
		if strings.EqualFold(d.String(), s) {
			return d, true
		}
	}
	return 0, false
}

// horizontal は行単位で処理する方向かどうか
func (d Direction) horizontal() bool {
	return d == Left || d == Right
}

// towardStart はインデックス0側へ寄せる方向かどうか
func (d Direction) towardStart() bool {
	return d == Left || d == Up
}

// Board は4x4の2048ゲーム盤面を表す（immutable）
type Board struct {
	cells [4][4]int
}

// NewBoard は空のBoardを生成する
func NewBoard() Board {
	return Board{}
}

// NewBoardFromCells はセルの値を指定してBoardを生成する
func NewBoardFromCells(cells [4][4]int) Board {
	return Board{cells: cells}
}

// Cells はセルの配列を返す
func (b Board) Cells() [4][4]int {
	return b.cells
}

// Get は指定した位置のセル値を取得する
func (b Board) Get(row, col int) int {
	return b.cells[row][col]
}

// Set は指定した位置に値を設定した新しいBoardを返す
func (b Board) Set(row, col, value int) Board {
	b.cells[row][col] = value
	return b
}

// Validate は全セルが0または2以上の2の累乗であることを確認する
func (b Board) Validate() error {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			v := b.cells[r][c]
			if v == 0 {
				continue
			}
			if v < 2 || v&(v-1) != 0 {
				return fmt.Errorf("cell (%d,%d) = %d: %w", r, c, v, ErrInvalidBoard)
			}
		}
	}
	return nil
}

// EmptyCells は空のセルの座標一覧を返す（行優先）
func (b Board) EmptyCells() [][2]int {
	empty := make([][2]int, 0, 16)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b.cells[r][c] == 0 {
				empty = append(empty, [2]int{r, c})
			}
		}
	}
	return empty
}

// CountEmpty は空きマスの数を返す
func (b Board) CountEmpty() int {
	n := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b.cells[r][c] == 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile は最大タイルの値を返す
func (b Board) MaxTile() int {
	max := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b.cells[r][c] > max {
				max = b.cells[r][c]
			}
		}
	}
	return max
}

// Shift は指定方向に全ての行/列をマージした盤面と獲得スコアを返す（spawnなし）
// scoreDualMerge が false のとき [A,A,B,B] の同時マージはスコアに加算しない
func (b Board) Shift(dir Direction, scoreDualMerge bool) (Board, int) {
	newCells := b.cells
	totalScore := 0
	toward := dir.towardStart()

	for i := 0; i < 4; i++ {
		var line [4]int
		if dir.horizontal() {
			line = b.getRow(i)
		} else {
			line = b.getCol(i)
		}

		merged, score, changed := mergeLine(line, toward, scoreDualMerge)
		totalScore += score
		if !changed {
			continue
		}

		for j := 0; j < 4; j++ {
			if dir.horizontal() {
				newCells[i][j] = merged[j]
			} else {
				newCells[j][i] = merged[j]
			}
		}
	}

	return Board{cells: newCells}, totalScore
}

// getRow は指定した行を配列として返す
func (b Board) getRow(row int) [4]int {
	return b.cells[row]
}

// getCol は指定した列を配列として返す
func (b Board) getCol(col int) [4]int {
	var result [4]int
	for r := 0; r < 4; r++ {
		result[r] = b.cells[r][col]
	}
	return result
}

// mergeLine は1行/1列をマージし、結果・スコア・変化の有無を返す
// towardStart が true ならインデックス0側、false ならインデックス3側へ寄せる
// 1回の呼び出しでマージは1組まで（[A,A,B,B] のみ2組同時）
func mergeLine(line [4]int, towardStart, scoreDualMerge bool) ([4]int, int, bool) {
	// 0を除去して詰める
	store := make([]int, 0, 4)
	for _, v := range line {
		if v != 0 {
			store = append(store, v)
		}
	}

	var result [4]int
	score := 0

	switch {
	case len(store) == 1:
		// 1枚だけならマージは起きない
		if towardStart {
			result[0] = store[0]
		} else {
			result[3] = store[0]
		}
		return result, 0, result != line
	case len(store) == 0:
		return result, 0, result != line
	}

	// 右/下方向は反転して左詰めのロジックを共通化する
	if !towardStart {
		reverseInts(store)
	}

	if len(store) == 4 && store[0] == store[1] && store[2] == store[3] {
		// [A,A,B,B] は2組同時にマージ
		store = []int{store[0] * 2, store[2] * 2}
		if scoreDualMerge {
			score += store[0] + store[1]
		}
	} else {
		for i := 0; i < len(store)-1; i++ {
			if store[i] == store[i+1] {
				store[i] *= 2
				score += store[i]
				store = append(store[:i+1], store[i+2:]...)
				break
			}
		}
	}

	if !towardStart {
		reverseInts(store)
		copy(result[4-len(store):], store)
	} else {
		copy(result[:], store)
	}

	return result, score, result != line
}

// reverseInts はスライスをその場で反転する
func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// mergeable は空きマスがあるか、詰めた後に隣接する同値タイルがある行/列が存在するかを返す
func (b Board) mergeable() bool {
	if b.CountEmpty() > 0 {
		return true
	}
	for i := 0; i < 4; i++ {
		if adjacentEqual(b.getRow(i)) || adjacentEqual(b.getCol(i)) {
			return true
		}
	}
	return false
}

// adjacentEqual は0を除いた並びで隣接する同値があるかを返す
func adjacentEqual(line [4]int) bool {
	prev := 0
	for _, v := range line {
		if v == 0 {
			continue
		}
		if v == prev {
			return true
		}
		prev = v
	}
	return false
}

// IsGameOver は盤面が終局状態かどうかを返す
func (b Board) IsGameOver() bool {
	return !b.mergeable()
}

// Equal は2つのBoardが等しいかどうかを返す
func (b Board) Equal(other Board) bool {
	return b.cells == other.cells
}

// String はBoardをASCIIアートとして表示する
func (b Board) String() string {
	line := "+------+------+------+------+"
	var sb strings.Builder
	sb.WriteString(line + "\n")
	for r := 0; r < 4; r++ {
		sb.WriteString("|")
		for c := 0; c < 4; c++ {
			if b.cells[r][c] == 0 {
				sb.WriteString("      |")
			} else {
				fmt.Fprintf(&sb, "%5d |", b.cells[r][c])
			}
		}
		sb.WriteString("\n" + line + "\n")
	}
	return sb.String()
}
