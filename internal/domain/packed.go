package domain

import (
	"fmt"
	"math/bits"
)

// PackedBoard は盤面を64ビット整数で表現する（記録用）
// 各タイルは4ビットの指数（0=空, 1=2, 2=4, ..., 15=32768）
type PackedBoard uint64

// maxPackedExp は4ビットで表せる指数の上限
const maxPackedExp = 15

// Pack は盤面をPackedBoardに変換する
// 32768 を超えるタイルは表せないためエラーを返す
func Pack(b Board) (PackedBoard, error) {
	var pb PackedBoard
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			val := b.Get(r, c)
			if val == 0 {
				continue
			}
			if val < 2 || val&(val-1) != 0 {
				return 0, fmt.Errorf("cell (%d,%d) = %d: %w", r, c, val, ErrInvalidBoard)
			}
			// 2の何乗かを計算（2→1, 4→2, 8→3, ...）
			exp := bits.TrailingZeros(uint(val))
			if exp > maxPackedExp {
				return 0, fmt.Errorf("tile %d does not fit in a packed board: %w", val, ErrInvalidBoard)
			}
			pb.setExp(r, c, exp)
		}
	}
	return pb, nil
}

// Unpack はPackedBoardを通常のBoardに変換する
func (pb PackedBoard) Unpack() Board {
	var cells [4][4]int
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if exp := pb.exp(r, c); exp > 0 {
				cells[r][c] = 1 << exp
			}
		}
	}
	return NewBoardFromCells(cells)
}

// exp は指定位置のタイル値（指数）を取得
func (pb PackedBoard) exp(row, col int) int {
	shift := (row*4 + col) * 4
	return int((pb >> shift) & 0xF)
}

// setExp は指定位置にタイル値（指数）を設定
func (pb *PackedBoard) setExp(row, col, exp int) {
	shift := (row*4 + col) * 4
	mask := ^(PackedBoard(0xF) << shift)
	*pb = (*pb & mask) | (PackedBoard(exp) << shift)
}
