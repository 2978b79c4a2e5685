package domain

import "errors"

var (
	// ErrInvalidConfig はゲーム/エージェント設定が不正な場合のエラー
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidBoard は盤面に2の累乗以外の値が含まれる場合のエラー
	ErrInvalidBoard = errors.New("invalid board")
	// ErrNoMoves は合法手が存在しない場合のエラー
	ErrNoMoves = errors.New("no available moves")
)
