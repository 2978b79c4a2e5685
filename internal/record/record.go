// Package record はゲーム結果をタスクごとのログファイルに追記する
package record

import (
	"time"

	"gopkg.in/mgo.v2/bson"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
)

// Record は1ゲーム分の結果
type Record struct {
	ID       bson.ObjectId `bson:"_id,omitempty"`
	Task     string        `bson:"task"`
	Agent    string        `bson:"agent"`
	Score    int           `bson:"score"`
	BestTile int           `bson:"best_tile"`
	Steps    int           `bson:"steps"`
	// Elapsed はゲーム全体にかかった秒数
	Elapsed float64 `bson:"elapsed"`
	// Board は終局盤面（domain.PackedBoard のビット列）
	Board      int64     `bson:"board"`
	FinishedAt time.Time `bson:"finished_at"`
}

// Writer は結果を1件ずつ追記する
type Writer interface {
	Append(rec Record) error
}

// New は終局した盤面から Record を作る
func New(task, agent string, score, steps int, elapsed time.Duration, board domain.Board) (Record, error) {
	packed, err := domain.Pack(board)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Task:       task,
		Agent:      agent,
		Score:      score,
		BestTile:   board.MaxTile(),
		Steps:      steps,
		Elapsed:    elapsed.Seconds(),
		Board:      int64(packed),
		FinishedAt: time.Now().UTC(),
	}, nil
}

// FinalBoard は記録された終局盤面を返す
func (r Record) FinalBoard() domain.Board {
	return domain.PackedBoard(uint64(r.Board)).Unpack()
}
