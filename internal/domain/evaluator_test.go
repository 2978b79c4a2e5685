package domain

import (
	"testing"
)

func TestEmptyCellsEvaluator(t *testing.T) {
	ev := &EmptyCellsEvaluator{}

	board := NewBoardFromCells([4][4]int{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	score := ev.Evaluate(board)
	if score != 15 {
		t.Errorf("expected 15 empty cells, got %f", score)
	}
}

func TestCornerBonusEvaluator(t *testing.T) {
	ev := &CornerBonusEvaluator{}

	// 左上の角に最大値
	cornerBoard := NewBoardFromCells([4][4]int{
		{16, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if ev.Evaluate(cornerBoard) != MaxTileCredit {
		t.Errorf("expected corner bonus %v", MaxTileCredit)
	}

	// 角以外に最大値
	nonCornerBoard := NewBoardFromCells([4][4]int{
		{2, 16, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if ev.Evaluate(nonCornerBoard) != -MaxTileCredit {
		t.Errorf("expected corner penalty %v", -MaxTileCredit)
	}

	// 左上以外の角は対象外
	otherCorner := NewBoardFromCells([4][4]int{
		{2, 0, 0, 16},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	if ev.Evaluate(otherCorner) != -MaxTileCredit {
		t.Errorf("expected corner penalty %v", -MaxTileCredit)
	}
}

func TestPositionalEvaluator(t *testing.T) {
	ev := &PositionalEvaluator{}

	board := NewBoardFromCells([4][4]int{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 4},
	})
	if got := ev.Evaluate(board); got != 2*2048+4*1 {
		t.Errorf("expected %d, got %f", 2*2048+4, got)
	}

	// 角に近いほど高評価
	near := NewBoard().Set(0, 0, 64)
	far := NewBoard().Set(3, 3, 64)
	if ev.Evaluate(near) <= ev.Evaluate(far) {
		t.Error("expected tile near the corner to score higher")
	}
}

func TestSmoothnessEvaluator(t *testing.T) {
	ev := &SmoothnessEvaluator{}

	board := NewBoardFromCells([4][4]int{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	// 右隣と下隣との差がそれぞれ2
	if got := ev.Evaluate(board); got != 4 {
		t.Errorf("expected 4, got %f", got)
	}

	flat := NewBoardFromCells([4][4]int{
		{8, 8, 8, 8},
		{8, 8, 8, 8},
		{8, 8, 8, 8},
		{8, 8, 8, 8},
	})
	if got := ev.Evaluate(flat); got != 0 {
		t.Errorf("expected 0 for a flat board, got %f", got)
	}
}

func TestMonotonicityEvaluator(t *testing.T) {
	ev := &MonotonicityEvaluator{}

	tests := []struct {
		name  string
		cells [4][4]int
		want  float64
	}{
		{
			name:  "monotone row",
			cells: [4][4]int{{2, 4, 8, 16}},
			want:  0,
		},
		{
			name:  "zigzag row",
			cells: [4][4]int{{2, 8, 4, 16}},
			want:  2,
		},
		{
			name:  "plateau does not count",
			cells: [4][4]int{{4, 4, 2, 2}},
			want:  0,
		},
		{
			name:  "plateau between opposite slopes",
			cells: [4][4]int{{2, 4, 4, 2}},
			// 差分 +2, 0, -2 → 0を飛ばして1回
			want: 1,
		},
		{
			name: "zigzag column",
			cells: [4][4]int{
				{2, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 0, 0, 0},
				{0, 0, 0, 0},
			},
			// 列: +6, -4, -4 → 1回、行1: [8,0,0,0] → 0、行0: [2,0,0,0] → 0
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ev.Evaluate(NewBoardFromCells(tt.cells)); got != tt.want {
				t.Errorf("Evaluate() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestHeuristicEvaluator(t *testing.T) {
	board := NewBoardFromCells([4][4]int{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	ev := NewHeuristicEvaluator(DefaultHeuristicWeights())
	// 空き15 + 角10000 + 位置4096 + 滑らかさ4 + 単調性0
	if got := ev.Evaluate(board); got != 15+10000+4096+4 {
		t.Errorf("expected %d, got %f", 15+10000+4096+4, got)
	}

	w := DefaultHeuristicWeights()
	w.Smoothness = -1
	w.Corner = 0
	ev = NewHeuristicEvaluator(w)
	if got := ev.Evaluate(board); got != 15+4096-4 {
		t.Errorf("expected %d, got %f", 15+4096-4, got)
	}
}
