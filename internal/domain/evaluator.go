package domain

// Evaluator はBoardを評価してスコアを返すインターフェース
type Evaluator interface {
	Evaluate(b Board) float64
}

// WeightedEvaluator は複数のEvaluatorを係数付きで組み合わせる
type WeightedEvaluator struct {
	evaluators []Evaluator
	weights    []float64
}

// NewWeightedEvaluator は係数付きEvaluatorを生成する
func NewWeightedEvaluator(evaluators []Evaluator, weights []float64) *WeightedEvaluator {
	return &WeightedEvaluator{
		evaluators: evaluators,
		weights:    weights,
	}
}

// Evaluate は全てのEvaluatorの重み付き和を返す
func (w *WeightedEvaluator) Evaluate(b Board) float64 {
	score := 0.0
	for i, ev := range w.evaluators {
		score += w.weights[i] * ev.Evaluate(b)
	}
	return score
}

// HeuristicWeights は静的評価の各項の係数
// 全て1のとき、各項をそのまま足し合わせた評価になる
type HeuristicWeights struct {
	Empty        float64
	Corner       float64
	Positional   float64
	Smoothness   float64
	Monotonicity float64
}

// DefaultHeuristicWeights は全ての項を係数1で足し合わせる重みを返す
func DefaultHeuristicWeights() HeuristicWeights {
	return HeuristicWeights{
		Empty:        1,
		Corner:       1,
		Positional:   1,
		Smoothness:   1,
		Monotonicity: 1,
	}
}

// NewHeuristicEvaluator は5項からなる静的評価関数を生成する
func NewHeuristicEvaluator(w HeuristicWeights) *WeightedEvaluator {
	return NewWeightedEvaluator(
		[]Evaluator{
			&EmptyCellsEvaluator{},
			&CornerBonusEvaluator{},
			&PositionalEvaluator{},
			&SmoothnessEvaluator{},
			&MonotonicityEvaluator{},
		},
		[]float64{w.Empty, w.Corner, w.Positional, w.Smoothness, w.Monotonicity},
	)
}

// EmptyCellsEvaluator は空きマス数で評価する
type EmptyCellsEvaluator struct{}

func (e *EmptyCellsEvaluator) Evaluate(b Board) float64 {
	return float64(b.CountEmpty())
}

// MaxTileCredit は最大タイルが角にあるかどうかで加減する値
const MaxTileCredit = 10e3

// CornerBonusEvaluator は最大タイルが左上の角にあれば +MaxTileCredit、なければ -MaxTileCredit
type CornerBonusEvaluator struct{}

func (e *CornerBonusEvaluator) Evaluate(b Board) float64 {
	if b.Get(0, 0) == b.MaxTile() {
		return MaxTileCredit
	}
	return -MaxTileCredit
}

// WeightMatrix は左上の角から離れるほど小さくなる位置の重み
var WeightMatrix = [4][4]int{
	{2048, 1024, 64, 32},
	{512, 128, 16, 2},
	{256, 8, 2, 1},
	{4, 2, 1, 1},
}

// PositionalEvaluator はタイル値とWeightMatrixの積の総和で評価する
type PositionalEvaluator struct{}

func (e *PositionalEvaluator) Evaluate(b Board) float64 {
	sum := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			sum += b.Get(r, c) * WeightMatrix[r][c]
		}
	}
	return float64(sum)
}

// SmoothnessEvaluator は上下左右に隣接するセルの差の絶対値の総和を返す
// 空きマスも0として扱う
type SmoothnessEvaluator struct{}

func (e *SmoothnessEvaluator) Evaluate(b Board) float64 {
	sum := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 3; c++ {
			sum += absInt(b.Get(r, c) - b.Get(r, c+1))
		}
	}
	for c := 0; c < 4; c++ {
		for r := 0; r < 3; r++ {
			sum += absInt(b.Get(r, c) - b.Get(r+1, c))
		}
	}
	return float64(sum)
}

// MonotonicityEvaluator は各行・各列で隣接セルの差分の符号が反転する回数を返す
// 差分が0の箇所は飛ばし、直前の0でない差分と比べる
type MonotonicityEvaluator struct{}

func (e *MonotonicityEvaluator) Evaluate(b Board) float64 {
	changes := 0
	for i := 0; i < 4; i++ {
		changes += signChanges(b.getRow(i))
		changes += signChanges(b.getCol(i))
	}
	return float64(changes)
}

func signChanges(line [4]int) int {
	n, prev := 0, 0
	for i := 0; i < 3; i++ {
		d := line[i+1] - line[i]
		if d == 0 {
			continue
		}
		if prev != 0 && (d > 0) != (prev > 0) {
			n++
		}
		prev = d
	}
	return n
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
