package domain

import "lukechampine.com/frand"

// Agent は盤面から次の手を選ぶ
// 合法手がない状態で呼ばないこと（呼び出し側が IsLost を確認する）
type Agent interface {
	GetMove(state *GameState) Direction
}

// RandomMove は合法手から一様に1手を選ぶ
// 合法手がない場合は Left を返す
func RandomMove(state *GameState, rng Rand) Direction {
	moves := state.AvailableMoves()
	if len(moves) == 0 {
		return Left
	}
	return moves[rng.Intn(len(moves))]
}

// RandomAgent は合法手からランダムに選ぶ
type RandomAgent struct {
	rng Rand
}

// NewRandomAgent は RandomAgent を生成する。rng が nil なら frand を使う
func NewRandomAgent(rng Rand) *RandomAgent {
	if rng == nil {
		rng = frand.New()
	}
	return &RandomAgent{rng: rng}
}

func (a *RandomAgent) GetMove(state *GameState) Direction {
	return RandomMove(state, a.rng)
}

// RandomWalkAgent は確率 prob で完全ランダム、それ以外は左上の角へ寄せる手（Left/Up）から選ぶ
type RandomWalkAgent struct {
	prob float64
	rng  Rand
}

// NewRandomWalkAgent は RandomWalkAgent を生成する
func NewRandomWalkAgent(prob float64, rng Rand) *RandomWalkAgent {
	if rng == nil {
		rng = frand.New()
	}
	return &RandomWalkAgent{prob: prob, rng: rng}
}

func (a *RandomWalkAgent) GetMove(state *GameState) Direction {
	if a.rng.Float64() < a.prob {
		return RandomMove(state, a.rng)
	}

	corner := make([]Direction, 0, 2)
	for _, m := range state.AvailableMoves() {
		if m == Left || m == Up {
			corner = append(corner, m)
		}
	}
	if len(corner) == 0 {
		return RandomMove(state, a.rng)
	}
	return corner[a.rng.Intn(len(corner))]
}
