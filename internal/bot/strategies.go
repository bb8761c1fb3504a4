package bot

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/park285/queenduel/internal/duel"
)

func noMove(b *duel.Board) error {
	if b.Status().Terminal() {
		return duel.ErrGameOver
	}
	return nil
}

// Random plays a uniformly chosen legal destination.
type Random struct {
	rand *lockedRand
}

// NewRandom seeds from src, or from the clock when src is nil.
func NewRandom(src rand.Source) *Random {
	return &Random{rand: newLockedRand(src)}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Decide(b *duel.Board) (duel.Square, error) {
	dests, err := b.LegalDestinations(b.SideToMove())
	if err != nil {
		return duel.Square{}, err
	}
	return dests[r.rand.Intn(len(dests))], nil
}

// Basic runs a fixed-depth alpha-beta search over mobility.
type Basic struct {
	depth int
}

func NewBasic(depth int) *Basic {
	if depth < 1 {
		depth = 1
	}
	return &Basic{depth: depth}
}

func (b *Basic) Name() string { return fmt.Sprintf("basic%d", b.depth) }

func (b *Basic) Depth() int { return b.depth }

func (b *Basic) Decide(board *duel.Board) (duel.Square, error) {
	if err := noMove(board); err != nil {
		return duel.Square{}, err
	}
	_, best, ok, _ := alphaBeta(board, b.depth, -infinity, infinity, true)
	if !ok {
		return duel.Square{}, duel.ErrGameOver
	}
	return best, nil
}

// Adaptive searches with a node budget of 2^(level+4), going deeper where the
// tree is narrow.
type Adaptive struct {
	level  int
	budget uint64
}

func NewAdaptive(level int) (*Adaptive, error) {
	if level < 1 || level > 59 {
		return nil, fmt.Errorf("%w: adapt level %d out of range", ErrUnknownBot, level)
	}
	return &Adaptive{level: level, budget: 1 << uint(level+4)}, nil
}

func (a *Adaptive) Name() string { return fmt.Sprintf("adapt%d", a.level) }

func (a *Adaptive) Budget() uint64 { return a.budget }

func (a *Adaptive) Decide(board *duel.Board) (duel.Square, error) {
	if err := noMove(board); err != nil {
		return duel.Square{}, err
	}
	_, best, ok, _, _ := budgetSearch(board, a.budget, -infinity, infinity, true)
	if !ok {
		return duel.Square{}, duel.ErrGameOver
	}
	return best, nil
}

// Weak mixes depth-one and depth-two play. With percent p it takes the
// depth-two move with probability sqrt(p/100).
type Weak struct {
	percent int
	rand    *lockedRand
}

func NewWeak(percent int, src rand.Source) (*Weak, error) {
	if percent < 1 || percent > 100 {
		return nil, fmt.Errorf("%w: weak level %d out of range", ErrUnknownBot, percent)
	}
	return &Weak{percent: percent, rand: newLockedRand(src)}, nil
}

func (w *Weak) Name() string { return fmt.Sprintf("weak%d", w.percent) }

func (w *Weak) Level() float64 { return float64(w.percent) / 100 }

func (w *Weak) Decide(board *duel.Board) (duel.Square, error) {
	if err := noMove(board); err != nil {
		return duel.Square{}, err
	}
	depth := 1
	if w.rand.Float64() < math.Sqrt(w.Level()) {
		depth = 2
	}
	_, best, ok, _ := alphaBeta(board, depth, -infinity, infinity, true)
	if !ok {
		return duel.Square{}, duel.ErrGameOver
	}
	return best, nil
}
