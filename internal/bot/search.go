package bot

import (
	"github.com/park285/queenduel/internal/duel"
)

const infinity = 1e6

// evaluate scores a board from white's point of view: a decided game is worth
// ±infinity, otherwise the mobility difference.
func evaluate(b *duel.Board) float64 {
	switch b.Status() {
	case duel.WhiteWins:
		return infinity
	case duel.BlackWins:
		return -infinity
	}
	return float64(b.Mobility(duel.White) - b.Mobility(duel.Black))
}

// discount pulls a child score toward zero so quicker wins and slower losses
// are preferred.
func discount(v float64) float64 {
	if v > 0 {
		return v - 0.01
	}
	return v + 0.01
}

func destinations(b *duel.Board) []duel.Square {
	mask, err := b.LegalMask(b.SideToMove())
	if err != nil {
		return nil
	}
	return mask.Squares()
}

func child(b *duel.Board, dst duel.Square) *duel.Board {
	c := b.Clone()
	_ = c.ApplyMove(dst)
	return c
}

// choice tracks the best move seen at one node. Moves whose subtree was cut
// off are only used if nothing else is available.
type choice struct {
	maximizing bool
	value      float64
	best       duel.Square
	found      bool
	fallback   duel.Square
	hasAny     bool
}

func newChoice(b *duel.Board) choice {
	c := choice{maximizing: b.WhiteToMove(), value: infinity}
	if c.maximizing {
		c.value = -infinity
	}
	return c
}

func (c *choice) offer(dst duel.Square, v float64, pruned bool, alpha, beta *float64) {
	better := v <= c.value
	if c.maximizing {
		better = v >= c.value
	}
	if better {
		c.value = v
		if !pruned {
			c.best, c.found = dst, true
		}
		c.fallback, c.hasAny = dst, true
	}
	if c.maximizing {
		*alpha = max(*alpha, v)
	} else {
		*beta = min(*beta, v)
	}
}

func (c *choice) move() (duel.Square, bool) {
	if c.found {
		return c.best, true
	}
	return c.fallback, c.hasAny
}

// alphaBeta searches depth plies with alpha-beta pruning. The root always
// expands, leaves are scored with evaluate.
func alphaBeta(b *duel.Board, depth int, alpha, beta float64, root bool) (float64, duel.Square, bool, bool) {
	if !root && (depth <= 0 || b.Status().Terminal()) {
		return evaluate(b), duel.Square{}, false, false
	}
	c := newChoice(b)
	pruned := false
	for _, dst := range destinations(b) {
		v, _, _, childPruned := alphaBeta(child(b, dst), depth-1, alpha, beta, false)
		c.offer(dst, discount(v), childPruned, &alpha, &beta)
		if beta <= alpha {
			pruned = true
			break
		}
	}
	best, ok := c.move()
	return c.value, best, ok, pruned
}

// budgetSearch is alphaBeta with a node budget instead of a depth: each node
// costs one unit and splits what is left evenly among the children still to
// be searched, so unspent budget flows to later siblings. Children are taken
// in descending index order.
func budgetSearch(b *duel.Board, budget uint64, alpha, beta float64, root bool) (float64, duel.Square, bool, uint64, bool) {
	if !root && (budget == 0 || b.Status().Terminal()) {
		return evaluate(b), duel.Square{}, false, budget, false
	}
	remaining := budget
	if remaining > 0 {
		remaining--
	}
	c := newChoice(b)
	pruned := false
	dests := destinations(b)
	for i := len(dests) - 1; i >= 0; i-- {
		share := remaining / uint64(i+1)
		v, _, _, cost, childPruned := budgetSearch(child(b, dests[i]), share, alpha, beta, false)
		remaining -= cost
		c.offer(dests[i], discount(v), childPruned, &alpha, &beta)
		if beta <= alpha {
			pruned = true
			break
		}
	}
	best, ok := c.move()
	return c.value, best, ok, budget - remaining, pruned
}
