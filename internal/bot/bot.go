// Package bot contains move-selection strategies for queen duels. Bots only
// read boards through the duel accessors and never mutate the board they are
// given.
package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/park285/queenduel/internal/duel"
)

var (
	ErrUnknownBot = errors.New("unknown bot")
	ErrNoResult   = errors.New("game reached the ply limit without a winner")
)

// Bot picks a destination for the side to move. Implementations are safe for
// concurrent use.
type Bot interface {
	Name() string
	Decide(b *duel.Board) (duel.Square, error)
}

// lockedRand serializes access to a math/rand source shared between games.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(src rand.Source) *lockedRand {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(src)}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Parse maps a roster name to a bot: random, basicN, adaptN or weakN.
func Parse(name string) (Bot, error) {
	name = strings.TrimSpace(name)
	if name == "random" {
		return NewRandom(nil), nil
	}
	for _, prefix := range []string{"basic", "adapt", "weak"} {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBot, name)
		}
		switch prefix {
		case "basic":
			return NewBasic(n), nil
		case "adapt":
			return NewAdaptive(n)
		default:
			return NewWeak(n, nil)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBot, name)
}

// ParseAll resolves every name, failing on the first unknown one.
func ParseAll(names []string) ([]Bot, error) {
	out := make([]Bot, 0, len(names))
	for _, name := range names {
		b, err := Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// maxFightPlies bounds games under static blocks, where neither queen may
// ever be boxed in.
const maxFightPlies = 400

// Fight plays white against black from start until one side is boxed in.
// start is not modified. ErrNoResult is returned with an Ongoing status when
// the ply limit is hit.
func Fight(white, black Bot, start *duel.Board) (duel.Status, error) {
	b := start.Clone()
	for ply := 0; ; ply++ {
		if status := b.Status(); status.Terminal() {
			return status, nil
		}
		if ply >= maxFightPlies {
			return duel.Ongoing, ErrNoResult
		}
		mover := white
		if !b.WhiteToMove() {
			mover = black
		}
		dst, err := mover.Decide(b)
		if err != nil {
			return duel.Ongoing, fmt.Errorf("%s decide: %w", mover.Name(), err)
		}
		if err := b.ApplyMove(dst); err != nil {
			return duel.Ongoing, fmt.Errorf("%s played %s: %w", mover.Name(), dst, err)
		}
	}
}
