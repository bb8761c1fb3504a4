package advisory

import (
	"context"
	"fmt"

	"github.com/park285/queenduel/internal/bot"
	"github.com/park285/queenduel/internal/duel"
)

// Local answers suggestions in-process from a bot, for offline play.
type Local struct {
	bot bot.Bot
}

func NewLocal(b bot.Bot) *Local { return &Local{bot: b} }

func (l *Local) Suggest(ctx context.Context, b *duel.Board) (duel.Square, error) {
	if b.Status().Terminal() {
		return duel.Square{}, duel.ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return duel.Square{}, &UnavailableError{Err: err}
	}
	sq, err := l.bot.Decide(b.Clone())
	if err != nil {
		return duel.Square{}, &UnavailableError{Err: fmt.Errorf("%s: %w", l.bot.Name(), err)}
	}
	return sq, nil
}
