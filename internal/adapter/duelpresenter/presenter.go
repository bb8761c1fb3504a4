package duelpresenter

import (
	"strings"

	"github.com/park285/queenduel/internal/duel"
)

// Presenter delivers formatted text without coupling to the command layer.
type Presenter struct {
	send func(message string) error
	f    *Formatter
}

func NewPresenter(send func(message string) error, f *Formatter) *Presenter {
	return &Presenter{send: send, f: f}
}

func (p *Presenter) Formatter() *Formatter { return p.f }

// Say sends message unless it is blank.
func (p *Presenter) Say(message string) error {
	if p == nil || p.send == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	return p.send(message)
}

// Board sends message followed by the drawn board.
func (p *Presenter) Board(message string, b *duel.Board, marks duel.Bitboard) error {
	if p == nil {
		return nil
	}
	if err := p.Say(message); err != nil {
		return err
	}
	if b == nil {
		return nil
	}
	return p.Say(p.f.Board(b, marks))
}
