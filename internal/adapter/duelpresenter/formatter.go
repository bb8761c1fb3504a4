package duelpresenter

import (
	"errors"
	"strings"

	"github.com/fatih/color"

	"github.com/park285/queenduel/internal/duel"
	"github.com/park285/queenduel/internal/msgcat"
	"github.com/park285/queenduel/internal/session"
)

const fileLabels = "  a b c d e f g h"

// Formatter renders sessions and turns into terminal text.
type Formatter struct {
	cat *msgcat.Catalog

	white  *color.Color
	black  *color.Color
	block  *color.Color
	target *color.Color
}

// NewFormatter uses cat for every message; colorize false yields plain text.
func NewFormatter(cat *msgcat.Catalog, colorize bool) *Formatter {
	f := &Formatter{
		cat:    cat,
		white:  color.New(color.FgHiWhite, color.Bold),
		black:  color.New(color.FgHiRed, color.Bold),
		block:  color.New(color.FgHiBlack),
		target: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{f.white, f.black, f.block, f.target} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Board draws rank 8 first with file and rank labels. Squares in marks are
// drawn as '*'.
func (f *Formatter) Board(b *duel.Board, marks duel.Bitboard) string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fileLabels)
	sb.WriteByte('\n')
	for rank := duel.Height - 1; rank >= 0; rank-- {
		label := string(rune('1' + rank))
		sb.WriteString(label)
		for file := 0; file < duel.Width; file++ {
			sq := duel.Square{File: file, Rank: rank}
			sb.WriteByte(' ')
			sb.WriteString(f.cell(b, sq, marks))
		}
		sb.WriteByte(' ')
		sb.WriteString(label)
		sb.WriteByte('\n')
	}
	sb.WriteString(fileLabels)
	return sb.String()
}

func (f *Formatter) cell(b *duel.Board, sq duel.Square, marks duel.Bitboard) string {
	switch {
	case sq == b.Queen(duel.White):
		return f.white.Sprint("W")
	case sq == b.Queen(duel.Black):
		return f.black.Sprint("B")
	case b.IsBlocked(sq):
		return f.block.Sprint("#")
	case marks.Has(sq):
		return f.target.Sprint("*")
	default:
		return "."
	}
}

func (f *Formatter) Banner(s *session.Session) string {
	if s == nil {
		return ""
	}
	return f.cat.Text("play.banner", map[string]any{
		"Name":  s.Name,
		"Human": s.Human.String(),
		"Trail": s.State.Rules.Trail,
	}) + "\n" + f.cat.Text("play.help", nil)
}

func (f *Formatter) Prompt(side duel.Side) string {
	return f.cat.Text("play.prompt", map[string]any{"Side": side.String()})
}

func (f *Formatter) Moves(squares []duel.Square) string {
	names := make([]string, 0, len(squares))
	for _, sq := range squares {
		names = append(names, sq.String())
	}
	return f.cat.Text("play.moves", map[string]any{"Moves": strings.Join(names, " ")})
}

// Turn lists the moves a turn made, then the outcome when it ended the game.
func (f *Formatter) Turn(t *session.Turn) string {
	if t == nil {
		return ""
	}
	var lines []string
	if t.HumanMove != nil {
		lines = append(lines, f.cat.Text("play.human_move", map[string]any{"Square": t.HumanMove.String()}))
	}
	if t.AdvisoryMove != nil {
		lines = append(lines, f.cat.Text("play.advisory_move", map[string]any{"Square": t.AdvisoryMove.String()}))
	}
	if t.Session != nil {
		if outcome := f.Outcome(t.Session, t.Status); outcome != "" {
			lines = append(lines, outcome)
		}
	}
	return strings.Join(lines, "\n")
}

// Outcome is empty while the game is running.
func (f *Formatter) Outcome(s *session.Session, status duel.Status) string {
	winner, ok := status.Winner()
	if !ok {
		return ""
	}
	data := map[string]any{"Human": s.Human.String(), "Advisory": s.Advisory().String()}
	if winner == s.Human {
		return f.cat.Text("play.won", data)
	}
	return f.cat.Text("play.lost", data)
}

// Failure explains an error from a play step.
func (f *Formatter) Failure(err error) string {
	var illegal *duel.IllegalMoveError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &illegal):
		reason := illegal.To.String()
		if illegal.Reason != "" {
			reason += " (" + illegal.Reason + ")"
		}
		return f.cat.Text("play.illegal", map[string]any{"Reason": reason})
	case errors.Is(err, duel.ErrGameOver):
		return f.cat.Text("play.game_over", nil)
	case errors.Is(err, session.ErrAdvisoryTurn):
		return f.cat.Text("play.not_waiting", nil)
	case errors.Is(err, session.ErrNotYourTurn), errors.Is(err, session.ErrAdvisoryPending):
		return f.cat.Text("play.waiting", nil)
	default:
		return f.cat.Text("play.advisory_failed", map[string]any{"Reason": err.Error()})
	}
}

func (f *Formatter) UnknownInput(input string) string {
	return f.cat.Text("play.unknown_input", map[string]any{"Input": input})
}

func (f *Formatter) Abandoned(s *session.Session) string {
	return f.cat.Text("play.bye", map[string]any{"Name": s.Name})
}
