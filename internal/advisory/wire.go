// Package advisory talks to a remote move-selection service over HTTP and
// also provides that service. The wire format packs the board into two
// square indexes, a decimal block bitboard and the turn owner.
package advisory

import (
	"errors"
	"fmt"

	"github.com/park285/queenduel/internal/duel"
)

type StateRepr struct {
	WQueen      int    `json:"wqueen"`
	BQueen      int    `json:"bqueen"`
	Blocks      string `json:"blocks"`
	IsWhiteTurn bool   `json:"is_white_turn"`
}

type Request struct {
	StateRepr StateRepr `json:"state_repr"`
}

// Response carries the chosen destination index. MoveMade is a pointer so a
// missing field can be told apart from square 0.
type Response struct {
	MoveMade *int `json:"move_made"`
	Code     int  `json:"code,omitempty"`
}

var errMissingMove = errors.New("response has no move_made")

// Encode packs the board for the wire.
func Encode(b *duel.Board) Request {
	return Request{StateRepr: StateRepr{
		WQueen:      b.Queen(duel.White).Index(),
		BQueen:      b.Queen(duel.Black).Index(),
		Blocks:      b.Blocks().String(),
		IsWhiteTurn: b.WhiteToMove(),
	}}
}

// Board rebuilds a board from the wire form, validating indexes and layout.
func (s StateRepr) Board(opts ...duel.Option) (*duel.Board, error) {
	white, err := duel.SquareAt(s.WQueen)
	if err != nil {
		return nil, fmt.Errorf("%w: wqueen: %v", duel.ErrInvalidLayout, err)
	}
	black, err := duel.SquareAt(s.BQueen)
	if err != nil {
		return nil, fmt.Errorf("%w: bqueen: %v", duel.ErrInvalidLayout, err)
	}
	blocks, err := duel.ParseBitboardDecimal(s.Blocks)
	if err != nil {
		return nil, fmt.Errorf("%w: blocks: %v", duel.ErrInvalidLayout, err)
	}
	return duel.NewBoard(white, black, blocks, s.IsWhiteTurn, opts...)
}

// DecodeMove unpacks the destination square. It does not check legality.
func DecodeMove(resp Response) (duel.Square, error) {
	if resp.MoveMade == nil {
		return duel.Square{}, errMissingMove
	}
	return duel.SquareAt(*resp.MoveMade)
}
