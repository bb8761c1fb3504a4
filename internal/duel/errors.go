package duel

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrGameOver      = fmt.Errorf("%w: game is over", ErrIllegalMove)
	ErrInvalidLayout = errors.New("invalid board layout")
)

// IllegalMoveError reports a destination outside the mover's legal set.
type IllegalMoveError struct {
	Side   Side
	To     Square
	Reason string
}

func (e *IllegalMoveError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("illegal move: %s queen cannot reach %s", e.Side, e.To)
	}
	return fmt.Sprintf("illegal move: %s queen cannot reach %s (%s)", e.Side, e.To, e.Reason)
}

func (e *IllegalMoveError) Unwrap() error { return ErrIllegalMove }
