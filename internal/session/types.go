// Package session runs human-versus-advisory games. Each session owns one
// board; every mutation goes through Store.Update so concurrent callers see a
// consistent game, and at most one advisory request is outstanding per game.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/park285/queenduel/internal/duel"
)

var (
	ErrSessionNotFound = errors.New("duel session not found")
	ErrSessionExists   = errors.New("duel session already exists")
	ErrAdvisoryPending = errors.New("advisory move already pending")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrAdvisoryTurn    = errors.New("it is the human's turn")
)

// Session is the stored form of a live game.
type Session struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Human           duel.Side  `json:"human"`
	State           duel.State `json:"state"`
	Moves           []int      `json:"moves"`
	AdvisoryPending bool       `json:"advisory_pending"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (s *Session) Board() (*duel.Board, error) {
	return duel.FromState(s.State)
}

// Advisory is the side the remote service plays.
func (s *Session) Advisory() duel.Side { return s.Human.Opposite() }

func (s *Session) clone() *Session {
	c := *s
	c.Moves = append([]int(nil), s.Moves...)
	return &c
}

// Turn reports what one Play, Advise or Start call did.
type Turn struct {
	Session      *Session
	HumanMove    *duel.Square
	AdvisoryMove *duel.Square
	Status       duel.Status
}

// Finished reports whether the game ended; the session is gone from the store.
func (t *Turn) Finished() bool { return t.Status.Terminal() }
