package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/queenduel/internal/duel"
)

// Advisor picks the opposing move. *advisory.Client satisfies it.
type Advisor interface {
	Suggest(ctx context.Context, b *duel.Board) (duel.Square, error)
}

const defaultAdvisoryTimeout = 10 * time.Second

type Manager struct {
	store   Store
	advisor Advisor
	rules   duel.Rules
	logger  *zap.Logger

	advisoryTimeout time.Duration
}

type Option func(*Manager)

func WithRules(r duel.Rules) Option { return func(m *Manager) { m.rules = r } }

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithAdvisoryTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.advisoryTimeout = d
		}
	}
}

func NewManager(store Store, advisor Advisor, opts ...Option) *Manager {
	m := &Manager{
		store:           store,
		advisor:         advisor,
		logger:          zap.NewNop(),
		advisoryTimeout: defaultAdvisoryTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartOptions describes a new game. Board overrides the layout; otherwise
// RandomBlocks picks between the default and a random opening.
type StartOptions struct {
	Human        duel.Side
	RandomBlocks bool
	Rand         *rand.Rand
	Board        *duel.Board
}

// Start stores a new session. When the advisory side moves first its move
// is requested before returning.
func (m *Manager) Start(ctx context.Context, opts StartOptions) (*Turn, error) {
	board := opts.Board
	switch {
	case board != nil:
		board = board.Clone()
	case opts.RandomBlocks:
		board = duel.Random(opts.Rand, duel.WithRules(m.rules))
	default:
		board = duel.Default(duel.WithRules(m.rules))
	}
	if status := board.Status(); status.Terminal() {
		return nil, fmt.Errorf("%w: starting position is already decided (%s)", duel.ErrInvalidLayout, status)
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.New(),
		Name:      petname.Generate(2, "-"),
		Human:     opts.Human,
		State:     board.State(),
		Moves:     []int{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if board.SideToMove() != s.Human {
		s.AdvisoryPending = true
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Info("duel_session_start",
		zap.String("session_id", s.ID.String()),
		zap.String("name", s.Name),
		zap.String("human", s.Human.String()),
		zap.Bool("trail", board.Rules().Trail))

	turn := &Turn{Session: s, Status: duel.Ongoing}
	if !s.AdvisoryPending {
		return turn, nil
	}
	return m.exchange(ctx, s, turn)
}

func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Destinations lists the human's legal squares. It fails when the human is
// not the side to move.
func (m *Manager) Destinations(ctx context.Context, id uuid.UUID) ([]duel.Square, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.Board()
	if err != nil {
		return nil, err
	}
	if s.AdvisoryPending || b.SideToMove() != s.Human {
		return nil, ErrNotYourTurn
	}
	return b.LegalDestinations(s.Human)
}

// Play applies the human's move and, if the game goes on, one advisory reply.
// When the advisory exchange fails the human move stays applied: the
// returned Turn carries it together with the error, and Advise retries.
func (m *Manager) Play(ctx context.Context, id uuid.UUID, dst duel.Square) (*Turn, error) {
	s, err := m.store.Update(ctx, id, func(s *Session) error {
		if s.AdvisoryPending {
			return ErrAdvisoryPending
		}
		b, err := s.Board()
		if err != nil {
			return err
		}
		if b.Status().Terminal() {
			return duel.ErrGameOver
		}
		if b.SideToMove() != s.Human {
			return ErrNotYourTurn
		}
		if err := b.ApplyMove(dst); err != nil {
			return err
		}
		s.State = b.State()
		s.Moves = append(s.Moves, dst.Index())
		s.AdvisoryPending = !b.Status().Terminal()
		return nil
	})
	if err != nil {
		return nil, err
	}

	human := dst
	turn := &Turn{Session: s, HumanMove: &human, Status: duel.Ongoing}
	m.logger.Debug("duel_human_move",
		zap.String("session_id", id.String()),
		zap.String("square", dst.String()))

	if !s.AdvisoryPending {
		return m.finish(ctx, turn)
	}
	return m.exchange(ctx, s, turn)
}

// Advise requests the advisory move for a session whose last exchange failed.
func (m *Manager) Advise(ctx context.Context, id uuid.UUID) (*Turn, error) {
	s, err := m.store.Update(ctx, id, func(s *Session) error {
		if s.AdvisoryPending {
			return ErrAdvisoryPending
		}
		b, err := s.Board()
		if err != nil {
			return err
		}
		if b.Status().Terminal() {
			return duel.ErrGameOver
		}
		if b.SideToMove() != s.Advisory() {
			return ErrAdvisoryTurn
		}
		s.AdvisoryPending = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.exchange(ctx, s, &Turn{Session: s, Status: duel.Ongoing})
}

// End drops a session without finishing the game.
func (m *Manager) End(ctx context.Context, id uuid.UUID) error {
	if _, err := m.store.Get(ctx, id); err != nil {
		return err
	}
	m.logger.Info("duel_session_end", zap.String("session_id", id.String()))
	return m.store.Delete(ctx, id)
}

// exchange runs one advisory request for s, which must already be marked
// pending. No store lock is held while waiting.
func (m *Manager) exchange(ctx context.Context, s *Session, turn *Turn) (*Turn, error) {
	b, err := s.Board()
	if err != nil {
		return turn, m.clearPending(ctx, turn, err)
	}

	actx, cancel := context.WithTimeout(ctx, m.advisoryTimeout)
	sq, err := m.advisor.Suggest(actx, b)
	cancel()
	if err != nil {
		m.logger.Warn("duel_advisory_failed", zap.String("session_id", s.ID.String()), zap.Error(err))
		return turn, m.clearPending(ctx, turn, err)
	}

	updated, err := m.store.Update(ctx, s.ID, func(cur *Session) error {
		cur.AdvisoryPending = false
		b, err := cur.Board()
		if err != nil {
			return err
		}
		if err := b.ApplyMove(sq); err != nil {
			return err
		}
		cur.State = b.State()
		cur.Moves = append(cur.Moves, sq.Index())
		return nil
	})
	if err != nil {
		m.logger.Warn("duel_advisory_rejected", zap.String("session_id", s.ID.String()), zap.String("square", sq.Key()), zap.Error(err))
		return turn, m.clearPending(ctx, turn, err)
	}

	turn.Session = updated
	turn.AdvisoryMove = &sq
	m.logger.Debug("duel_advisory_move",
		zap.String("session_id", s.ID.String()),
		zap.String("square", sq.String()))
	return m.finish(ctx, turn)
}

// clearPending drops the pending flag after a failed exchange and returns
// cause, joined with any store error. turn.Session is refreshed on success.
func (m *Manager) clearPending(ctx context.Context, turn *Turn, cause error) error {
	s, err := m.store.Update(ctx, turn.Session.ID, func(s *Session) error {
		s.AdvisoryPending = false
		return nil
	})
	if err != nil {
		return errors.Join(cause, fmt.Errorf("clear advisory flag: %w", err))
	}
	turn.Session = s
	return cause
}

// finish fills in the status and deletes the session once the game is over.
func (m *Manager) finish(ctx context.Context, turn *Turn) (*Turn, error) {
	b, err := turn.Session.Board()
	if err != nil {
		return turn, err
	}
	turn.Status = b.Status()
	if !turn.Status.Terminal() {
		return turn, nil
	}
	m.logger.Info("duel_session_finished",
		zap.String("session_id", turn.Session.ID.String()),
		zap.String("status", turn.Status.String()),
		zap.Int("plies", len(turn.Session.Moves)))
	if err := m.store.Delete(ctx, turn.Session.ID); err != nil {
		m.logger.Warn("failed to delete finished duel session", zap.Error(err))
	}
	return turn, nil
}
