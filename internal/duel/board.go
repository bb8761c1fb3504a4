// Package duel holds the queen duel rules: board state, legal destinations,
// turn order and terminal detection. It does no I/O and is not safe for
// concurrent mutation; callers that share a Board must serialize access.
package duel

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

var (
	// DefaultWhite and DefaultBlack are the starting queen squares (e1, d8).
	DefaultWhite = Square{File: 4, Rank: 0}
	DefaultBlack = Square{File: 3, Rank: 7}
)

const randomBlockCount = 7

// compass order: N, NE, E, SE, S, SW, W, NW
var directions = [8][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

var (
	rays      [TotalCells][8][]Square
	queenMask [TotalCells]Bitboard
)

func init() {
	for i := 0; i < TotalCells; i++ {
		from := Square{File: i % Width, Rank: i / Width}
		for d, dir := range directions {
			for step := 1; ; step++ {
				sq := Square{File: from.File + dir[0]*step, Rank: from.Rank + dir[1]*step}
				if !sq.Valid() {
					break
				}
				rays[i][d] = append(rays[i][d], sq)
				queenMask[i] |= BitOf(sq)
			}
		}
	}
}

// QueenMask is the set of squares a queen on sq attacks on an empty board.
func QueenMask(sq Square) Bitboard {
	if !sq.Valid() {
		return 0
	}
	return queenMask[sq.Index()]
}

// Rules selects optional rule variants.
type Rules struct {
	// Trail blocks the square a queen moves away from.
	Trail bool `json:"trail,omitempty"`
}

type Option func(*Board)

func WithRules(r Rules) Option { return func(b *Board) { b.rules = r } }

// WithTrail enables the trail variant: every move leaves the vacated square blocked.
func WithTrail() Option { return func(b *Board) { b.rules.Trail = true } }

type Status uint8

const (
	Ongoing Status = iota
	WhiteWins
	BlackWins
)

func (s Status) String() string {
	switch s {
	case WhiteWins:
		return "white-wins"
	case BlackWins:
		return "black-wins"
	default:
		return "ongoing"
	}
}

func (s Status) Terminal() bool { return s != Ongoing }

// Winner reports the winning side of a terminal status.
func (s Status) Winner() (Side, bool) {
	switch s {
	case WhiteWins:
		return White, true
	case BlackWins:
		return Black, true
	default:
		return White, false
	}
}

// Board is the authoritative game state. The zero value is not usable; build
// one with NewBoard, Default, Random, FromState or ParseLayout.
type Board struct {
	white             Square
	black             Square
	blocks            Bitboard
	whiteToMove       bool
	firstMoverIsWhite bool
	ply               int
	rules             Rules
}

// NewBoard validates the layout but does not check that either side can
// move. Callers building custom layouts must guarantee that themselves.
func NewBoard(white, black Square, blocks Bitboard, whiteToMove bool, opts ...Option) (*Board, error) {
	switch {
	case !white.Valid():
		return nil, fmt.Errorf("%w: white queen off board at %s", ErrInvalidLayout, white.Key())
	case !black.Valid():
		return nil, fmt.Errorf("%w: black queen off board at %s", ErrInvalidLayout, black.Key())
	case white == black:
		return nil, fmt.Errorf("%w: queens share %s", ErrInvalidLayout, white)
	case blocks.Has(white):
		return nil, fmt.Errorf("%w: white queen on blocked square %s", ErrInvalidLayout, white)
	case blocks.Has(black):
		return nil, fmt.Errorf("%w: black queen on blocked square %s", ErrInvalidLayout, black)
	}
	b := &Board{
		white:             white,
		black:             black,
		blocks:            blocks,
		whiteToMove:       whiteToMove,
		firstMoverIsWhite: whiteToMove,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Default is the standard opening: queens on e1 and d8, no blocks, white first.
func Default(opts ...Option) *Board {
	b, _ := NewBoard(DefaultWhite, DefaultBlack, 0, true, opts...)
	return b
}

// Random scatters blocks over the default layout, re-rolling until both
// sides have at least one move.
func Random(r *rand.Rand, opts ...Option) *Board {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for {
		var blocks Bitboard
		for i := 0; i < randomBlockCount; i++ {
			blocks |= 1 << uint(r.Intn(TotalCells))
		}
		blocks = blocks.Remove(DefaultWhite).Remove(DefaultBlack)
		b, _ := NewBoard(DefaultWhite, DefaultBlack, blocks, true, opts...)
		if b.Mobility(White) > 0 && b.Mobility(Black) > 0 {
			return b
		}
	}
}

func (b *Board) Queen(side Side) Square {
	if side == White {
		return b.white
	}
	return b.black
}

func (b *Board) Blocks() Bitboard { return b.blocks }

func (b *Board) IsBlocked(sq Square) bool { return b.blocks.Has(sq) }

func (b *Board) WhiteToMove() bool { return b.whiteToMove }

func (b *Board) SideToMove() Side {
	if b.whiteToMove {
		return White
	}
	return Black
}

func (b *Board) FirstMoverIsWhite() bool { return b.firstMoverIsWhite }

// Ply counts accepted moves since construction.
func (b *Board) Ply() int { return b.ply }

func (b *Board) Rules() Rules { return b.rules }

func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// reach scans the eight rays from the side's queen, stopping before the
// first blocked or occupied square on each.
func (b *Board) reach(side Side) Bitboard {
	from := b.Queen(side)
	occupied := b.blocks | BitOf(b.white) | BitOf(b.black)
	var out Bitboard
	for _, ray := range rays[from.Index()] {
		for _, sq := range ray {
			if occupied.Has(sq) {
				break
			}
			out |= BitOf(sq)
		}
	}
	return out
}

// Mobility counts the side's reachable squares without checking for a
// finished game.
func (b *Board) Mobility(side Side) int {
	return b.reach(side).Count()
}

// Status is derived on demand: the side to move loses when it has no destination.
func (b *Board) Status() Status {
	if !b.reach(b.SideToMove()).Empty() {
		return Ongoing
	}
	if b.whiteToMove {
		return BlackWins
	}
	return WhiteWins
}

// LegalMask returns the side's destinations as a set.
func (b *Board) LegalMask(side Side) (Bitboard, error) {
	if b.Status().Terminal() {
		return 0, ErrGameOver
	}
	return b.reach(side), nil
}

// LegalDestinations lists the side's destinations in ascending index order.
func (b *Board) LegalDestinations(side Side) ([]Square, error) {
	mask, err := b.LegalMask(side)
	if err != nil {
		return nil, err
	}
	return mask.Squares(), nil
}

// ApplyMove moves the side to move to dst and passes the turn. It either
// applies fully or returns an error without touching the board.
func (b *Board) ApplyMove(dst Square) error {
	side := b.SideToMove()
	legal := b.reach(side)
	if legal.Empty() {
		return ErrGameOver
	}
	if !legal.Has(dst) {
		return &IllegalMoveError{Side: side, To: dst, Reason: b.rejectReason(dst)}
	}

	if b.rules.Trail {
		b.blocks = b.blocks.Add(b.Queen(side))
	}
	if side == White {
		b.white = dst
	} else {
		b.black = dst
	}
	b.whiteToMove = !b.whiteToMove
	b.ply++
	return nil
}

func (b *Board) rejectReason(dst Square) string {
	switch {
	case !dst.Valid():
		return "off board"
	case b.blocks.Has(dst):
		return "blocked"
	case dst == b.white || dst == b.black:
		return "occupied"
	default:
		return "no clear line"
	}
}

// State is a plain snapshot of a Board.
type State struct {
	White             Square   `json:"white"`
	Black             Square   `json:"black"`
	Blocks            Bitboard `json:"blocks,string"`
	WhiteToMove       bool     `json:"white_to_move"`
	FirstMoverIsWhite bool     `json:"first_mover_is_white"`
	Ply               int      `json:"ply"`
	Rules             Rules    `json:"rules"`
}

func (b *Board) State() State {
	return State{
		White:             b.white,
		Black:             b.black,
		Blocks:            b.blocks,
		WhiteToMove:       b.whiteToMove,
		FirstMoverIsWhite: b.firstMoverIsWhite,
		Ply:               b.ply,
		Rules:             b.rules,
	}
}

func FromState(s State) (*Board, error) {
	b, err := NewBoard(s.White, s.Black, s.Blocks, s.WhiteToMove, WithRules(s.Rules))
	if err != nil {
		return nil, err
	}
	if s.Ply < 0 {
		return nil, fmt.Errorf("%w: negative ply %d", ErrInvalidLayout, s.Ply)
	}
	b.firstMoverIsWhite = s.FirstMoverIsWhite
	b.ply = s.Ply
	return b, nil
}

// String draws the board rank 8 first: W and B for queens, # for blocks.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := Height - 1; rank >= 0; rank-- {
		for file := 0; file < Width; file++ {
			sb.WriteByte(b.glyph(Square{File: file, Rank: rank}))
		}
		if rank > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (b *Board) glyph(sq Square) byte {
	switch {
	case sq == b.white:
		return 'W'
	case sq == b.black:
		return 'B'
	case b.blocks.Has(sq):
		return '#'
	default:
		return '.'
	}
}
