package duel

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Bitboard is a 64-bit square set; bit i stands for the square with Index i.
type Bitboard uint64

func BitOf(s Square) Bitboard { return 1 << uint(s.Index()) }

// BitboardOf builds a set from squares. Off-board squares are ignored.
func BitboardOf(squares ...Square) Bitboard {
	var b Bitboard
	for _, s := range squares {
		if s.Valid() {
			b |= BitOf(s)
		}
	}
	return b
}

func (b Bitboard) Has(s Square) bool { return s.Valid() && b&BitOf(s) != 0 }

func (b Bitboard) Add(s Square) Bitboard { return b | BitOf(s) }

func (b Bitboard) Remove(s Square) Bitboard { return b &^ BitOf(s) }

func (b Bitboard) Empty() bool { return b == 0 }

func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

// Squares lists members in ascending index order.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.Count())
	for bb := uint64(b); bb != 0; bb &= bb - 1 {
		i := bits.TrailingZeros64(bb)
		out = append(out, Square{File: i % Width, Rank: i / Width})
	}
	return out
}

// Nth returns the n-th member in ascending index order.
func (b Bitboard) Nth(n int) (Square, bool) {
	if n < 0 {
		return Square{}, false
	}
	bb := uint64(b)
	for ; n > 0 && bb != 0; n-- {
		bb &= bb - 1
	}
	if bb == 0 {
		return Square{}, false
	}
	i := bits.TrailingZeros64(bb)
	return Square{File: i % Width, Rank: i / Width}, true
}

// String is the base-10 form used on the wire.
func (b Bitboard) String() string {
	return strconv.FormatUint(uint64(b), 10)
}

func ParseBitboardDecimal(raw string) (Bitboard, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse bitboard: %w", err)
	}
	return Bitboard(v), nil
}

// Dump draws the set as an 8x8 grid, rank 8 first.
func (b Bitboard) Dump() string {
	var sb strings.Builder
	for rank := Height - 1; rank >= 0; rank-- {
		for file := 0; file < Width; file++ {
			if b.Has(Square{File: file, Rank: rank}) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if rank > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
