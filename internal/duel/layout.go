package duel

import (
	"fmt"
	"strings"
)

// gridRows returns the eight 8-character rows of a drawn board, rank 8
// first. Blank lines and surrounding indentation are ignored.
func gridRows(text string) ([]string, error) {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		row := strings.TrimSpace(line)
		if row == "" {
			continue
		}
		if len(row) != Width {
			return nil, fmt.Errorf("%w: row %q is not %d squares wide", ErrInvalidLayout, row, Width)
		}
		rows = append(rows, row)
	}
	if len(rows) != Height {
		return nil, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidLayout, Height, len(rows))
	}
	return rows, nil
}

// ParseBitboard reads a grid of '#' (set) and '.' (clear).
func ParseBitboard(text string) (Bitboard, error) {
	rows, err := gridRows(text)
	if err != nil {
		return 0, err
	}
	var b Bitboard
	for i, row := range rows {
		rank := Height - 1 - i
		for file := 0; file < Width; file++ {
			switch row[file] {
			case '#':
				b = b.Add(Square{File: file, Rank: rank})
			case '.':
			default:
				return 0, fmt.Errorf("%w: unexpected %q in bitboard", ErrInvalidLayout, row[file])
			}
		}
	}
	return b, nil
}

// ParseLayout reads a drawn board as produced by Board.String.
func ParseLayout(text string, whiteToMove bool, opts ...Option) (*Board, error) {
	rows, err := gridRows(text)
	if err != nil {
		return nil, err
	}
	var (
		white, black     Square
		hasWhite, hasBlk bool
		blocks           Bitboard
	)
	for i, row := range rows {
		rank := Height - 1 - i
		for file := 0; file < Width; file++ {
			sq := Square{File: file, Rank: rank}
			switch row[file] {
			case 'W':
				if hasWhite {
					return nil, fmt.Errorf("%w: more than one white queen", ErrInvalidLayout)
				}
				white, hasWhite = sq, true
			case 'B':
				if hasBlk {
					return nil, fmt.Errorf("%w: more than one black queen", ErrInvalidLayout)
				}
				black, hasBlk = sq, true
			case '#':
				blocks = blocks.Add(sq)
			case '.':
			default:
				return nil, fmt.Errorf("%w: unexpected %q in layout", ErrInvalidLayout, row[file])
			}
		}
	}
	if !hasWhite || !hasBlk {
		return nil, fmt.Errorf("%w: both queens must be placed", ErrInvalidLayout)
	}
	return NewBoard(white, black, blocks, whiteToMove, opts...)
}
