package duel

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Width      = 8
	Height     = 8
	TotalCells = Width * Height
)

// Square is a board coordinate. File and Rank are both in [0,8).
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func (s Square) Valid() bool {
	return s.File >= 0 && s.File < Width && s.Rank >= 0 && s.Rank < Height
}

// Index packs the square as file + rank*8.
func (s Square) Index() int {
	return s.File + s.Rank*Width
}

// SquareAt is the inverse of Index.
func SquareAt(index int) (Square, error) {
	if index < 0 || index >= TotalCells {
		return Square{}, fmt.Errorf("square index %d out of range", index)
	}
	return Square{File: index % Width, Rank: index / Width}, nil
}

// Key renders the "file,rank" form.
func (s Square) Key() string {
	return strconv.Itoa(s.File) + "," + strconv.Itoa(s.Rank)
}

func (s Square) String() string {
	if !s.Valid() {
		return "(" + s.Key() + ")"
	}
	return string(rune('a'+s.File)) + strconv.Itoa(s.Rank+1)
}

// ParseSquare accepts algebraic ("e4") or key ("4,3") notation.
func ParseSquare(raw string) (Square, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if file, rank, ok := strings.Cut(v, ","); ok {
		f, ferr := strconv.Atoi(strings.TrimSpace(file))
		r, rerr := strconv.Atoi(strings.TrimSpace(rank))
		if ferr != nil || rerr != nil {
			return Square{}, fmt.Errorf("invalid square %q", raw)
		}
		sq := Square{File: f, Rank: r}
		if !sq.Valid() {
			return Square{}, fmt.Errorf("square %q off board", raw)
		}
		return sq, nil
	}
	if len(v) != 2 || v[0] < 'a' || v[0] > 'h' || v[1] < '1' || v[1] > '8' {
		return Square{}, fmt.Errorf("invalid square %q", raw)
	}
	return Square{File: int(v[0] - 'a'), Rank: int(v[1] - '1')}, nil
}

type Side uint8

const (
	White Side = iota
	Black
)

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

func (s Side) Opposite() Side {
	if s == White {
		return Black
	}
	return White
}

// ParseSide understands white/w and black/b.
func ParseSide(raw string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return White, fmt.Errorf("unknown side %q", raw)
	}
}
