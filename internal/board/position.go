package board

import (
	"errors"
	"strconv"
	"strings"
)

// Position is the ownership state of the grid.
// Blue and Red never share a cell; the defended maps are derived from them.
type Position struct {
	Blue    uint32
	Red     uint32
	BlueDef uint32
	RedDef  uint32
}

// NewPosition builds a Position and derives the defended maps.
func NewPosition(blue, red uint32) Position {
	blue &= Full
	red &= Full &^ blue
	return Position{Blue: blue, Red: red, BlueDef: DefendedMap(blue), RedDef: DefendedMap(red)}
}

// Zeros returns the unclaimed cells.
func (p Position) Zeros() uint32 { return Full &^ (p.Blue | p.Red) }

// Full reports whether every cell is claimed.
func (p Position) Full() bool { return BitCount(p.Blue|p.Red) == Cells }

// Decode reads a colour string into a Position.
//
// 'B' and 'R' (either case) claim the next cell. A digit n repeats the previous
// character n-1 more times, so "B5" is five blue cells and "W3" three unclaimed
// ones. Any other character is an unclaimed cell. Input past 25 cells is ignored.
func Decode(colors string) Position {
	var blue, red uint32
	i := 0
	prev := byte('W')
	for k := 0; k < len(colors) && i < Cells; k++ {
		c := colors[k]
		switch {
		case c == 'B' || c == 'b':
			blue |= 1 << uint(i)
			prev = 'B'
			i++
		case c == 'R' || c == 'r':
			red |= 1 << uint(i)
			prev = 'R'
			i++
		case c >= '0' && c <= '9':
			for d := 1; d < int(c-'0'); d++ {
				if i < Cells {
					switch prev {
					case 'R':
						red |= 1 << uint(i)
					case 'B':
						blue |= 1 << uint(i)
					}
				}
				i++
			}
		default:
			prev = 'W'
			i++
		}
	}
	return NewPosition(blue, red)
}

// Colors renders maps as one character per cell: 'B'/'R' defended,
// 'b'/'r' owned, 'w' unclaimed.
func Colors(blue, red uint32) string {
	var sb strings.Builder
	sb.Grow(Cells)
	for i := 0; i < Cells; i++ {
		bit := uint32(1) << uint(i)
		switch {
		case blue&neighbors[i] == neighbors[i]:
			sb.WriteByte('B')
		case red&neighbors[i] == neighbors[i]:
			sb.WriteByte('R')
		case blue&bit != 0:
			sb.WriteByte('b')
		case red&bit != 0:
			sb.WriteByte('r')
		default:
			sb.WriteByte('w')
		}
	}
	return sb.String()
}

// Reduce run-length encodes a colour string in the format Decode reads.
// Runs of one or two cells are written out, longer runs as the character and
// a count, split into chunks of at most nine.
func Reduce(colors string) string {
	var sb strings.Builder
	for k := 0; k < len(colors); {
		c := colors[k]
		n := 1
		for k+n < len(colors) && colors[k+n] == c {
			n++
		}
		k += n
		for n > 0 {
			chunk := min(n, 9)
			switch chunk {
			case 1:
				sb.WriteByte(c)
			case 2:
				sb.WriteByte(c)
				sb.WriteByte(c)
			default:
				sb.WriteByte(c)
				sb.WriteString(strconv.Itoa(chunk))
			}
			n -= chunk
		}
	}
	return sb.String()
}

// Side is the player to move.
type Side int8

const (
	Blue Side = 1
	Red  Side = -1
)

// ErrBadSide is returned by ParseSide for unknown input.
var ErrBadSide = errors.New("side must be blue or red")

// Opposite returns the other player.
func (s Side) Opposite() Side { return -s }

// Sign is +1 for blue and -1 for red; scores are from blue's point of view.
func (s Side) Sign() float64 { return float64(s) }

func (s Side) String() string {
	if s == Red {
		return "red"
	}
	return "blue"
}

// MarshalText encodes a side as "blue" or "red".
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts anything ParseSide does.
func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSide accepts "blue"/"red", "b"/"r" or "1"/"-1".
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "blue", "b", "1", "+1":
		return Blue, nil
	case "red", "r", "-1":
		return Red, nil
	}
	return 0, ErrBadSide
}

// Own returns the map of side s in p.
func (p Position) Own(s Side) uint32 {
	if s == Red {
		return p.Red
	}
	return p.Blue
}

// Defended returns the defended map of side s in p.
func (p Position) Defended(s Side) uint32 {
	if s == Red {
		return p.RedDef
	}
	return p.BlueDef
}

// Targets are the cells side s can still take: the opponent's undefended
// cells plus unclaimed ones.
func (p Position) Targets(s Side) uint32 {
	if s == Red {
		return (p.Blue &^ p.BlueDef) | p.Zeros()
	}
	return (p.Red &^ p.RedDef) | p.Zeros()
}

// Capture claims the cells in mask for side s. Cells the opponent defends
// are left alone.
func (p Position) Capture(mask uint32, s Side) Position {
	if s == Red {
		take := mask &^ p.BlueDef
		p.Red |= take
		p.Blue &^= take
		return p
	}
	take := mask &^ p.RedDef
	p.Blue |= take
	p.Red &^= take
	return p
}
