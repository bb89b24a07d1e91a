// internal/board/board.go
//
// Bitboard model for the 5x5 letter grid.
// Responsibilities:
//   - Fixed neighbour table (cell plus up/down/left/right neighbours).
//   - Defended-cell, centroid and bit-count primitives over 25-bit maps.
//   - Packed (blue, red) keys for map lookups.
//
// Cells are numbered 0..24 row-major: row = i / 5, col = i % 5.
package board

import (
	"math"
	"math/bits"
)

const (
	// Size is the width and height of the grid.
	Size = 5
	// Cells is the number of cells on the grid.
	Cells = Size * Size
	// Full has one bit set per cell.
	Full uint32 = 1<<Cells - 1
)

// neighbors[i] has bit i and the bits of its in-grid neighbours set.
// ex: cell 7 -> 7,2,12,6,8 -> 4548; cell 0 -> 0,1,5 -> 35.
var neighbors = [Cells]uint32{
	35, 71, 142, 284, 536, 1121, 2274, 4548, 9096, 17168, 35872, 72768, 145536, 291072, 549376,
	1147904, 2328576, 4657152, 9314304, 17580032, 3178496, 7405568, 14811136, 29622272, 25690112,
}

// Neighbors returns the neighbour mask of cell i, including i itself.
func Neighbors(i int) uint32 { return neighbors[i] }

// Bit returns the mask with only cell i set.
func Bit(i int) uint32 { return 1 << uint(i) }

// IsDefended reports whether m owns cell i and every neighbour of it.
func IsDefended(m uint32, i int) bool {
	return m&neighbors[i] == neighbors[i]
}

// DefendedMap returns the defended cells of m.
func DefendedMap(m uint32) uint32 {
	var def uint32
	for i := 0; i < Cells; i++ {
		if m&neighbors[i] == neighbors[i] {
			def |= 1 << uint(i)
		}
	}
	return def
}

// BitCount counts the cells set in m.
func BitCount(m uint32) int { return bits.OnesCount32(m & Full) }

// Vector is a point on the grid in (col, row) coordinates.
type Vector struct {
	X float64
	Y float64
}

// Center is the middle of the grid, used when a map has no cells.
var Center = Vector{X: 2, Y: 2}

// Centroid returns the mean position of the cells in m, or Center if m is empty.
func Centroid(m uint32) Vector {
	cnt, xsum, ysum := 0, 0, 0
	for i := 0; i < Cells; i++ {
		if m&(1<<uint(i)) != 0 {
			xsum += i % Size
			ysum += i / Size
			cnt++
		}
	}
	if cnt == 0 {
		return Center
	}
	return Vector{X: float64(xsum) / float64(cnt), Y: float64(ysum) / float64(cnt)}
}

// Distance is the euclidean distance between two grid points.
func Distance(a, b Vector) float64 {
	return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y))
}

// PackKey combines two 25-bit maps into one key.
func PackKey(blue, red uint32) uint64 {
	return uint64(blue)<<Cells | uint64(red)
}

// UnpackKey splits a key made by PackKey.
func UnpackKey(key uint64) (blue, red uint32) {
	return uint32(key >> Cells), uint32(key & uint64(Full))
}
