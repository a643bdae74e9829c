// internal/board/topology.go
//
// Fixed geometry of the 15-hole triangular board.
//
//	         0
//	        1 2
//	       3 4 5
//	      6 7 8 9
//	    10 11 12 13 14
//
// Positions are numbered row-major, top to bottom and left to right. In
// (row, offset) coordinates a hole touches six neighbours: left/right in its
// row, up-left/up in the row above, down/down-right in the row below. A jump
// travels two steps along one of those axes.
//
// The move table is built once at package init and is shared by every board.
// It lists each physical jump twice, once from each end, because a jump is
// directional: the player selects the source and clicks the destination.

package board

import (
	"errors"
	"slices"
)

const (
	// Size is the number of holes on the board.
	Size = 15
	// Rows is the number of rows in the triangle.
	Rows = 5
)

// Position indexes one hole, 0..Size-1.
type Position int

// Invalid marks a (row, offset) pair that addresses no hole.
const Invalid Position = -1

// ErrInvalidPosition is returned when input does not name a hole.
var ErrInvalidPosition = errors.New("invalid position")

var rowStarts = [Rows]int{0, 1, 3, 6, 10}

// Valid reports whether p is on the board.
func (p Position) Valid() bool { return p >= 0 && p < Size }

// Parse converts an untrusted integer into a Position.
func Parse(n int) (Position, error) {
	p := Position(n)
	if !p.Valid() {
		return Invalid, ErrInvalidPosition
	}
	return p, nil
}

// RowOf returns the row containing p, or -1 when p is off the board.
func RowOf(p Position) int {
	if !p.Valid() {
		return -1
	}
	for r := Rows - 1; r >= 0; r-- {
		if int(p) >= rowStarts[r] {
			return r
		}
	}
	return -1
}

// OffsetInRow returns p's 0-based offset within its row, or -1 when p is
// off the board.
func OffsetInRow(p Position) int {
	r := RowOf(p)
	if r < 0 {
		return -1
	}
	return int(p) - rowStarts[r]
}

// RowLen is the number of holes in row r.
func RowLen(r int) int { return r + 1 }

// ToPosition is the inverse of RowOf/OffsetInRow.
func ToPosition(row, offset int) Position {
	if row < 0 || row >= Rows || offset < 0 || offset >= RowLen(row) {
		return Invalid
	}
	return Position(rowStarts[row] + offset)
}

// Jump is the (over, to) half of a move starting at a known position.
type Jump struct {
	Over Position
	To   Position
}

// Move is a directional jump triple.
type Move struct {
	From Position
	Over Position
	To   Position
}

type direction struct{ dr, dc int }

var (
	horizontal = []direction{{0, -1}, {0, 1}}
	apexward   = []direction{{-1, -1}, {-1, 0}}
	baseward   = []direction{{1, 0}, {1, 1}}
)

// JumpTargets lists every (over, to) pair reachable from p by a two-step
// jump along one axis, ignoring occupancy.
func JumpTargets(p Position) []Jump {
	row, off := RowOf(p), OffsetInRow(p)
	if row < 0 {
		return nil
	}

	dirs := slices.Clone(horizontal)
	if row > 1 {
		dirs = append(dirs, apexward...)
	}
	if row < Rows-2 {
		dirs = append(dirs, baseward...)
	}

	var out []Jump
	for _, d := range dirs {
		over := ToPosition(row+d.dr, off+d.dc)
		to := ToPosition(row+2*d.dr, off+2*d.dc)
		if over != Invalid && to != Invalid {
			out = append(out, Jump{Over: over, To: to})
		}
	}
	return out
}

var moves = buildMoves()

func buildMoves() []Move {
	var out []Move
	for p := Position(0); p < Size; p++ {
		for _, j := range JumpTargets(p) {
			out = append(out, Move{From: p, Over: j.Over, To: j.To})
		}
	}
	return out
}

// AllMoves returns a copy of the move table.
func AllMoves() []Move { return slices.Clone(moves) }

// MoveCount is the length of the move table.
func MoveCount() int { return len(moves) }
