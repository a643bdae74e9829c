// internal/board/board.go
//
// Occupancy vector for one game. Board is a value type: copying a Board
// copies its holes.

package board

// StartEmpty is the hole left open at the start of a game.
const StartEmpty Position = 0

// Board records which holes hold a peg.
type Board [Size]bool

// Initial returns a full board with only StartEmpty open.
func Initial() Board {
	var b Board
	for i := range b {
		b[i] = true
	}
	b[StartEmpty] = false
	return b
}

// Occupied reports whether p holds a peg. p must be valid.
func (b *Board) Occupied(p Position) bool { return b[p] }

// PegCount returns the number of pegs left.
func (b *Board) PegCount() int {
	n := 0
	for _, peg := range b {
		if peg {
			n++
		}
	}
	return n
}

// CanJump reports whether m is legal on the current occupancy.
func (b *Board) CanJump(m Move) bool {
	return b[m.From] && b[m.Over] && !b[m.To]
}

// ApplyJump executes m without checking it. Callers must check CanJump first.
func (b *Board) ApplyJump(m Move) {
	b[m.From] = false
	b[m.Over] = false
	b[m.To] = true
}

// FindJump returns the legal move from -> to, if any. A (from, to) pair has
// at most one midpoint, so there is never more than one candidate.
func (b *Board) FindJump(from, to Position) (Move, bool) {
	for _, m := range moves {
		if m.From == from && m.To == to && b.CanJump(m) {
			return m, true
		}
	}
	return Move{}, false
}

// Targets lists the landing holes of every legal jump from p, in move table
// order.
func (b *Board) Targets(from Position) []Position {
	var out []Position
	for _, m := range moves {
		if m.From == from && b.CanJump(m) {
			out = append(out, m.To)
		}
	}
	return out
}

// HasLegalMove reports whether any jump is possible.
func (b *Board) HasLegalMove() bool {
	for _, m := range moves {
		if b.CanJump(m) {
			return true
		}
	}
	return false
}
