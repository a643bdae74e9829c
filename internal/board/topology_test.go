package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowOffsetRoundTrip(t *testing.T) {
	for p := Position(0); p < Size; p++ {
		assert.Equal(t, p, ToPosition(RowOf(p), OffsetInRow(p)), "position %d", p)
	}
}

func TestRowOf(t *testing.T) {
	want := []int{0, 1, 1, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 4}
	for p, row := range want {
		assert.Equal(t, row, RowOf(Position(p)), "position %d", p)
	}
	assert.Equal(t, -1, RowOf(-1))
	assert.Equal(t, -1, RowOf(Size))
	assert.Equal(t, -1, OffsetInRow(Size))
}

func TestToPositionRejectsHolesOffTheBoard(t *testing.T) {
	cases := []struct{ row, offset int }{
		{-1, 0}, {0, 1}, {1, 2}, {4, 5}, {5, 0}, {2, -1},
	}
	for _, tc := range cases {
		assert.Equal(t, Invalid, ToPosition(tc.row, tc.offset), "(%d,%d)", tc.row, tc.offset)
	}
	assert.Equal(t, Position(14), ToPosition(4, 4))
}

func TestParse(t *testing.T) {
	p, err := Parse(7)
	require.NoError(t, err)
	assert.Equal(t, Position(7), p)

	for _, n := range []int{-1, 15, 100} {
		_, err := Parse(n)
		assert.ErrorIs(t, err, ErrInvalidPosition, "n=%d", n)
	}
}

func TestJumpTargets(t *testing.T) {
	assert.Equal(t, []Jump{{Over: 3, To: 6}, {Over: 4, To: 8}}, JumpTargets(1))
	assert.Equal(t, []Jump{{Over: 1, To: 3}, {Over: 2, To: 5}}, JumpTargets(0))
	// The centre hole has no room in its row or above it.
	assert.Equal(t, []Jump{{Over: 7, To: 11}, {Over: 8, To: 13}}, JumpTargets(4))
	assert.Equal(t, []Jump{{Over: 11, To: 12}, {Over: 6, To: 3}}, JumpTargets(10))
	assert.Nil(t, JumpTargets(Invalid))
}

func TestMoveTableShape(t *testing.T) {
	all := AllMoves()
	require.Len(t, all, 36)
	assert.Equal(t, len(all), MoveCount())

	seen := make(map[Move]bool, len(all))
	for _, m := range all {
		assert.False(t, seen[m], "duplicate move %v", m)
		seen[m] = true
	}

	for _, m := range all {
		assert.True(t, m.From.Valid() && m.Over.Valid() && m.To.Valid(), "%v", m)
		assert.True(t, seen[Move{From: m.To, Over: m.Over, To: m.From}], "missing reverse of %v", m)

		dr1, dc1 := RowOf(m.Over)-RowOf(m.From), OffsetInRow(m.Over)-OffsetInRow(m.From)
		dr2, dc2 := RowOf(m.To)-RowOf(m.Over), OffsetInRow(m.To)-OffsetInRow(m.Over)
		assert.Equal(t, dr1, dr2, "not evenly spaced: %v", m)
		assert.Equal(t, dc1, dc2, "not evenly spaced: %v", m)
		assert.Contains(t, []direction{{0, -1}, {0, 1}, {-1, -1}, {-1, 0}, {1, 0}, {1, 1}},
			direction{dr1, dc1}, "not an axis: %v", m)
	}
}

func TestMoveTableIsStable(t *testing.T) {
	first := AllMoves()
	assert.Equal(t, first, buildMoves())

	first[0] = Move{From: 14, Over: 14, To: 14}
	assert.NotEqual(t, first[0], AllMoves()[0], "AllMoves must not expose the shared table")
}
