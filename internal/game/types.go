// internal/game/types.go
//
// Core type definitions for the peg solitaire engine.
// Defines:
//   - Outcome: machine-readable result of a click.
//   - PegView / Snapshot: the read-only view handed to transports.

package game

import "github.com/robalobadob/pegsolitaire/internal/board"

// Outcome classifies what a click did. Transports and metrics branch on
// Outcome; the status message is display text only.
type Outcome string

const (
	OutcomeNeedPeg       Outcome = "need_peg"       // empty hole clicked with nothing selected
	OutcomeSelected      Outcome = "selected"       // peg selected, it has at least one jump
	OutcomeSelectedStuck Outcome = "selected_stuck" // peg selected, it has no jump
	OutcomeDeselected    Outcome = "deselected"     // selected peg clicked again
	OutcomeJumped        Outcome = "jumped"         // jump executed
	OutcomeSwitched      Outcome = "switched"       // selection moved to another peg
	OutcomeInvalid       Outcome = "invalid"        // empty hole that is not a legal landing spot
)

// Status messages.
const (
	msgSelectPeg = "Select a peg to move"
	msgRestarted = "Game restarted. Select a peg to move."
	msgNeedPeg   = "You need to select a peg first."
	msgSelected  = "Peg selected. Click an empty spot to jump."
	msgStuck     = "This peg has no valid moves. Try another one."
	msgGoodMove  = "Good move! Select another peg."
	msgInvalid   = "Invalid move. Try a different spot."
)

// PegView is the per-hole rendering state.
type PegView struct {
	HasPeg        bool
	IsSelected    bool
	IsValidTarget bool
}

// Snapshot is a point-in-time copy of an engine's state.
type Snapshot struct {
	Selected     board.Position // board.Invalid when nothing is selected
	Message      string
	GameOver     bool
	PegCount     int
	Jumps        int // jumps since the last reset
	Pegs         [board.Size]PegView
	ValidTargets []board.Position // never nil
}

// HasSelection reports whether a peg is selected.
func (s Snapshot) HasSelection() bool { return s.Selected != board.Invalid }
