// internal/game/engine.go
//
// State machine for a single peg solitaire game.
// Responsibilities:
//   - Track the board, the selected peg, and a status message.
//   - Apply clicks: select, deselect, switch selection, or jump.
//   - Derive legal landing spots and game-over on every read.
//
// Notes:
//   - Every exported method holds e.mu for its whole body, so one engine
//     only ever runs one read-modify-write at a time.
//   - Game over is recomputed from the board on each snapshot; the board is
//     the only thing that can change it.
package game

import (
	"sync"

	"github.com/robalobadob/pegsolitaire/internal/board"
)

// Engine owns one board and one selection.
type Engine struct {
	mu       sync.Mutex
	board    board.Board
	selected board.Position
	message  string
	jumps    int
}

// New constructs an engine at the starting position.
func New() *Engine {
	e := &Engine{}
	e.restart(msgSelectPeg)
	return e
}

// Click applies a click on p and returns the resulting state.
//
// Transitions, with S the current selection:
//   - no S, p empty           → NeedPeg
//   - no S, p peg             → Selected / SelectedStuck (S = p)
//   - p == S                  → Deselected
//   - legal jump S→p          → Jumped (S cleared)
//   - no jump, p peg          → Switched (S = p)
//   - no jump, p empty        → Invalid
//
// Callers validate p at the boundary; an off-board p is reported as Invalid
// and leaves board and selection alone.
func (e *Engine) Click(p board.Position) (Snapshot, Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.click(p)
	return e.snapshot(), out
}

// Reset puts the game back at the starting position.
func (e *Engine) Reset() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.restart(msgRestarted)
	return e.snapshot()
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) click(p board.Position) Outcome {
	if !p.Valid() {
		e.message = msgInvalid
		return OutcomeInvalid
	}

	if e.selected == board.Invalid {
		if !e.board.Occupied(p) {
			e.message = msgNeedPeg
			return OutcomeNeedPeg
		}
		e.selected = p
		if len(e.board.Targets(p)) == 0 {
			e.message = msgStuck
			return OutcomeSelectedStuck
		}
		e.message = msgSelected
		return OutcomeSelected
	}

	if p == e.selected {
		e.selected = board.Invalid
		e.message = msgSelectPeg
		return OutcomeDeselected
	}

	if m, ok := e.board.FindJump(e.selected, p); ok {
		e.board.ApplyJump(m)
		e.selected = board.Invalid
		e.jumps++
		e.message = msgGoodMove
		return OutcomeJumped
	}

	if e.board.Occupied(p) {
		e.selected = p
		e.message = msgSelected
		return OutcomeSwitched
	}
	e.message = msgInvalid
	return OutcomeInvalid
}

func (e *Engine) restart(msg string) {
	e.board = board.Initial()
	e.selected = board.Invalid
	e.jumps = 0
	e.message = msg
}

// gameOver: one peg left, or nothing can jump.
func (e *Engine) gameOver() bool {
	return e.board.PegCount() == 1 || !e.board.HasLegalMove()
}

func (e *Engine) validTargets() []board.Position {
	if e.selected == board.Invalid {
		return []board.Position{}
	}
	t := e.board.Targets(e.selected)
	if t == nil {
		return []board.Position{}
	}
	return t
}

func (e *Engine) snapshot() Snapshot {
	targets := e.validTargets()
	s := Snapshot{
		Selected:     e.selected,
		Message:      e.message,
		GameOver:     e.gameOver(),
		PegCount:     e.board.PegCount(),
		Jumps:        e.jumps,
		ValidTargets: targets,
	}
	for i := range s.Pegs {
		p := board.Position(i)
		s.Pegs[i] = PegView{
			HasPeg:     e.board.Occupied(p),
			IsSelected: p == e.selected,
		}
	}
	for _, t := range targets {
		s.Pegs[t].IsValidTarget = true
	}
	return s
}
