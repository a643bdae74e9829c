package httpserver

import (
	"github.com/robalobadob/pegsolitaire/internal/board"
	"github.com/robalobadob/pegsolitaire/internal/game"
)

// renderPosition is where the client draws a hole, in board-relative units.
type renderPosition struct {
	Top  int `json:"top"`
	Left int `json:"left"`
}

type pegDTO struct {
	HasPeg        bool           `json:"hasPeg"`
	Position      renderPosition `json:"position"`
	IsSelected    bool           `json:"isSelected"`
	IsValidTarget bool           `json:"isValidTarget"`
}

type snapshotDTO struct {
	SelectedPeg      *int     `json:"selectedPeg"`
	Message          string   `json:"message"`
	IsGameOver       bool     `json:"isGameOver"`
	CountPegs        int      `json:"countPegs"`
	Jumps            int      `json:"jumps"`
	Pegs             []pegDTO `json:"pegs"`
	ValidMoveTargets []int    `json:"validMoveTargets"`
}

// layout places each hole: rows 40 apart starting at 20, holes 20 apart and
// centred on 50.
var layout = func() [board.Size]renderPosition {
	var out [board.Size]renderPosition
	for i := range out {
		p := board.Position(i)
		row, off := board.RowOf(p), board.OffsetInRow(p)
		out[i] = renderPosition{Top: 20 + 40*row, Left: 50 - 10*row + 20*off}
	}
	return out
}()

func toSnapshotDTO(s game.Snapshot) snapshotDTO {
	dto := snapshotDTO{
		Message:          s.Message,
		IsGameOver:       s.GameOver,
		CountPegs:        s.PegCount,
		Jumps:            s.Jumps,
		Pegs:             make([]pegDTO, len(s.Pegs)),
		ValidMoveTargets: make([]int, len(s.ValidTargets)),
	}
	if s.HasSelection() {
		sel := int(s.Selected)
		dto.SelectedPeg = &sel
	}
	for i, pv := range s.Pegs {
		dto.Pegs[i] = pegDTO{
			HasPeg:        pv.HasPeg,
			Position:      layout[i],
			IsSelected:    pv.IsSelected,
			IsValidTarget: pv.IsValidTarget,
		}
	}
	for i, t := range s.ValidTargets {
		dto.ValidMoveTargets[i] = int(t)
	}
	return dto
}
