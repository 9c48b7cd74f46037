package bot

import (
	"github.com/mcoot/vstetris/internal/model"
	"github.com/mcoot/vstetris/internal/services/board"
	"github.com/mcoot/vstetris/internal/services/rotation"
)

// Placement is where a bot wants the active piece: clockwise turns from its
// current orientation and the anchor column to hard drop from
type Placement struct {
	Rotations int
	X         int
}

// Candidate is a reachable placement and the board it would leave behind
type Candidate struct {
	Placement
	Landing model.Position
	Result  *model.Board
	Cleared int
}

// Strategy defines how a bot chooses where to put the active piece
type Strategy interface {
	// ChoosePlacement selects a placement for the state's active piece
	ChoosePlacement(state *model.GameState) Placement
}

// Candidates enumerates every orientation and column the active piece can be
// dropped from without a collision at its current height. Wall kicks are not
// considered.
func Candidates(state *model.GameState) []Candidate {
	if state.Active == nil {
		return nil
	}

	turns := 4
	if state.Active.Type == model.PieceO {
		turns = 1
	}

	var out []Candidate
	cells := state.Active.Cells
	for r := 0; r < turns; r++ {
		if r > 0 {
			cells = rotation.RotateCells(cells, rotation.CW)
		}
		piece := &model.Piece{Type: state.Active.Type, Rotation: r, Cells: cells}
		for x := -piece.Size(); x < state.Board.Width; x++ {
			start := model.Position{X: x, Y: state.Pos.Y}
			if board.Collides(state.Board, piece, start) {
				continue
			}
			landing := board.Ghost(state.Board, piece, start)
			result := state.Board.Clone()
			board.Merge(result, piece, landing)
			cleared := board.Sweep(result)
			out = append(out, Candidate{
				Placement: Placement{Rotations: r, X: x},
				Landing:   landing,
				Result:    result,
				Cleared:   cleared,
			})
		}
	}
	return out
}
